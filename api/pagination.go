// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	DefaultEventLimit = 100
	MaxEventLimit     = 1000
)

var ErrInvalidPaginationParameters = errors.New(
	"invalid pagination parameters",
)

// EventRange contains parsed event paging query values
type EventRange struct {
	From  uint64
	Limit int
}

// ParseEventRange parses the from and limit query parameters and applies
// defaults and bounds clamping. Sequence numbers start at 1
func ParseEventRange(r *http.Request) (EventRange, error) {
	params := EventRange{
		From:  1,
		Limit: DefaultEventLimit,
	}
	query := r.URL.Query()
	if fromParam := query.Get("from"); fromParam != "" {
		from, err := strconv.ParseUint(fromParam, 10, 64)
		if err != nil {
			return EventRange{}, ErrInvalidPaginationParameters
		}
		params.From = from
	}
	if limitParam := query.Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil {
			return EventRange{}, ErrInvalidPaginationParameters
		}
		params.Limit = limit
	}
	// Bounds clamping
	if params.From < 1 {
		params.From = 1
	}
	if params.Limit < 1 {
		params.Limit = 1
	}
	if params.Limit > MaxEventLimit {
		params.Limit = MaxEventLimit
	}
	return params, nil
}

// SetPaginationHeaders sets the next sequence number to request
func SetPaginationHeaders(w http.ResponseWriter, next uint64) {
	w.Header().Set("X-Pagination-Next", strconv.FormatUint(next, 10))
}
