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

import "encoding/json"

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// Amounts are decimal strings in base units

type SerieResponse struct {
	MaxSupply        string `json:"max_supply"`
	CurrentSupply    string `json:"current_supply"`
	Vault            string `json:"vault"`
	Badge            string `json:"badge"`
	StartTime        int64  `json:"start_time"`
	EndTime          int64  `json:"end_time"`
	ID               uint64 `json:"id"`
	NumberOfProjects uint64 `json:"number_of_projects"`
	CurrentProjects  uint64 `json:"current_projects"`
	Active           bool   `json:"active"`
}

type ProjectResponse struct {
	Name    string `json:"name"`
	SerieID uint64 `json:"serie_id"`
	Active  bool   `json:"active"`
}

type BadgeResponse struct {
	Contract string `json:"contract"`
	Role     string `json:"role"`
	TokenURI string `json:"token_uri"`
	Balance  string `json:"balance"`
	SerieID  uint64 `json:"serie_id"`
	TokenID  uint64 `json:"token_id"`
}

type SerieBalanceResponse struct {
	Balance string `json:"balance"`
	SerieID uint64 `json:"serie_id"`
}

type AccountResponse struct {
	Address  string                 `json:"address"`
	Balance  string                 `json:"balance"`
	Nickname string                 `json:"nickname,omitempty"`
	Series   []SerieBalanceResponse `json:"series"`
	Badges   []BadgeResponse        `json:"badges"`
}

type RoleMemberResponse struct {
	Account string `json:"account"`
	Project string `json:"project,omitempty"`
	SerieID uint64 `json:"serie_id,omitempty"`
}

type QuoteResponse struct {
	Amount  string `json:"amount"`
	Payout  string `json:"payout"`
	SerieID uint64 `json:"serie_id"`
}

type EventResponse struct {
	Data      json.RawMessage `json:"data"`
	TxID      string          `json:"tx_id"`
	Type      string          `json:"type"`
	Contract  string          `json:"contract"`
	Seq       uint64          `json:"seq"`
	Timestamp int64           `json:"timestamp"`
}
