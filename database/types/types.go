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

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Amount is a 256-bit unsigned quantity stored as a decimal string
//
//nolint:recvcheck
type Amount struct {
	uint256.Int
}

// NewAmount returns an Amount holding a copy of the provided value
func NewAmount(v *uint256.Int) Amount {
	var ret Amount
	if v != nil {
		ret.Set(v)
	}
	return ret
}

// Uint256 returns a copy of the amount as a *uint256.Int
func (a Amount) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&a.Int)
}

func (a Amount) Value() (driver.Value, error) {
	return a.Dec(), nil
}

func (a *Amount) Scan(val any) error {
	var v string
	switch tmpVal := val.(type) {
	case nil:
		a.Clear()
		return nil
	case string:
		v = tmpVal
	case []byte:
		v = string(tmpVal)
	case int64:
		if tmpVal < 0 {
			return fmt.Errorf("negative amount value: %d", tmpVal)
		}
		a.SetUint64(uint64(tmpVal))
		return nil
	default:
		return fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
	if err := a.SetFromDecimal(v); err != nil {
		return fmt.Errorf("failed to set amount from string %q: %w", v, err)
	}
	return nil
}

// GormDataType makes gorm create a text column for the amount
func (Amount) GormDataType() string {
	return "string"
}

// ErrBlobKeyNotFound is returned by blob operations when a key is missing
var ErrBlobKeyNotFound = errors.New("blob key not found")

// ErrNilTxn is returned when a nil transaction is provided where a valid transaction is required
var ErrNilTxn = errors.New("nil transaction")

// ErrNoStoreAvailable is returned when no blob or metadata store is available
var ErrNoStoreAvailable = errors.New("no store available")

// ErrTxnFinished is returned when a finished transaction is used
var ErrTxnFinished = errors.New("transaction already finished")
