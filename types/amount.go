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
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Decimals is the fixed-point precision of reputation and settlement amounts
const Decimals = 18

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidHex    = errors.New("invalid address")
)

var unit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals))

// Units returns whole * 10^18
func Units(whole uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(whole), unit)
}

// ParseAmount parses a decimal amount with up to 18 fractional digits into
// its fixed-point representation. "20" and "20.0" both yield 20e18.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") || len(frac) > Decimals {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	frac += strings.Repeat("0", Decimals-len(frac))
	ret, err := uint256.FromDecimal(whole + frac)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	return ret, nil
}

// FormatAmount renders a fixed-point amount with trailing zeros trimmed
func FormatAmount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	dec := v.Dec()
	if len(dec) <= Decimals {
		dec = strings.Repeat("0", Decimals-len(dec)+1) + dec
	}
	whole := dec[:len(dec)-Decimals]
	frac := strings.TrimRight(dec[len(dec)-Decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// ParseAddress parses a 0x-prefixed hex address
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return common.HexToAddress(s), nil
}
