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
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
)

const NameLength = 32

// Name is a fixed-width identifier used for project names, vault asset
// names and nicknames. The zero value is the empty name.
type Name [NameLength]byte

var ErrNameTooLong = errors.New("name longer than 32 bytes")

// NameFromString right-pads the string with zero bytes
func NameFromString(s string) (Name, error) {
	var n Name
	if len(s) > NameLength {
		return n, fmt.Errorf("%w: %q", ErrNameTooLong, s)
	}
	copy(n[:], s)
	return n, nil
}

// NameFromBytes converts a stored identifier. Longer input keeps its last
// NameLength bytes and shorter input is right-padded with zeros
func NameFromBytes(b []byte) Name {
	var n Name
	if len(b) > NameLength {
		b = b[len(b)-NameLength:]
	}
	copy(n[:], b)
	return n
}

// ParseName accepts either a 0x-prefixed 32-byte hex value or plain text
func ParseName(s string) (Name, error) {
	if strings.HasPrefix(s, "0x") && len(s) == 2+NameLength*2 {
		return Name(common.HexToHash(s)), nil
	}
	return NameFromString(s)
}

func (n Name) IsZero() bool {
	return n == Name{}
}

func (n Name) Bytes() []byte {
	return n[:]
}

func (n Name) Hex() string {
	return common.Hash(n).Hex()
}

// String returns the text form for padded text names and the hex form otherwise
func (n Name) String() string {
	trimmed := bytes.TrimRight(n[:], "\x00")
	if len(trimmed) > 0 && utf8.Valid(trimmed) &&
		bytes.IndexByte(trimmed, 0) < 0 {
		printable := true
		for _, r := range string(trimmed) {
			if r < 0x20 || r == 0x7f {
				printable = false
				break
			}
		}
		if printable {
			return string(trimmed)
		}
	}
	return n.Hex()
}

func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Name) UnmarshalText(data []byte) error {
	tmpName, err := ParseName(string(data))
	if err != nil {
		return err
	}
	*n = tmpName
	return nil
}
