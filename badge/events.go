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

package badge

import (
	"github.com/blinklabs-io/resi/event"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	MintSBTEventType               event.EventType = "badge.mint-sbt"
	BurnEventType                  event.EventType = "badge.burn"
	BalanceUpdatedEventType        event.EventType = "badge.balance-updated"
	NicknameUpdatedEventType       event.EventType = "badge.nickname-updated"
	DefaultRoleURIUpdatedEventType event.EventType = "badge.default-role-uri-updated"
	ContractURIUpdatedEventType    event.EventType = "badge.contract-uri-updated"
	RegistrySetEventType           event.EventType = "badge.registry-set"
	ResiTokenSetEventType          event.EventType = "badge.resi-token-set"
)

type MintSBTEvent struct {
	Role    types.Role     `json:"role"`
	SerieID uint64         `json:"serieId"`
	TokenID uint64         `json:"tokenId"`
	To      common.Address `json:"to"`
}

type BurnEvent struct {
	TokenID uint64         `json:"tokenId"`
	Owner   common.Address `json:"owner"`
}

type BalanceUpdatedEvent struct {
	Balance *uint256.Int   `json:"balance"`
	Role    types.Role     `json:"role"`
	Holder  common.Address `json:"holder"`
}

type NicknameUpdatedEvent struct {
	Nickname types.Name     `json:"nickname"`
	Holder   common.Address `json:"holder"`
}

type DefaultRoleURIUpdatedEvent struct {
	OldURI string     `json:"oldUri"`
	NewURI string     `json:"newUri"`
	Role   types.Role `json:"role"`
}

type ContractURIUpdatedEvent struct {
	URI string `json:"uri"`
}

type AddressSetEvent struct {
	Address common.Address `json:"address"`
}
