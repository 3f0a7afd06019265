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

package token

import (
	"github.com/blinklabs-io/resi/event"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	RoleGrantedEventType         event.EventType = "token.role-granted"
	RoleRevokedEventType         event.EventType = "token.role-revoked"
	MentorAddedEventType         event.EventType = "token.mentor-added"
	ProjectBuilderAddedEventType event.EventType = "token.project-builder-added"
	ResiBuilderAddedEventType    event.EventType = "token.resi-builder-added"
	ResiMintedEventType          event.EventType = "token.resi-minted"
	ExitEventType                event.EventType = "token.exit"
	BurnEventType                event.EventType = "token.burn"
)

type RoleEvent struct {
	Role    types.Role     `json:"role"`
	Account common.Address `json:"account"`
	Sender  common.Address `json:"sender"`
}

// ProjectRoleEvent is emitted when a mentor or project builder joins a project
type ProjectRoleEvent struct {
	Project types.Name     `json:"project"`
	SerieID uint64         `json:"serieId"`
	Account common.Address `json:"account"`
}

type ResiBuilderAddedEvent struct {
	Account common.Address `json:"account"`
}

type ResiMintedEvent struct {
	Amount *uint256.Int   `json:"amount"`
	Role   types.Role     `json:"role"`
	To     common.Address `json:"to"`
}

type ExitEvent struct {
	Amount  *uint256.Int   `json:"amount"`
	Payout  *uint256.Int   `json:"payout"`
	SerieID uint64         `json:"serieId"`
	User    common.Address `json:"user"`
}

type BurnEvent struct {
	Amount  *uint256.Int   `json:"amount"`
	SerieID uint64         `json:"serieId"`
	From    common.Address `json:"from"`
}
