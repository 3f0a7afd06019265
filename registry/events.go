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

package registry

import (
	"github.com/blinklabs-io/resi/event"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	SerieCreatedEventType         event.EventType = "registry.serie-created"
	SerieClosedEventType          event.EventType = "registry.serie-closed"
	SerieSBTRegisteredEventType   event.EventType = "registry.serie-sbt-registered"
	ProjectAddedEventType         event.EventType = "registry.project-added"
	ProjectDisabledEventType      event.EventType = "registry.project-disabled"
	ResiTokenSetEventType         event.EventType = "registry.resi-token-set"
	TreasuryVaultSetEventType     event.EventType = "registry.treasury-vault-set"
	OwnershipTransferredEventType event.EventType = "registry.ownership-transferred"
)

type SerieCreatedEvent struct {
	MaxSupply        *uint256.Int   `json:"maxSupply"`
	SerieID          uint64         `json:"serieId"`
	StartTime        int64          `json:"startTime"`
	EndTime          int64          `json:"endTime"`
	NumberOfProjects uint64         `json:"numberOfProjects"`
	Vault            common.Address `json:"vault"`
}

type SerieClosedEvent struct {
	SerieID uint64 `json:"serieId"`
}

type SerieSBTRegisteredEvent struct {
	SerieID uint64         `json:"serieId"`
	Badge   common.Address `json:"badge"`
}

type ProjectEvent struct {
	SerieID uint64     `json:"serieId"`
	Name    types.Name `json:"name"`
}

type AddressSetEvent struct {
	Address common.Address `json:"address"`
}

type OwnershipTransferredEvent struct {
	PreviousOwner common.Address `json:"previousOwner"`
	NewOwner      common.Address `json:"newOwner"`
}
