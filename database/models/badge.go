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

package models

import (
	"github.com/blinklabs-io/resi/database/types"
)

type BadgeState struct {
	Address     []byte `gorm:"uniqueIndex;size:20"`
	Owner       []byte `gorm:"size:20"`
	Registry    []byte `gorm:"size:20"`
	Token       []byte `gorm:"size:20"`
	Name        string
	Symbol      string
	ContractURI string
	ID          uint `gorm:"primarykey"`
	SerieID     uint64
	NextTokenID uint64
}

func (BadgeState) TableName() string {
	return "badge_state"
}

type Badge struct {
	Contract []byte `gorm:"uniqueIndex:idx_badge_token;uniqueIndex:idx_badge_owner_role;size:20"`
	Owner    []byte `gorm:"uniqueIndex:idx_badge_owner_role;index;size:20"`
	Role     []byte `gorm:"uniqueIndex:idx_badge_owner_role;size:32"`
	TokenURI string
	Balance  types.Amount `gorm:"not null"`
	ID       uint         `gorm:"primarykey"`
	TokenID  uint64       `gorm:"uniqueIndex:idx_badge_token"`
	SerieID  uint64
}

func (Badge) TableName() string {
	return "badge"
}

type BadgeRoleURI struct {
	Contract []byte `gorm:"uniqueIndex:idx_badge_role_uri;size:20"`
	Role     []byte `gorm:"uniqueIndex:idx_badge_role_uri;size:32"`
	URI      string
	ID       uint `gorm:"primarykey"`
}

func (BadgeRoleURI) TableName() string {
	return "badge_role_uri"
}

type Nickname struct {
	Contract []byte `gorm:"uniqueIndex:idx_nickname;size:20"`
	Holder   []byte `gorm:"uniqueIndex:idx_nickname;size:20"`
	Nickname []byte `gorm:"size:32"`
	ID       uint   `gorm:"primarykey"`
}

func (Nickname) TableName() string {
	return "nickname"
}
