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

type TokenState struct {
	Address     []byte `gorm:"uniqueIndex;size:20"`
	Registry    []byte `gorm:"size:20"`
	Treasury    []byte `gorm:"size:20"`
	Name        string
	Symbol      string
	TotalSupply types.Amount `gorm:"not null"`
	ID          uint         `gorm:"primarykey"`
	Decimals    uint8
}

func (TokenState) TableName() string {
	return "token_state"
}

// RoleMember is one entry of an enumerable role set. Idx is 1-based and
// kept dense by swap-and-pop on removal.
type RoleMember struct {
	Token   []byte `gorm:"uniqueIndex:idx_role_member;index:idx_role_member_idx;size:20"`
	Role    []byte `gorm:"uniqueIndex:idx_role_member;index:idx_role_member_idx;size:32"`
	Member  []byte `gorm:"uniqueIndex:idx_role_member;size:20"`
	Project []byte `gorm:"size:32"`
	ID      uint   `gorm:"primarykey"`
	Idx     uint64 `gorm:"index:idx_role_member_idx"`
	SerieID uint64
}

func (RoleMember) TableName() string {
	return "role_member"
}

// RoleEntry records the order in which roles were first granted
type RoleEntry struct {
	Token []byte `gorm:"uniqueIndex:idx_role_entry;size:20"`
	Role  []byte `gorm:"uniqueIndex:idx_role_entry;size:32"`
	ID    uint   `gorm:"primarykey"`
	Idx   uint64
}

func (RoleEntry) TableName() string {
	return "role_entry"
}

// LedgerBalance is the reputation balance of a holder within one series
type LedgerBalance struct {
	Token   []byte       `gorm:"uniqueIndex:idx_ledger_balance;size:20"`
	Holder  []byte       `gorm:"uniqueIndex:idx_ledger_balance;index;size:20"`
	Balance types.Amount `gorm:"not null"`
	ID      uint         `gorm:"primarykey"`
	SerieID uint64       `gorm:"uniqueIndex:idx_ledger_balance"`
}

func (LedgerBalance) TableName() string {
	return "ledger_balance"
}
