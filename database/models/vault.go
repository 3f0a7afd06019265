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

type VaultState struct {
	Address   []byte `gorm:"uniqueIndex;size:20"`
	Owner     []byte `gorm:"size:20"`
	ResiToken []byte `gorm:"size:20"`
	Registry  []byte `gorm:"size:20"`
	MainToken []byte `gorm:"size:20"`
	ID        uint   `gorm:"primarykey"`
	SerieID   uint64
}

func (VaultState) TableName() string {
	return "vault_state"
}

type VaultToken struct {
	Vault []byte `gorm:"uniqueIndex:idx_vault_token;size:20"`
	Name  []byte `gorm:"uniqueIndex:idx_vault_token;size:32"`
	Asset []byte `gorm:"size:20"`
	ID    uint   `gorm:"primarykey"`
}

func (VaultToken) TableName() string {
	return "vault_token"
}
