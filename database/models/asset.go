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

type AssetState struct {
	Address     []byte `gorm:"uniqueIndex;size:20"`
	Owner       []byte `gorm:"size:20"`
	Name        string
	Symbol      string
	TotalSupply types.Amount `gorm:"not null"`
	ID          uint         `gorm:"primarykey"`
	Decimals    uint8
}

func (AssetState) TableName() string {
	return "asset_state"
}

// AssetBalance holds fungible asset balances. The zero asset address is the native asset.
type AssetBalance struct {
	Asset   []byte       `gorm:"uniqueIndex:idx_asset_balance;size:20"`
	Holder  []byte       `gorm:"uniqueIndex:idx_asset_balance;size:20"`
	Balance types.Amount `gorm:"not null"`
	ID      uint         `gorm:"primarykey"`
}

func (AssetBalance) TableName() string {
	return "asset_balance"
}
