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

type RegistryState struct {
	Address       []byte `gorm:"uniqueIndex;size:20"`
	Owner         []byte `gorm:"size:20"`
	ResiToken     []byte `gorm:"size:20"`
	TreasuryVault []byte `gorm:"size:20"`
	ID            uint   `gorm:"primarykey"`
	ActiveSerie   uint64
}

func (RegistryState) TableName() string {
	return "registry_state"
}

type Serie struct {
	Registry         []byte       `gorm:"uniqueIndex:idx_serie_registry_serie;size:20"`
	Vault            []byte       `gorm:"size:20"`
	Badge            []byte       `gorm:"size:20"`
	MaxSupply        types.Amount `gorm:"not null"`
	CurrentSupply    types.Amount `gorm:"not null"`
	ID               uint         `gorm:"primarykey"`
	SerieID          uint64       `gorm:"uniqueIndex:idx_serie_registry_serie"`
	StartTime        int64
	EndTime          int64
	NumberOfProjects uint64
	CurrentProjects  uint64
	Active           bool
}

func (Serie) TableName() string {
	return "serie"
}

type Project struct {
	Registry []byte `gorm:"uniqueIndex:idx_project_registry_name;size:20"`
	Name     []byte `gorm:"uniqueIndex:idx_project_registry_name;size:32"`
	ID       uint   `gorm:"primarykey"`
	SerieID  uint64 `gorm:"index"`
	Active   bool
}

func (Project) TableName() string {
	return "project"
}
