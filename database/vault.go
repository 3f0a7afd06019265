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

package database

import (
	"github.com/blinklabs-io/resi/database/models"
	"github.com/ethereum/go-ethereum/common"
)

func (d *Database) GetVaultState(
	addr common.Address,
	txn *Txn,
) (models.VaultState, error) {
	return findOne[models.VaultState](
		d.metadataDB(txn),
		models.ErrStateNotFound,
		"address = ?",
		addr.Bytes(),
	)
}

func (d *Database) SetVaultState(state *models.VaultState, txn *Txn) error {
	return save(d.metadataDB(txn), state)
}

func (d *Database) GetVaultToken(
	vault common.Address,
	name common.Hash,
	txn *Txn,
) (models.VaultToken, error) {
	return findOne[models.VaultToken](
		d.metadataDB(txn),
		models.ErrTokenNotFound,
		"vault = ? AND name = ?",
		vault.Bytes(),
		name.Bytes(),
	)
}

// GetVaultTokens returns the named assets of a vault in insertion order
func (d *Database) GetVaultTokens(
	vault common.Address,
	txn *Txn,
) ([]models.VaultToken, error) {
	var ret []models.VaultToken
	result := d.metadataDB(txn).
		Where("vault = ?", vault.Bytes()).
		Order("id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (d *Database) AddVaultToken(token *models.VaultToken, txn *Txn) error {
	return d.metadataDB(txn).Create(token).Error
}

func (d *Database) DeleteVaultToken(token *models.VaultToken, txn *Txn) error {
	return d.metadataDB(txn).Delete(token).Error
}
