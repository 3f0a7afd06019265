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

// NextNonce returns the current nonce for an account and advances it
func (d *Database) NextNonce(addr common.Address, txn *Txn) (uint64, error) {
	db := d.metadataDB(txn)
	tmpNonce, err := findOne[models.AccountNonce](
		db,
		nil,
		"address = ?",
		addr.Bytes(),
	)
	if err != nil {
		return 0, err
	}
	ret := tmpNonce.Nonce
	tmpNonce.Address = addr.Bytes()
	tmpNonce.Nonce++
	if err := save(db, &tmpNonce); err != nil {
		return 0, err
	}
	return ret, nil
}

func (d *Database) AddContract(contract *models.Contract, txn *Txn) error {
	return d.metadataDB(txn).Create(contract).Error
}

func (d *Database) GetContract(
	addr common.Address,
	txn *Txn,
) (models.Contract, error) {
	return findOne[models.Contract](
		d.metadataDB(txn),
		models.ErrContractNotFound,
		"address = ?",
		addr.Bytes(),
	)
}

// GetContracts returns deployed contracts in deployment order. An empty kind
// returns every contract
func (d *Database) GetContracts(
	kind string,
	txn *Txn,
) ([]models.Contract, error) {
	var ret []models.Contract
	query := d.metadataDB(txn).Order("id")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if result := query.Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
