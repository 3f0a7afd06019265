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
	"github.com/blinklabs-io/resi/database/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (d *Database) GetAssetState(
	addr common.Address,
	txn *Txn,
) (models.AssetState, error) {
	return findOne[models.AssetState](
		d.metadataDB(txn),
		models.ErrStateNotFound,
		"address = ?",
		addr.Bytes(),
	)
}

func (d *Database) SetAssetState(state *models.AssetState, txn *Txn) error {
	return save(d.metadataDB(txn), state)
}

// GetAssetBalance returns a holder's balance of an asset. The zero asset
// address holds native balances
func (d *Database) GetAssetBalance(
	asset common.Address,
	holder common.Address,
	txn *Txn,
) (*uint256.Int, error) {
	tmpBalance, err := findOne[models.AssetBalance](
		d.metadataDB(txn),
		nil,
		"asset = ? AND holder = ?",
		asset.Bytes(),
		holder.Bytes(),
	)
	if err != nil {
		return nil, err
	}
	return tmpBalance.Balance.Uint256(), nil
}

func (d *Database) SetAssetBalance(
	asset common.Address,
	holder common.Address,
	balance *uint256.Int,
	txn *Txn,
) error {
	db := d.metadataDB(txn)
	tmpBalance, err := findOne[models.AssetBalance](
		db,
		nil,
		"asset = ? AND holder = ?",
		asset.Bytes(),
		holder.Bytes(),
	)
	if err != nil {
		return err
	}
	tmpBalance.Asset = asset.Bytes()
	tmpBalance.Holder = holder.Bytes()
	tmpBalance.Balance = types.NewAmount(balance)
	return save(db, &tmpBalance)
}
