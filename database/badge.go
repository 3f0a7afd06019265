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

func (d *Database) GetBadgeState(
	addr common.Address,
	txn *Txn,
) (models.BadgeState, error) {
	return findOne[models.BadgeState](
		d.metadataDB(txn),
		models.ErrStateNotFound,
		"address = ?",
		addr.Bytes(),
	)
}

func (d *Database) SetBadgeState(state *models.BadgeState, txn *Txn) error {
	return save(d.metadataDB(txn), state)
}

// GetBadge returns the badge a holder owns for a role
func (d *Database) GetBadge(
	contract common.Address,
	owner common.Address,
	role common.Hash,
	txn *Txn,
) (models.Badge, error) {
	return findOne[models.Badge](
		d.metadataDB(txn),
		models.ErrBadgeNotFound,
		"contract = ? AND owner = ? AND role = ?",
		contract.Bytes(),
		owner.Bytes(),
		role.Bytes(),
	)
}

func (d *Database) GetBadgeByTokenID(
	contract common.Address,
	tokenID uint64,
	txn *Txn,
) (models.Badge, error) {
	return findOne[models.Badge](
		d.metadataDB(txn),
		models.ErrBadgeNotFound,
		"contract = ? AND token_id = ?",
		contract.Bytes(),
		tokenID,
	)
}

// GetBadgesByOwner returns a holder's badges in mint order
func (d *Database) GetBadgesByOwner(
	contract common.Address,
	owner common.Address,
	txn *Txn,
) ([]models.Badge, error) {
	var ret []models.Badge
	result := d.metadataDB(txn).
		Where("contract = ? AND owner = ?", contract.Bytes(), owner.Bytes()).
		Order("token_id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (d *Database) SetBadge(badge *models.Badge, txn *Txn) error {
	return save(d.metadataDB(txn), badge)
}

func (d *Database) DeleteBadge(badge *models.Badge, txn *Txn) error {
	return d.metadataDB(txn).Delete(badge).Error
}

// GetBadgeRoleURI returns the default URI of a role, or an empty string
func (d *Database) GetBadgeRoleURI(
	contract common.Address,
	role common.Hash,
	txn *Txn,
) (string, error) {
	tmpURI, err := findOne[models.BadgeRoleURI](
		d.metadataDB(txn),
		nil,
		"contract = ? AND role = ?",
		contract.Bytes(),
		role.Bytes(),
	)
	if err != nil {
		return "", err
	}
	return tmpURI.URI, nil
}

func (d *Database) SetBadgeRoleURI(
	contract common.Address,
	role common.Hash,
	uri string,
	txn *Txn,
) error {
	db := d.metadataDB(txn)
	tmpURI, err := findOne[models.BadgeRoleURI](
		db,
		nil,
		"contract = ? AND role = ?",
		contract.Bytes(),
		role.Bytes(),
	)
	if err != nil {
		return err
	}
	tmpURI.Contract = contract.Bytes()
	tmpURI.Role = role.Bytes()
	tmpURI.URI = uri
	return save(db, &tmpURI)
}

// GetNickname returns a holder's nickname, or nil when none is set
func (d *Database) GetNickname(
	contract common.Address,
	holder common.Address,
	txn *Txn,
) ([]byte, error) {
	tmpNickname, err := findOne[models.Nickname](
		d.metadataDB(txn),
		nil,
		"contract = ? AND holder = ?",
		contract.Bytes(),
		holder.Bytes(),
	)
	if err != nil {
		return nil, err
	}
	return tmpNickname.Nickname, nil
}

func (d *Database) SetNickname(
	contract common.Address,
	holder common.Address,
	nickname []byte,
	txn *Txn,
) error {
	db := d.metadataDB(txn)
	tmpNickname, err := findOne[models.Nickname](
		db,
		nil,
		"contract = ? AND holder = ?",
		contract.Bytes(),
		holder.Bytes(),
	)
	if err != nil {
		return err
	}
	tmpNickname.Contract = contract.Bytes()
	tmpNickname.Holder = holder.Bytes()
	tmpNickname.Nickname = nickname
	return save(db, &tmpNickname)
}
