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
	"errors"

	"github.com/blinklabs-io/resi/database/models"
	"github.com/blinklabs-io/resi/database/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (d *Database) GetTokenState(
	addr common.Address,
	txn *Txn,
) (models.TokenState, error) {
	return findOne[models.TokenState](
		d.metadataDB(txn),
		models.ErrStateNotFound,
		"address = ?",
		addr.Bytes(),
	)
}

func (d *Database) SetTokenState(state *models.TokenState, txn *Txn) error {
	return save(d.metadataDB(txn), state)
}

func (d *Database) GetRoleMember(
	token common.Address,
	role common.Hash,
	member common.Address,
	txn *Txn,
) (models.RoleMember, error) {
	return findOne[models.RoleMember](
		d.metadataDB(txn),
		models.ErrMemberNotFound,
		"token = ? AND role = ? AND member = ?",
		token.Bytes(),
		role.Bytes(),
		member.Bytes(),
	)
}

func (d *Database) HasRole(
	token common.Address,
	role common.Hash,
	member common.Address,
	txn *Txn,
) (bool, error) {
	var count int64
	result := d.metadataDB(txn).
		Model(&models.RoleMember{}).
		Where(
			"token = ? AND role = ? AND member = ?",
			token.Bytes(),
			role.Bytes(),
			member.Bytes(),
		).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// AddRoleMember appends a member to the role set. It returns false without
// changes when the member already holds the role. The role itself is
// recorded in the role index on its first grant
func (d *Database) AddRoleMember(
	member *models.RoleMember,
	txn *Txn,
) (bool, error) {
	db := d.metadataDB(txn)
	token := common.BytesToAddress(member.Token)
	role := common.BytesToHash(member.Role)
	exists, err := d.HasRole(
		token,
		role,
		common.BytesToAddress(member.Member),
		txn,
	)
	if err != nil || exists {
		return false, err
	}
	count, err := d.RoleMemberCount(token, role, txn)
	if err != nil {
		return false, err
	}
	member.ID = 0
	member.Idx = count + 1
	if result := db.Create(member); result.Error != nil {
		return false, result.Error
	}
	entry, err := findOne[models.RoleEntry](
		db,
		nil,
		"token = ? AND role = ?",
		member.Token,
		member.Role,
	)
	if err != nil {
		return false, err
	}
	if entry.ID == 0 {
		roleCount, err := d.RoleCount(token, txn)
		if err != nil {
			return false, err
		}
		entry = models.RoleEntry{
			Token: member.Token,
			Role:  member.Role,
			Idx:   roleCount + 1,
		}
		if result := db.Create(&entry); result.Error != nil {
			return false, result.Error
		}
	}
	return true, nil
}

// RemoveRoleMember removes a member from the role set by moving the last
// member into its slot. It returns false when the member does not hold the role
func (d *Database) RemoveRoleMember(
	token common.Address,
	role common.Hash,
	member common.Address,
	txn *Txn,
) (bool, error) {
	db := d.metadataDB(txn)
	tmpMember, err := d.GetRoleMember(token, role, member, txn)
	if err != nil {
		if errors.Is(err, models.ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	count, err := d.RoleMemberCount(token, role, txn)
	if err != nil {
		return false, err
	}
	if result := db.Delete(&tmpMember); result.Error != nil {
		return false, result.Error
	}
	if tmpMember.Idx != count {
		last, err := d.GetRoleMemberAt(token, role, count-1, txn)
		if err != nil {
			return false, err
		}
		last.Idx = tmpMember.Idx
		if err := save(db, &last); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *Database) RoleMemberCount(
	token common.Address,
	role common.Hash,
	txn *Txn,
) (uint64, error) {
	var count int64
	result := d.metadataDB(txn).
		Model(&models.RoleMember{}).
		Where("token = ? AND role = ?", token.Bytes(), role.Bytes()).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return uint64(count), nil //nolint:gosec
}

// GetRoleMemberAt returns the member at a zero-based position of the role set
func (d *Database) GetRoleMemberAt(
	token common.Address,
	role common.Hash,
	index uint64,
	txn *Txn,
) (models.RoleMember, error) {
	return findOne[models.RoleMember](
		d.metadataDB(txn),
		models.ErrMemberNotFound,
		"token = ? AND role = ? AND idx = ?",
		token.Bytes(),
		role.Bytes(),
		index+1,
	)
}

// GetRoleMembers returns the role set in index order
func (d *Database) GetRoleMembers(
	token common.Address,
	role common.Hash,
	txn *Txn,
) ([]models.RoleMember, error) {
	var ret []models.RoleMember
	result := d.metadataDB(txn).
		Where("token = ? AND role = ?", token.Bytes(), role.Bytes()).
		Order("idx").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// RoleCount returns the number of roles that were ever granted
func (d *Database) RoleCount(token common.Address, txn *Txn) (uint64, error) {
	var count int64
	result := d.metadataDB(txn).
		Model(&models.RoleEntry{}).
		Where("token = ?", token.Bytes()).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return uint64(count), nil //nolint:gosec
}

// GetRoleAt returns the role at a zero-based position in grant order
func (d *Database) GetRoleAt(
	token common.Address,
	index uint64,
	txn *Txn,
) (models.RoleEntry, error) {
	return findOne[models.RoleEntry](
		d.metadataDB(txn),
		models.ErrRoleNotFound,
		"token = ? AND idx = ?",
		token.Bytes(),
		index+1,
	)
}

// GetLedgerBalance returns the reputation a holder has for a series. Missing
// rows read as zero
func (d *Database) GetLedgerBalance(
	token common.Address,
	holder common.Address,
	serieID uint64,
	txn *Txn,
) (*uint256.Int, error) {
	tmpBalance, err := findOne[models.LedgerBalance](
		d.metadataDB(txn),
		nil,
		"token = ? AND holder = ? AND serie_id = ?",
		token.Bytes(),
		holder.Bytes(),
		serieID,
	)
	if err != nil {
		return nil, err
	}
	return tmpBalance.Balance.Uint256(), nil
}

func (d *Database) SetLedgerBalance(
	token common.Address,
	holder common.Address,
	serieID uint64,
	balance *uint256.Int,
	txn *Txn,
) error {
	db := d.metadataDB(txn)
	tmpBalance, err := findOne[models.LedgerBalance](
		db,
		nil,
		"token = ? AND holder = ? AND serie_id = ?",
		token.Bytes(),
		holder.Bytes(),
		serieID,
	)
	if err != nil {
		return err
	}
	tmpBalance.Token = token.Bytes()
	tmpBalance.Holder = holder.Bytes()
	tmpBalance.SerieID = serieID
	tmpBalance.Balance = types.NewAmount(balance)
	return save(db, &tmpBalance)
}

// GetLedgerBalances returns every per-series balance row of a holder
func (d *Database) GetLedgerBalances(
	token common.Address,
	holder common.Address,
	txn *Txn,
) ([]models.LedgerBalance, error) {
	var ret []models.LedgerBalance
	result := d.metadataDB(txn).
		Where("token = ? AND holder = ?", token.Bytes(), holder.Bytes()).
		Order("serie_id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetSerieLedgerSupply sums all holder balances of a series
func (d *Database) GetSerieLedgerSupply(
	token common.Address,
	serieID uint64,
	txn *Txn,
) (*uint256.Int, error) {
	var rows []models.LedgerBalance
	result := d.metadataDB(txn).
		Where("token = ? AND serie_id = ?", token.Bytes(), serieID).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	ret := new(uint256.Int)
	for _, row := range rows {
		ret.Add(ret, &row.Balance.Int)
	}
	return ret, nil
}
