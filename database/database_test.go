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

package database_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/database/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToken = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testRole  = crypto.Keccak256Hash([]byte("MENTOR_ROLE"))
	testRole2 = crypto.Keccak256Hash([]byte("RESI_BUILDER_ROLE"))
	memberA   = common.HexToAddress("0xa0")
	memberB   = common.HexToAddress("0xb0")
	memberC   = common.HexToAddress("0xc0")
)

func newTestDatabase(t *testing.T, dataDir string) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func addMember(
	t *testing.T,
	db *database.Database,
	txn *database.Txn,
	role common.Hash,
	member common.Address,
) bool {
	t.Helper()
	added, err := db.AddRoleMember(
		&models.RoleMember{
			Token:  testToken.Bytes(),
			Role:   role.Bytes(),
			Member: member.Bytes(),
		},
		txn,
	)
	require.NoError(t, err)
	return added
}

func TestRoleSetSwapAndPop(t *testing.T) {
	db := newTestDatabase(t, "")
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		assert.True(t, addMember(t, db, txn, testRole, memberA))
		assert.True(t, addMember(t, db, txn, testRole, memberB))
		assert.True(t, addMember(t, db, txn, testRole, memberC))
		// Duplicate grants are ignored
		assert.False(t, addMember(t, db, txn, testRole, memberB))
		count, err := db.RoleMemberCount(testToken, testRole, txn)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), count)
		// Removing the first member moves the last one into its slot
		removed, err := db.RemoveRoleMember(testToken, testRole, memberA, txn)
		require.NoError(t, err)
		assert.True(t, removed)
		removed, err = db.RemoveRoleMember(testToken, testRole, memberA, txn)
		require.NoError(t, err)
		assert.False(t, removed)
		first, err := db.GetRoleMemberAt(testToken, testRole, 0, txn)
		require.NoError(t, err)
		assert.Equal(t, memberC.Bytes(), first.Member)
		second, err := db.GetRoleMemberAt(testToken, testRole, 1, txn)
		require.NoError(t, err)
		assert.Equal(t, memberB.Bytes(), second.Member)
		_, err = db.GetRoleMemberAt(testToken, testRole, 2, txn)
		assert.ErrorIs(t, err, models.ErrMemberNotFound)
		has, err := db.HasRole(testToken, testRole, memberA, txn)
		require.NoError(t, err)
		assert.False(t, has)
		return nil
	})
	require.NoError(t, err)
}

func TestRoleIndexInsertionOrder(t *testing.T) {
	db := newTestDatabase(t, "")
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		addMember(t, db, txn, testRole2, memberA)
		addMember(t, db, txn, testRole, memberA)
		addMember(t, db, txn, testRole2, memberB)
		count, err := db.RoleCount(testToken, txn)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
		entry, err := db.GetRoleAt(testToken, 0, txn)
		require.NoError(t, err)
		assert.Equal(t, testRole2.Bytes(), entry.Role)
		entry, err = db.GetRoleAt(testToken, 1, txn)
		require.NoError(t, err)
		assert.Equal(t, testRole.Bytes(), entry.Role)
		// Emptying a role set keeps it in the index
		_, err = db.RemoveRoleMember(testToken, testRole, memberA, txn)
		require.NoError(t, err)
		count, err = db.RoleCount(testToken, txn)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
		return nil
	})
	require.NoError(t, err)
}

func TestLedgerBalances(t *testing.T) {
	db := newTestDatabase(t, "")
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		balance, err := db.GetLedgerBalance(testToken, memberA, 1, txn)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
		require.NoError(
			t,
			db.SetLedgerBalance(testToken, memberA, 1, uint256.NewInt(20), txn),
		)
		require.NoError(
			t,
			db.SetLedgerBalance(testToken, memberB, 1, uint256.NewInt(162), txn),
		)
		require.NoError(
			t,
			db.SetLedgerBalance(testToken, memberA, 2, uint256.NewInt(5), txn),
		)
		require.NoError(
			t,
			db.SetLedgerBalance(testToken, memberA, 1, uint256.NewInt(25), txn),
		)
		supply, err := db.GetSerieLedgerSupply(testToken, 1, txn)
		require.NoError(t, err)
		assert.Equal(t, uint64(187), supply.Uint64())
		rows, err := db.GetLedgerBalances(testToken, memberA, txn)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, uint64(25), rows[0].Balance.Uint64())
		assert.Equal(t, uint64(5), rows[1].Balance.Uint64())
		return nil
	})
	require.NoError(t, err)
}

func TestNextNonce(t *testing.T) {
	db := newTestDatabase(t, "")
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		for i := range uint64(3) {
			nonce, err := db.NextNonce(memberA, txn)
			require.NoError(t, err)
			assert.Equal(t, i, nonce)
		}
		nonce, err := db.NextNonce(memberB, txn)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), nonce)
		return nil
	})
	require.NoError(t, err)
}

func TestEventJournal(t *testing.T) {
	db := newTestDatabase(t, "")
	records := []database.EventRecord{
		{TxID: "tx1", Type: "SerieCreated", Contract: testToken, Data: json.RawMessage(`{"serieId":1}`)},
		{TxID: "tx1", Type: "ProjectAdded", Contract: testToken, Data: json.RawMessage(`{"name":"p1"}`)},
	}
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		return db.AppendEvents(records, txn)
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), records[0].Seq)
	assert.Equal(t, uint64(2), records[1].Seq)
	// Rolled back appends leave no trace
	errTest := errors.New("test")
	err = db.Transaction(true).Do(func(txn *database.Txn) error {
		if err := db.AppendEvents(
			[]database.EventRecord{{TxID: "tx2", Type: "SerieClosed"}},
			txn,
		); err != nil {
			return err
		}
		return errTest
	})
	require.ErrorIs(t, err, errTest)
	seq, err := db.LastEventSeq(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)
	events, err := db.GetEvents(0, 0, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "SerieCreated", events[0].Type)
	assert.Equal(t, testToken, events[0].Contract)
	assert.JSONEq(t, `{"name":"p1"}`, string(events[1].Data))
	events, err = db.GetEvents(2, 10, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(2), events[0].Seq)
	events, err = db.GetEvents(1, 1, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(1), events[0].Seq)
}

func TestRollbackDiscardsMetadata(t *testing.T) {
	db := newTestDatabase(t, "")
	errTest := errors.New("test")
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		require.NoError(
			t,
			db.SetRegistryState(
				&models.RegistryState{Address: testToken.Bytes()},
				txn,
			),
		)
		return errTest
	})
	require.ErrorIs(t, err, errTest)
	_, err = db.GetRegistryState(testToken, nil)
	assert.ErrorIs(t, err, models.ErrStateNotFound)
}

func TestPersistentReload(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	err = db.Transaction(true).Do(func(txn *database.Txn) error {
		if err := db.SetSerie(
			&models.Serie{Registry: testToken.Bytes(), SerieID: 1, Active: true},
			txn,
		); err != nil {
			return err
		}
		return db.AppendEvents(
			[]database.EventRecord{{TxID: "tx1", Type: "SerieCreated"}},
			txn,
		)
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())
	// Reopening checks the commit timestamps of both stores
	db = newTestDatabase(t, dataDir)
	serie, err := db.GetSerie(testToken, 1, nil)
	require.NoError(t, err)
	assert.True(t, serie.Active)
	seq, err := db.LastEventSeq(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)
}
