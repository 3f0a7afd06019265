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

package asset_test

import (
	"context"
	"testing"

	"github.com/blinklabs-io/resi/asset"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = common.HexToAddress("0xa1")
	alice = common.HexToAddress("0xa2")
	bob   = common.HexToAddress("0xa3")
)

func newTestAsset(t *testing.T) (*chain.Chain, *asset.Ledger) {
	t.Helper()
	db, err := database.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c, err := chain.New(chain.Config{Database: db})
	require.NoError(t, err)
	var ledger *asset.Ledger
	_, err = c.Submit(context.Background(), owner, func(call *chain.Call) error {
		comp, err := call.Deploy(asset.Kind)
		if err != nil {
			return err
		}
		ledger = comp.(*asset.Ledger)
		return ledger.Initialize(call, "MOCKERC20", "MERC20", 18, uint256.NewInt(1000))
	})
	require.NoError(t, err)
	return c, ledger
}

func balanceOf(t *testing.T, c *chain.Chain, ledger *asset.Ledger, holder common.Address) uint64 {
	t.Helper()
	var ret uint64
	err := c.Query(context.Background(), func(call *chain.Call) error {
		balance, err := ledger.BalanceOf(call, holder)
		if err != nil {
			return err
		}
		ret = balance.Uint64()
		return nil
	})
	require.NoError(t, err)
	return ret
}

func TestInitializeOnce(t *testing.T) {
	c, ledger := newTestAsset(t)
	assert.Equal(t, uint64(1000), balanceOf(t, c, ledger, owner))
	_, err := c.Submit(context.Background(), owner, func(call *chain.Call) error {
		return ledger.Initialize(call, "X", "X", 18, nil)
	})
	assert.ErrorIs(t, err, chain.ErrAlreadyInitialized)
}

func TestTransfer(t *testing.T) {
	c, ledger := newTestAsset(t)
	receipt, err := c.Submit(context.Background(), owner, func(call *chain.Call) error {
		return ledger.Transfer(call, alice, uint256.NewInt(300))
	})
	require.NoError(t, err)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, asset.TransferEventType, receipt.Events[0].Type)
	assert.Equal(t, uint64(700), balanceOf(t, c, ledger, owner))
	assert.Equal(t, uint64(300), balanceOf(t, c, ledger, alice))
	_, err = c.Submit(context.Background(), alice, func(call *chain.Call) error {
		return ledger.Transfer(call, bob, uint256.NewInt(301))
	})
	require.ErrorIs(t, err, asset.ErrInsufficientBalance)
	_, err = c.Submit(context.Background(), alice, func(call *chain.Call) error {
		return ledger.Transfer(call, common.Address{}, uint256.NewInt(1))
	})
	require.ErrorIs(t, err, asset.ErrInvalidRecipient)
	assert.Equal(t, uint64(300), balanceOf(t, c, ledger, alice))
	assert.Equal(t, uint64(0), balanceOf(t, c, ledger, bob))
}

func TestNilAmount(t *testing.T) {
	c, ledger := newTestAsset(t)
	_, err := c.Submit(context.Background(), owner, func(call *chain.Call) error {
		return ledger.Transfer(call, alice, nil)
	})
	require.ErrorIs(t, err, asset.ErrInvalidAmount)
	_, err = c.Submit(context.Background(), owner, func(call *chain.Call) error {
		return ledger.Mint(call, alice, nil)
	})
	require.ErrorIs(t, err, asset.ErrInvalidAmount)
	assert.Equal(t, uint64(1000), balanceOf(t, c, ledger, owner))
}

func TestMintOwnerOnly(t *testing.T) {
	c, ledger := newTestAsset(t)
	_, err := c.Submit(context.Background(), alice, func(call *chain.Call) error {
		return ledger.Mint(call, alice, uint256.NewInt(5))
	})
	require.ErrorIs(t, err, chain.ErrNotOwner)
	_, err = c.Submit(context.Background(), owner, func(call *chain.Call) error {
		return ledger.Mint(call, bob, uint256.NewInt(5))
	})
	require.NoError(t, err)
	err = c.Query(context.Background(), func(call *chain.Call) error {
		supply, err := ledger.TotalSupply(call)
		require.NoError(t, err)
		assert.Equal(t, uint64(1005), supply.Uint64())
		return nil
	})
	require.NoError(t, err)
}

func TestNativeBalance(t *testing.T) {
	c, _ := newTestAsset(t)
	_, err := c.Submit(context.Background(), owner, func(call *chain.Call) error {
		return asset.CreditNative(call, alice, uint256.NewInt(42))
	})
	require.NoError(t, err)
	err = c.Query(context.Background(), func(call *chain.Call) error {
		balance, err := asset.NativeBalance(call, alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), balance.Uint64())
		return nil
	})
	require.NoError(t, err)
}
