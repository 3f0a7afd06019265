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

package asset

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database/models"
	"github.com/blinklabs-io/resi/database/types"
	"github.com/blinklabs-io/resi/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const Kind chain.Kind = "asset"

const TransferEventType event.EventType = "asset.transfer"

var (
	ErrInsufficientBalance = chain.NewError(
		chain.ErrInvalidState,
		"insufficient balance",
	)
	ErrInvalidRecipient = chain.NewError(
		chain.ErrInvalidArgument,
		"invalid recipient",
	)
	ErrInvalidName = chain.NewError(
		chain.ErrInvalidArgument,
		"invalid asset name",
	)
	ErrInvalidAmount = chain.NewError(
		chain.ErrInvalidArgument,
		"invalid amount",
	)
)

// Asset is a fungible balance-bearing asset
type Asset interface {
	chain.Component
	BalanceOf(call *chain.Call, holder common.Address) (*uint256.Int, error)
	Transfer(call *chain.Call, to common.Address, amount *uint256.Int) error
}

type TransferEvent struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *uint256.Int   `json:"value"`
}

// Ledger is a persisted fungible asset with a fixed owner who may mint
type Ledger struct {
	addr common.Address
}

func init() {
	chain.RegisterKind(
		Kind,
		func(_ *chain.Chain, addr common.Address) chain.Component {
			return &Ledger{addr: addr}
		},
	)
}

func (l *Ledger) Address() common.Address {
	return l.addr
}

func (l *Ledger) Kind() chain.Kind {
	return Kind
}

func (l *Ledger) state(call *chain.Call) (models.AssetState, error) {
	state, err := call.DB().GetAssetState(l.addr, call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrStateNotFound) {
			return state, chain.ErrNotInitialized
		}
		return state, err
	}
	return state, nil
}

// Initialize sets the asset metadata and mints the initial supply to the caller
func (l *Ledger) Initialize(
	call *chain.Call,
	name string,
	symbol string,
	decimals uint8,
	initialSupply *uint256.Int,
) error {
	if _, err := l.state(call); err == nil {
		return chain.ErrAlreadyInitialized
	} else if !errors.Is(err, chain.ErrNotInitialized) {
		return err
	}
	if name == "" || symbol == "" {
		return ErrInvalidName
	}
	state := models.AssetState{
		Address:  l.addr.Bytes(),
		Owner:    call.Sender().Bytes(),
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}
	if err := call.DB().SetAssetState(&state, call.Txn()); err != nil {
		return err
	}
	if initialSupply != nil && !initialSupply.IsZero() {
		return l.mint(call, &state, call.Sender(), initialSupply)
	}
	return nil
}

// Mint creates new units for an account. Only the owner may mint
func (l *Ledger) Mint(
	call *chain.Call,
	to common.Address,
	amount *uint256.Int,
) error {
	state, err := l.state(call)
	if err != nil {
		return err
	}
	if common.BytesToAddress(state.Owner) != call.Sender() {
		return chain.ErrNotOwner
	}
	if to == (common.Address{}) {
		return ErrInvalidRecipient
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	return l.mint(call, &state, to, amount)
}

func (l *Ledger) mint(
	call *chain.Call,
	state *models.AssetState,
	to common.Address,
	amount *uint256.Int,
) error {
	supply, overflow := new(uint256.Int).AddOverflow(&state.TotalSupply.Int, amount)
	if overflow {
		return chain.NewError(chain.ErrCapacityExceeded, "supply overflow")
	}
	state.TotalSupply = types.NewAmount(supply)
	if err := call.DB().SetAssetState(state, call.Txn()); err != nil {
		return err
	}
	balance, err := call.DB().GetAssetBalance(l.addr, to, call.Txn())
	if err != nil {
		return err
	}
	balance.Add(balance, amount)
	if err := call.DB().SetAssetBalance(l.addr, to, balance, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		l.addr,
		TransferEventType,
		TransferEvent{To: to, Value: new(uint256.Int).Set(amount)},
	)
	return nil
}

func (l *Ledger) BalanceOf(
	call *chain.Call,
	holder common.Address,
) (*uint256.Int, error) {
	if _, err := l.state(call); err != nil {
		return nil, err
	}
	return call.DB().GetAssetBalance(l.addr, holder, call.Txn())
}

// Transfer moves units from the caller to another account
func (l *Ledger) Transfer(
	call *chain.Call,
	to common.Address,
	amount *uint256.Int,
) error {
	if _, err := l.state(call); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return ErrInvalidRecipient
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	from := call.Sender()
	fromBalance, err := call.DB().GetAssetBalance(l.addr, from, call.Txn())
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return fmt.Errorf(
			"%w: %s has %s, needs %s",
			ErrInsufficientBalance,
			from.Hex(),
			fromBalance.Dec(),
			amount.Dec(),
		)
	}
	fromBalance.Sub(fromBalance, amount)
	if err := call.DB().SetAssetBalance(l.addr, from, fromBalance, call.Txn()); err != nil {
		return err
	}
	toBalance, err := call.DB().GetAssetBalance(l.addr, to, call.Txn())
	if err != nil {
		return err
	}
	toBalance.Add(toBalance, amount)
	if err := call.DB().SetAssetBalance(l.addr, to, toBalance, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		l.addr,
		TransferEventType,
		TransferEvent{From: from, To: to, Value: new(uint256.Int).Set(amount)},
	)
	return nil
}

// State returns the asset metadata and total supply
func (l *Ledger) State(call *chain.Call) (models.AssetState, error) {
	return l.state(call)
}

func (l *Ledger) TotalSupply(call *chain.Call) (*uint256.Int, error) {
	state, err := l.state(call)
	if err != nil {
		return nil, err
	}
	return state.TotalSupply.Uint256(), nil
}
