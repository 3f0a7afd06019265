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

package token

import (
	"errors"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database/models"
	dbtypes "github.com/blinklabs-io/resi/database/types"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const Kind chain.Kind = "token"

const (
	Name     = "ResiToken"
	Symbol   = "RESI"
	Decimals = 18
)

// serieRegistry is the registry view used for role grants, awards and exits
type serieRegistry interface {
	ActiveSerie(call *chain.Call) (uint64, error)
	GetSerieState(call *chain.Call, serieID uint64) (bool, *uint256.Int, error)
	IsValidProjectInSerie(call *chain.Call, serieID uint64, name types.Name) (bool, error)
	IncreaseSerieSupply(call *chain.Call, serieID uint64, amount *uint256.Int) error
	DecreaseSerieSupply(call *chain.Call, serieID uint64, amount *uint256.Int) error
	SerieBadge(call *chain.Call, serieID uint64) (common.Address, error)
	SerieVault(call *chain.Call, serieID uint64) (common.Address, error)
}

// badgeLedger is the badge view used to track reputation per role
type badgeLedger interface {
	MintFromToken(call *chain.Call, to common.Address, role types.Role) (uint64, error)
	IncreaseResiTokenBalance(call *chain.Call, holder common.Address, role types.Role, amount *uint256.Int) error
	DecreaseResiTokenBalance(call *chain.Call, holder common.Address, role types.Role, amount *uint256.Int) error
	ResiTokenRoleBalance(call *chain.Call, holder common.Address, role types.Role) (*uint256.Int, error)
}

// exitVault is the vault view used to settle exits
type exitVault interface {
	SerieID(call *chain.Call) (uint64, error)
	GetCurrentExitQuote(call *chain.Call, amount *uint256.Int) (*uint256.Int, error)
	Payout(call *chain.Call, to common.Address, amount *uint256.Int) error
}

// Token is the non-transferable reputation token. It administers roles,
// awards reputation within the active serie and settles exits
type Token struct {
	addr common.Address
}

func init() {
	chain.RegisterKind(
		Kind,
		func(_ *chain.Chain, addr common.Address) chain.Component {
			return &Token{addr: addr}
		},
	)
}

func (t *Token) Address() common.Address {
	return t.addr
}

func (t *Token) Kind() chain.Kind {
	return Kind
}

func (t *Token) state(call *chain.Call) (models.TokenState, error) {
	state, err := call.DB().GetTokenState(t.addr, call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrStateNotFound) {
			return state, chain.ErrNotInitialized
		}
		return state, err
	}
	return state, nil
}

func (t *Token) registry(call *chain.Call, state models.TokenState) (serieRegistry, error) {
	return chain.Resolve[serieRegistry](call, common.BytesToAddress(state.Registry))
}

// Initialize grants the admin role to the caller and the treasury role to
// the treasury account
func (t *Token) Initialize(
	call *chain.Call,
	treasury common.Address,
	registry common.Address,
) error {
	if _, err := t.state(call); err == nil {
		return chain.ErrAlreadyInitialized
	} else if !errors.Is(err, chain.ErrNotInitialized) {
		return err
	}
	if treasury == (common.Address{}) || registry == (common.Address{}) {
		return ErrInvalidAddress
	}
	state := models.TokenState{
		Address:  t.addr.Bytes(),
		Registry: registry.Bytes(),
		Treasury: treasury.Bytes(),
		Name:     Name,
		Symbol:   Symbol,
		Decimals: Decimals,
	}
	if err := call.DB().SetTokenState(&state, call.Txn()); err != nil {
		return err
	}
	if err := t.grant(call, types.RoleAdmin, call.Sender(), 0, types.Name{}); err != nil {
		return err
	}
	return t.grant(call, types.RoleTreasury, treasury, 0, types.Name{})
}

// Info is the token configuration
type Info struct {
	TotalSupply *uint256.Int   `json:"totalSupply"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Registry    common.Address `json:"registry"`
	Treasury    common.Address `json:"treasury"`
	Decimals    uint8          `json:"decimals"`
}

func (t *Token) Info(call *chain.Call) (Info, error) {
	state, err := t.state(call)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:        state.Name,
		Symbol:      state.Symbol,
		Decimals:    state.Decimals,
		Registry:    common.BytesToAddress(state.Registry),
		Treasury:    common.BytesToAddress(state.Treasury),
		TotalSupply: state.TotalSupply.Uint256(),
	}, nil
}

func (t *Token) TotalSupply(call *chain.Call) (*uint256.Int, error) {
	state, err := t.state(call)
	if err != nil {
		return nil, err
	}
	return state.TotalSupply.Uint256(), nil
}

// BalanceOf returns the reputation a holder has across every serie
func (t *Token) BalanceOf(call *chain.Call, holder common.Address) (*uint256.Int, error) {
	balances, err := call.DB().GetLedgerBalances(t.addr, holder, call.Txn())
	if err != nil {
		return nil, err
	}
	ret := new(uint256.Int)
	for _, balance := range balances {
		ret.Add(ret, &balance.Balance.Int)
	}
	return ret, nil
}

// SerieBalanceOf returns the reputation a holder has in one serie
func (t *Token) SerieBalanceOf(
	call *chain.Call,
	holder common.Address,
	serieID uint64,
) (*uint256.Int, error) {
	return call.DB().GetLedgerBalance(t.addr, holder, serieID, call.Txn())
}

// SerieBalance is the reputation held in one serie
type SerieBalance struct {
	Balance *uint256.Int `json:"balance"`
	SerieID uint64       `json:"serieId"`
}

// SerieBalances returns the non-zero per-serie balances of a holder
func (t *Token) SerieBalances(call *chain.Call, holder common.Address) ([]SerieBalance, error) {
	balances, err := call.DB().GetLedgerBalances(t.addr, holder, call.Txn())
	if err != nil {
		return nil, err
	}
	ret := make([]SerieBalance, 0, len(balances))
	for _, balance := range balances {
		if balance.Balance.IsZero() {
			continue
		}
		ret = append(
			ret,
			SerieBalance{SerieID: balance.SerieID, Balance: balance.Balance.Uint256()},
		)
	}
	return ret, nil
}

// SerieSupply sums every holder balance of a serie. It always equals the
// registry supply of the serie
func (t *Token) SerieSupply(call *chain.Call, serieID uint64) (*uint256.Int, error) {
	return call.DB().GetSerieLedgerSupply(t.addr, serieID, call.Txn())
}

// credit adds to or removes from a holder serie balance and the total supply
func (t *Token) credit(
	call *chain.Call,
	state *models.TokenState,
	holder common.Address,
	serieID uint64,
	amount *uint256.Int,
	increase bool,
) error {
	balance, err := call.DB().GetLedgerBalance(t.addr, holder, serieID, call.Txn())
	if err != nil {
		return err
	}
	supply := state.TotalSupply.Uint256()
	if increase {
		var overflow bool
		if _, overflow = balance.AddOverflow(balance, amount); overflow {
			return chain.NewError(chain.ErrCapacityExceeded, "balance overflow")
		}
		if _, overflow = supply.AddOverflow(supply, amount); overflow {
			return chain.NewError(chain.ErrCapacityExceeded, "total supply overflow")
		}
	} else {
		if balance.Lt(amount) || supply.Lt(amount) {
			return ErrBurnExceedsBalance
		}
		balance.Sub(balance, amount)
		supply.Sub(supply, amount)
	}
	if err := call.DB().SetLedgerBalance(t.addr, holder, serieID, balance, call.Txn()); err != nil {
		return err
	}
	state.TotalSupply = dbtypes.NewAmount(supply)
	return call.DB().SetTokenState(state, call.Txn())
}

func (t *Token) Transfer(*chain.Call, common.Address, *uint256.Int) error {
	return ErrTransferForbidden
}

func (t *Token) TransferFrom(*chain.Call, common.Address, common.Address, *uint256.Int) error {
	return ErrTransferFromForbidden
}

func (t *Token) Approve(*chain.Call, common.Address, *uint256.Int) error {
	return ErrTransferForbidden
}
