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

package vault

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/resi/asset"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database/models"
	"github.com/blinklabs-io/resi/event"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const Kind chain.Kind = "vault"

const (
	MainTokenSetEventType event.EventType = "vault.main-token-set"
	TokenAddedEventType   event.EventType = "vault.token-added"
	TokenRemovedEventType event.EventType = "vault.token-removed"
	PayoutEventType       event.EventType = "vault.payout"
)

var (
	ErrInvalidSerie        = chain.NewError(chain.ErrInvalidArgument, "invalid serie")
	ErrInvalidAddress      = chain.NewError(chain.ErrInvalidArgument, "invalid address")
	ErrInvalidTokenAddress = chain.NewError(chain.ErrInvalidArgument, "invalid token address")
	ErrInvalidTokenName    = chain.NewError(chain.ErrInvalidArgument, "invalid token name")
	ErrAmountExceedsSupply = chain.NewError(chain.ErrInvalidArgument, "amount exceeds supply")
	ErrInvalidAmount       = chain.NewError(chain.ErrInvalidArgument, "invalid amount")
	ErrTokenAlreadySet     = chain.NewError(chain.ErrInvalidState, "token already set")
	ErrZeroSupply          = chain.NewError(chain.ErrInvalidState, "zero supply")
	ErrOnlyResiToken       = chain.NewError(chain.ErrUpstreamInconsistency, "only resi token")
	ErrAssetUnavailable    = chain.NewError(chain.ErrExternalDependency, "asset unavailable")
	ErrPayoutFailed        = chain.NewError(chain.ErrExternalDependency, "payout failed")
)

type TokenEvent struct {
	Name  types.Name     `json:"name"`
	Asset common.Address `json:"asset"`
}

type PayoutEvent struct {
	Amount *uint256.Int   `json:"amount"`
	To     common.Address `json:"to"`
	Asset  common.Address `json:"asset"`
}

// serieSupply is the registry view the vault needs for exit quotes
type serieSupply interface {
	GetSerieSupply(call *chain.Call, serieID uint64) (*uint256.Int, error)
}

// Vault custodies the settlement asset of one serie and pays out exits
type Vault struct {
	addr common.Address
}

func init() {
	chain.RegisterKind(
		Kind,
		func(_ *chain.Chain, addr common.Address) chain.Component {
			return &Vault{addr: addr}
		},
	)
}

func (v *Vault) Address() common.Address {
	return v.addr
}

func (v *Vault) Kind() chain.Kind {
	return Kind
}

func (v *Vault) state(call *chain.Call) (models.VaultState, error) {
	state, err := call.DB().GetVaultState(v.addr, call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrStateNotFound) {
			return state, chain.ErrNotInitialized
		}
		return state, err
	}
	return state, nil
}

func (v *Vault) ownerState(call *chain.Call) (models.VaultState, error) {
	state, err := v.state(call)
	if err != nil {
		return state, err
	}
	if common.BytesToAddress(state.Owner) != call.Sender() {
		return state, chain.ErrNotOwner
	}
	return state, nil
}

// Initialize binds the vault to a serie, the reputation token, the primary
// asset and the registry. The caller becomes the owner
func (v *Vault) Initialize(
	call *chain.Call,
	serieID uint64,
	resiToken common.Address,
	primaryAsset common.Address,
	registry common.Address,
) error {
	if _, err := v.state(call); err == nil {
		return chain.ErrAlreadyInitialized
	} else if !errors.Is(err, chain.ErrNotInitialized) {
		return err
	}
	if serieID == 0 {
		return ErrInvalidSerie
	}
	if resiToken == (common.Address{}) || registry == (common.Address{}) {
		return ErrInvalidAddress
	}
	if primaryAsset == (common.Address{}) {
		return ErrInvalidTokenAddress
	}
	state := models.VaultState{
		Address:   v.addr.Bytes(),
		Owner:     call.Sender().Bytes(),
		SerieID:   serieID,
		ResiToken: resiToken.Bytes(),
		MainToken: primaryAsset.Bytes(),
		Registry:  registry.Bytes(),
	}
	return call.DB().SetVaultState(&state, call.Txn())
}

func (v *Vault) SerieID(call *chain.Call) (uint64, error) {
	state, err := v.state(call)
	if err != nil {
		return 0, err
	}
	return state.SerieID, nil
}

func (v *Vault) Owner(call *chain.Call) (common.Address, error) {
	state, err := v.state(call)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(state.Owner), nil
}

func (v *Vault) ResiToken(call *chain.Call) (common.Address, error) {
	state, err := v.state(call)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(state.ResiToken), nil
}

func (v *Vault) Registry(call *chain.Call) (common.Address, error) {
	state, err := v.state(call)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(state.Registry), nil
}

func (v *Vault) MainToken(call *chain.Call) (common.Address, error) {
	state, err := v.state(call)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(state.MainToken), nil
}

func (v *Vault) SetMainToken(call *chain.Call, primaryAsset common.Address) error {
	state, err := v.ownerState(call)
	if err != nil {
		return err
	}
	if primaryAsset == (common.Address{}) {
		return ErrInvalidTokenAddress
	}
	state.MainToken = primaryAsset.Bytes()
	if err := call.DB().SetVaultState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(v.addr, MainTokenSetEventType, TokenEvent{Asset: primaryAsset})
	return nil
}

// AddToken tracks an additional named asset
func (v *Vault) AddToken(call *chain.Call, tokenAsset common.Address, name types.Name) error {
	if _, err := v.ownerState(call); err != nil {
		return err
	}
	if tokenAsset == (common.Address{}) {
		return ErrInvalidTokenAddress
	}
	if name.IsZero() {
		return ErrInvalidTokenName
	}
	_, err := call.DB().GetVaultToken(v.addr, common.Hash(name), call.Txn())
	if err == nil {
		return ErrTokenAlreadySet
	}
	if !errors.Is(err, models.ErrTokenNotFound) {
		return err
	}
	token := models.VaultToken{
		Vault: v.addr.Bytes(),
		Name:  name.Bytes(),
		Asset: tokenAsset.Bytes(),
	}
	if err := call.DB().AddVaultToken(&token, call.Txn()); err != nil {
		return err
	}
	call.Emit(v.addr, TokenAddedEventType, TokenEvent{Name: name, Asset: tokenAsset})
	return nil
}

func (v *Vault) RemoveToken(call *chain.Call, name types.Name) error {
	if _, err := v.ownerState(call); err != nil {
		return err
	}
	token, err := v.namedToken(call, name)
	if err != nil {
		return err
	}
	if err := call.DB().DeleteVaultToken(&token, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		v.addr,
		TokenRemovedEventType,
		TokenEvent{Name: name, Asset: common.BytesToAddress(token.Asset)},
	)
	return nil
}

func (v *Vault) namedToken(call *chain.Call, name types.Name) (models.VaultToken, error) {
	token, err := call.DB().GetVaultToken(v.addr, common.Hash(name), call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			return token, ErrInvalidTokenName
		}
		return token, err
	}
	return token, nil
}

// Tokens returns the asset registered under a name, or the zero address
func (v *Vault) Tokens(call *chain.Call, name types.Name) (common.Address, error) {
	token, err := v.namedToken(call, name)
	if err != nil {
		if errors.Is(err, ErrInvalidTokenName) {
			return common.Address{}, nil
		}
		return common.Address{}, err
	}
	return common.BytesToAddress(token.Asset), nil
}

// NamedTokens returns every named asset of the vault
func (v *Vault) NamedTokens(call *chain.Call) (map[types.Name]common.Address, error) {
	tokens, err := call.DB().GetVaultTokens(v.addr, call.Txn())
	if err != nil {
		return nil, err
	}
	ret := make(map[types.Name]common.Address, len(tokens))
	for _, token := range tokens {
		ret[types.NameFromBytes(token.Name)] = common.BytesToAddress(token.Asset)
	}
	return ret, nil
}

// TokenBalance returns the vault balance of a named asset
func (v *Vault) TokenBalance(call *chain.Call, name types.Name) (*uint256.Int, error) {
	token, err := v.namedToken(call, name)
	if err != nil {
		return nil, err
	}
	return v.assetBalance(call, common.BytesToAddress(token.Asset))
}

// Balance returns the native balance of the vault
func (v *Vault) Balance(call *chain.Call) (*uint256.Int, error) {
	return asset.NativeBalance(call, v.addr)
}

// MainTokenBalance returns the vault balance of the primary asset
func (v *Vault) MainTokenBalance(call *chain.Call) (*uint256.Int, error) {
	state, err := v.state(call)
	if err != nil {
		return nil, err
	}
	return v.assetBalance(call, common.BytesToAddress(state.MainToken))
}

func (v *Vault) resolveAsset(call *chain.Call, addr common.Address) (asset.Asset, error) {
	tmpAsset, err := chain.Resolve[asset.Asset](call, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetUnavailable, addr.Hex(), err)
	}
	return tmpAsset, nil
}

func (v *Vault) assetBalance(call *chain.Call, addr common.Address) (*uint256.Int, error) {
	tmpAsset, err := v.resolveAsset(call, addr)
	if err != nil {
		return nil, err
	}
	balance, err := tmpAsset.BalanceOf(call.As(v.addr), v.addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetUnavailable, addr.Hex(), err)
	}
	return balance, nil
}

// GetCurrentExitQuote returns floor(vaultBalance * amount / serieSupply) in
// primary asset units. The product is computed at 512 bits so it never
// overflows
func (v *Vault) GetCurrentExitQuote(call *chain.Call, amount *uint256.Int) (*uint256.Int, error) {
	if amount == nil {
		return nil, ErrInvalidAmount
	}
	state, err := v.state(call)
	if err != nil {
		return nil, err
	}
	registry, err := chain.Resolve[serieSupply](call, common.BytesToAddress(state.Registry))
	if err != nil {
		return nil, err
	}
	supply, err := registry.GetSerieSupply(call.As(v.addr), state.SerieID)
	if err != nil {
		return nil, err
	}
	if supply.IsZero() {
		return nil, ErrZeroSupply
	}
	if amount.Gt(supply) {
		return nil, ErrAmountExceedsSupply
	}
	balance, err := v.assetBalance(call, common.BytesToAddress(state.MainToken))
	if err != nil {
		return nil, err
	}
	// Cannot overflow since amount <= supply
	quote, _ := new(uint256.Int).MulDivOverflow(balance, amount, supply)
	return quote, nil
}

// Payout transfers primary asset units from the vault. Only the bound
// reputation token may call it
func (v *Vault) Payout(call *chain.Call, to common.Address, amount *uint256.Int) error {
	state, err := v.state(call)
	if err != nil {
		return err
	}
	resiToken := common.BytesToAddress(state.ResiToken)
	if resiToken == (common.Address{}) || resiToken != call.Sender() {
		return ErrOnlyResiToken
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	mainToken := common.BytesToAddress(state.MainToken)
	tmpAsset, err := v.resolveAsset(call, mainToken)
	if err != nil {
		return err
	}
	if err := tmpAsset.Transfer(call.As(v.addr), to, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}
	call.Emit(
		v.addr,
		PayoutEventType,
		PayoutEvent{To: to, Asset: mainToken, Amount: new(uint256.Int).Set(amount)},
	)
	return nil
}
