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
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Award mints reputation to a role holder in the active serie. The ledger is
// credited first, then the registry supply, then the holder badge for the
// role, which is minted on the first award
func (t *Token) Award(
	call *chain.Call,
	user common.Address,
	role types.Role,
	amount *uint256.Int,
) error {
	state, err := t.onlyAdmin(call)
	if err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	if user == (common.Address{}) {
		return ErrInvalidAddress
	}
	if !role.IsBusiness() {
		return ErrInvalidRole
	}
	ok, err := t.hasRole(call, role, user)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountHasNoValidRole
	}
	registry, err := t.registry(call, state)
	if err != nil {
		return err
	}
	tokenCall := call.As(t.addr)
	serieID, err := registry.ActiveSerie(tokenCall)
	if err != nil {
		return err
	}
	if err := t.credit(call, &state, user, serieID, amount, true); err != nil {
		return err
	}
	if err := registry.IncreaseSerieSupply(tokenCall, serieID, amount); err != nil {
		return err
	}
	badge, err := t.serieBadge(tokenCall, registry, serieID)
	if err != nil {
		return err
	}
	if _, err := badge.MintFromToken(tokenCall, user, role); err != nil {
		return err
	}
	if err := badge.IncreaseResiTokenBalance(tokenCall, user, role, amount); err != nil {
		return err
	}
	call.Emit(
		t.addr,
		ResiMintedEventType,
		ResiMintedEvent{To: user, Role: role, Amount: new(uint256.Int).Set(amount)},
	)
	return nil
}

func (t *Token) serieBadge(
	call *chain.Call,
	registry serieRegistry,
	serieID uint64,
) (badgeLedger, error) {
	addr, err := registry.SerieBadge(call, serieID)
	if err != nil {
		return nil, err
	}
	if addr == (common.Address{}) {
		return nil, ErrBadgeNotRegistered
	}
	return chain.Resolve[badgeLedger](call, addr)
}

// Exit settles the caller reputation in a closed serie. The vault pays out
// its quote for the whole serie balance, after which the ledger, the badge
// balances and the registry supply are reduced by that balance. Any failure
// unwinds the whole exit
func (t *Token) Exit(call *chain.Call, serieID uint64, role types.Role) error {
	state, err := t.state(call)
	if err != nil {
		return err
	}
	user := call.Sender()
	ok, err := t.hasRole(call, role, user)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountHasNoValidRole
	}
	registry, err := t.registry(call, state)
	if err != nil {
		return err
	}
	tokenCall := call.As(t.addr)
	vaultAddr, err := registry.SerieVault(tokenCall, serieID)
	if err != nil {
		return err
	}
	active, _, err := registry.GetSerieState(tokenCall, serieID)
	if err != nil {
		return err
	}
	if active {
		return ErrSerieStillActive
	}
	balance, err := call.DB().GetLedgerBalance(t.addr, user, serieID, call.Txn())
	if err != nil {
		return err
	}
	if balance.IsZero() {
		return ErrNoFundsToExit
	}
	vault, err := chain.Resolve[exitVault](tokenCall, vaultAddr)
	if err != nil {
		return err
	}
	vaultSerie, err := vault.SerieID(tokenCall)
	if err != nil {
		return err
	}
	if vaultSerie != serieID {
		return ErrInvalidVault
	}
	quote, err := vault.GetCurrentExitQuote(tokenCall, balance)
	if err != nil {
		return err
	}
	if err := vault.Payout(tokenCall, user, quote); err != nil {
		return err
	}
	if err := t.credit(call, &state, user, serieID, balance, false); err != nil {
		return err
	}
	if err := t.clearBadge(tokenCall, registry, user, serieID); err != nil {
		return err
	}
	if err := registry.DecreaseSerieSupply(tokenCall, serieID, balance); err != nil {
		return err
	}
	call.Emit(
		t.addr,
		ExitEventType,
		ExitEvent{User: user, Amount: balance, SerieID: serieID, Payout: quote},
	)
	return nil
}

// clearBadge zeroes every role balance of the holder badge in a serie
func (t *Token) clearBadge(
	call *chain.Call,
	registry serieRegistry,
	holder common.Address,
	serieID uint64,
) error {
	badge, err := t.serieBadge(call, registry, serieID)
	if err != nil {
		if errors.Is(err, ErrBadgeNotRegistered) {
			return nil
		}
		return err
	}
	for _, role := range types.BusinessRoles() {
		balance, err := badge.ResiTokenRoleBalance(call, holder, role)
		if err != nil {
			return err
		}
		if balance.IsZero() {
			continue
		}
		if err := badge.DecreaseResiTokenBalance(call, holder, role, balance); err != nil {
			return err
		}
	}
	return nil
}

// Burn removes reputation held by a treasury or admin account from a serie
// without a payout
func (t *Token) Burn(call *chain.Call, amount *uint256.Int, serieID uint64) error {
	state, err := t.state(call)
	if err != nil {
		return err
	}
	sender := call.Sender()
	isTreasury, err := t.hasRole(call, types.RoleTreasury, sender)
	if err != nil {
		return err
	}
	isAdmin, err := t.hasRole(call, types.RoleAdmin, sender)
	if err != nil {
		return err
	}
	if !isTreasury && !isAdmin {
		return chain.MissingRoleError{Account: sender, Role: common.Hash(types.RoleTreasury)}
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	if err := t.credit(call, &state, sender, serieID, amount, false); err != nil {
		return err
	}
	registry, err := t.registry(call, state)
	if err != nil {
		return err
	}
	if err := registry.DecreaseSerieSupply(call.As(t.addr), serieID, amount); err != nil {
		return err
	}
	call.Emit(
		t.addr,
		BurnEventType,
		BurnEvent{From: sender, Amount: new(uint256.Int).Set(amount), SerieID: serieID},
	)
	return nil
}
