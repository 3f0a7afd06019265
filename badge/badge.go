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

package badge

import (
	"errors"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database/models"
	dbtypes "github.com/blinklabs-io/resi/database/types"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const Kind chain.Kind = "badge"

// Badge is a non-transferable credential held for one role
type Badge struct {
	TokenURI string         `json:"tokenUri"`
	Balance  *uint256.Int   `json:"balance"`
	TokenID  uint64         `json:"tokenId"`
	SerieID  uint64         `json:"serieId"`
	Role     types.Role     `json:"role"`
	Owner    common.Address `json:"owner"`
}

func badgeFromModel(badge models.Badge) Badge {
	return Badge{
		TokenID:  badge.TokenID,
		Owner:    common.BytesToAddress(badge.Owner),
		Role:     types.RoleFromBytes(badge.Role),
		SerieID:  badge.SerieID,
		TokenURI: badge.TokenURI,
		Balance:  badge.Balance.Uint256(),
	}
}

// roleChecker is the token view used to validate badge receivers
type roleChecker interface {
	HasRole(call *chain.Call, role types.Role, account common.Address) (bool, error)
}

// SBT issues one soulbound badge per holder and role for a single serie and
// tracks the reputation accrued on each badge
type SBT struct {
	addr common.Address
}

func init() {
	chain.RegisterKind(
		Kind,
		func(_ *chain.Chain, addr common.Address) chain.Component {
			return &SBT{addr: addr}
		},
	)
}

func (s *SBT) Address() common.Address {
	return s.addr
}

func (s *SBT) Kind() chain.Kind {
	return Kind
}

func (s *SBT) state(call *chain.Call) (models.BadgeState, error) {
	state, err := call.DB().GetBadgeState(s.addr, call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrStateNotFound) {
			return state, chain.ErrNotInitialized
		}
		return state, err
	}
	return state, nil
}

func (s *SBT) ownerState(call *chain.Call) (models.BadgeState, error) {
	state, err := s.state(call)
	if err != nil {
		return state, err
	}
	if common.BytesToAddress(state.Owner) != call.Sender() {
		return state, chain.ErrNotOwner
	}
	return state, nil
}

// onlyResiToken fails unless the caller is the bound token. An unbound token
// rejects every caller
func (s *SBT) onlyResiToken(call *chain.Call) (models.BadgeState, error) {
	state, err := s.state(call)
	if err != nil {
		return state, err
	}
	token := common.BytesToAddress(state.Token)
	if token == (common.Address{}) || token != call.Sender() {
		return state, ErrInvalidResiToken
	}
	return state, nil
}

func (s *SBT) Initialize(
	call *chain.Call,
	name string,
	symbol string,
	contractURI string,
	serieID uint64,
	registry common.Address,
	token common.Address,
) error {
	if _, err := s.state(call); err == nil {
		return chain.ErrAlreadyInitialized
	} else if !errors.Is(err, chain.ErrNotInitialized) {
		return err
	}
	if serieID == 0 {
		return ErrInvalidSerie
	}
	if registry == (common.Address{}) || token == (common.Address{}) {
		return ErrInvalidAddress
	}
	state := models.BadgeState{
		Address:     s.addr.Bytes(),
		Owner:       call.Sender().Bytes(),
		Name:        name,
		Symbol:      symbol,
		ContractURI: contractURI,
		SerieID:     serieID,
		Registry:    registry.Bytes(),
		Token:       token.Bytes(),
	}
	return call.DB().SetBadgeState(&state, call.Txn())
}

// Mint issues a badge with a custom URI. Only the owner may mint
func (s *SBT) Mint(
	call *chain.Call,
	to common.Address,
	role types.Role,
	uri string,
) (uint64, error) {
	state, err := s.ownerState(call)
	if err != nil {
		return 0, err
	}
	return s.mint(call, &state, to, role, uri)
}

// MintBatchByRole mints the same role badge to every address. Either every
// badge is minted or none is
func (s *SBT) MintBatchByRole(
	call *chain.Call,
	addresses []common.Address,
	uri string,
	role types.Role,
) error {
	state, err := s.ownerState(call)
	if err != nil {
		return err
	}
	for _, addr := range addresses {
		if _, err := s.mint(call, &state, addr, role, uri); err != nil {
			return err
		}
	}
	return nil
}

// MintFromToken issues a badge on behalf of the bound token using the role
// default URI, or the contract URI when the role has none. An existing badge
// is returned unchanged
func (s *SBT) MintFromToken(
	call *chain.Call,
	to common.Address,
	role types.Role,
) (uint64, error) {
	state, err := s.onlyResiToken(call)
	if err != nil {
		return 0, err
	}
	existing, err := call.DB().GetBadge(s.addr, to, common.Hash(role), call.Txn())
	if err == nil {
		return existing.TokenID, nil
	}
	if !errors.Is(err, models.ErrBadgeNotFound) {
		return 0, err
	}
	uri, err := call.DB().GetBadgeRoleURI(s.addr, common.Hash(role), call.Txn())
	if err != nil {
		return 0, err
	}
	if uri == "" {
		uri = state.ContractURI
	}
	return s.mint(call, &state, to, role, uri)
}

func (s *SBT) mint(
	call *chain.Call,
	state *models.BadgeState,
	to common.Address,
	role types.Role,
	uri string,
) (uint64, error) {
	if to == (common.Address{}) {
		return 0, ErrInvalidToAddress
	}
	if uri == "" {
		return 0, ErrEmptyURI
	}
	ok, err := s.isSBTReceiver(call, state, to, role, state.SerieID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrInvalidReceiver
	}
	_, err = call.DB().GetBadge(s.addr, to, common.Hash(role), call.Txn())
	if err == nil {
		return 0, ErrAlreadyMinted
	}
	if !errors.Is(err, models.ErrBadgeNotFound) {
		return 0, err
	}
	tokenID := state.NextTokenID
	badge := models.Badge{
		Contract: s.addr.Bytes(),
		TokenID:  tokenID,
		Owner:    to.Bytes(),
		Role:     role.Bytes(),
		SerieID:  state.SerieID,
		TokenURI: uri,
	}
	if err := call.DB().SetBadge(&badge, call.Txn()); err != nil {
		return 0, err
	}
	state.NextTokenID++
	if err := call.DB().SetBadgeState(state, call.Txn()); err != nil {
		return 0, err
	}
	call.Emit(
		s.addr,
		MintSBTEventType,
		MintSBTEvent{To: to, Role: role, SerieID: state.SerieID, TokenID: tokenID},
	)
	return tokenID, nil
}

// IsSBTReceiver reports whether an account may receive a badge for a role in
// a serie. The serie must be the badge serie and the account must hold the
// role on the bound token
func (s *SBT) IsSBTReceiver(
	call *chain.Call,
	account common.Address,
	role types.Role,
	serieID uint64,
) (bool, error) {
	state, err := s.state(call)
	if err != nil {
		return false, err
	}
	return s.isSBTReceiver(call, &state, account, role, serieID)
}

func (s *SBT) isSBTReceiver(
	call *chain.Call,
	state *models.BadgeState,
	account common.Address,
	role types.Role,
	serieID uint64,
) (bool, error) {
	if serieID != state.SerieID {
		return false, nil
	}
	token := common.BytesToAddress(state.Token)
	if token == (common.Address{}) {
		return false, nil
	}
	checker, err := chain.Resolve[roleChecker](call, token)
	if err != nil {
		if errors.Is(err, chain.ErrNoComponent) {
			return false, nil
		}
		return false, err
	}
	return checker.HasRole(call.As(s.addr), role, account)
}

// IncreaseResiTokenBalance adds reputation to a holder badge. Only the bound
// token may call it
func (s *SBT) IncreaseResiTokenBalance(
	call *chain.Call,
	holder common.Address,
	role types.Role,
	amount *uint256.Int,
) error {
	return s.updateBalance(call, holder, role, amount, true)
}

// DecreaseResiTokenBalance removes reputation from a holder badge. Only the
// bound token may call it
func (s *SBT) DecreaseResiTokenBalance(
	call *chain.Call,
	holder common.Address,
	role types.Role,
	amount *uint256.Int,
) error {
	return s.updateBalance(call, holder, role, amount, false)
}

func (s *SBT) updateBalance(
	call *chain.Call,
	holder common.Address,
	role types.Role,
	amount *uint256.Int,
	increase bool,
) error {
	if _, err := s.onlyResiToken(call); err != nil {
		return err
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	badge, err := call.DB().GetBadge(s.addr, holder, common.Hash(role), call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrBadgeNotFound) {
			return ErrNoBadge
		}
		return err
	}
	var balance *uint256.Int
	if increase {
		var overflow bool
		balance, overflow = new(uint256.Int).AddOverflow(&badge.Balance.Int, amount)
		if overflow {
			return chain.NewError(chain.ErrCapacityExceeded, "badge balance overflow")
		}
	} else {
		var underflow bool
		balance, underflow = new(uint256.Int).SubOverflow(&badge.Balance.Int, amount)
		if underflow {
			return ErrInsufficientFunds
		}
	}
	badge.Balance = dbtypes.NewAmount(balance)
	if err := call.DB().SetBadge(&badge, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		s.addr,
		BalanceUpdatedEventType,
		BalanceUpdatedEvent{Holder: holder, Role: role, Balance: new(uint256.Int).Set(balance)},
	)
	return nil
}

// SetNickName sets the display name of a badge holder
func (s *SBT) SetNickName(call *chain.Call, nickname types.Name) error {
	if _, err := s.state(call); err != nil {
		return err
	}
	badges, err := call.DB().GetBadgesByOwner(s.addr, call.Sender(), call.Txn())
	if err != nil {
		return err
	}
	if len(badges) == 0 {
		return ErrNotSBTOwner
	}
	if nickname.IsZero() {
		return ErrInvalidNickname
	}
	if err := call.DB().SetNickname(s.addr, call.Sender(), nickname.Bytes(), call.Txn()); err != nil {
		return err
	}
	call.Emit(
		s.addr,
		NicknameUpdatedEventType,
		NicknameUpdatedEvent{Holder: call.Sender(), Nickname: nickname},
	)
	return nil
}

func (s *SBT) SetDefaultRoleURI(call *chain.Call, role types.Role, uri string) error {
	if _, err := s.ownerState(call); err != nil {
		return err
	}
	oldURI, err := call.DB().GetBadgeRoleURI(s.addr, common.Hash(role), call.Txn())
	if err != nil {
		return err
	}
	if err := call.DB().SetBadgeRoleURI(s.addr, common.Hash(role), uri, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		s.addr,
		DefaultRoleURIUpdatedEventType,
		DefaultRoleURIUpdatedEvent{Role: role, OldURI: oldURI, NewURI: uri},
	)
	return nil
}

func (s *SBT) SetContractURI(call *chain.Call, uri string) error {
	state, err := s.ownerState(call)
	if err != nil {
		return err
	}
	state.ContractURI = uri
	if err := call.DB().SetBadgeState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(s.addr, ContractURIUpdatedEventType, ContractURIUpdatedEvent{URI: uri})
	return nil
}

func (s *SBT) SetRegistry(call *chain.Call, registry common.Address) error {
	state, err := s.ownerState(call)
	if err != nil {
		return err
	}
	if registry == (common.Address{}) {
		return ErrInvalidAddress
	}
	state.Registry = registry.Bytes()
	if err := call.DB().SetBadgeState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(s.addr, RegistrySetEventType, AddressSetEvent{Address: registry})
	return nil
}

func (s *SBT) SetResiToken(call *chain.Call, token common.Address) error {
	state, err := s.ownerState(call)
	if err != nil {
		return err
	}
	if token == (common.Address{}) {
		return ErrInvalidAddress
	}
	state.Token = token.Bytes()
	if err := call.DB().SetBadgeState(&state, call.Txn()); err != nil {
		return err
	}
	call.Emit(s.addr, ResiTokenSetEventType, AddressSetEvent{Address: token})
	return nil
}

// Burn destroys a badge. Only the owner may burn
func (s *SBT) Burn(call *chain.Call, tokenID uint64) error {
	if _, err := s.ownerState(call); err != nil {
		return err
	}
	badge, err := s.badgeByTokenID(call, tokenID)
	if err != nil {
		return err
	}
	if err := call.DB().DeleteBadge(&badge, call.Txn()); err != nil {
		return err
	}
	call.Emit(
		s.addr,
		BurnEventType,
		BurnEvent{TokenID: tokenID, Owner: common.BytesToAddress(badge.Owner)},
	)
	return nil
}

func (s *SBT) badgeByTokenID(call *chain.Call, tokenID uint64) (models.Badge, error) {
	badge, err := call.DB().GetBadgeByTokenID(s.addr, tokenID, call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrBadgeNotFound) {
			return badge, ErrInvalidTokenID
		}
		return badge, err
	}
	return badge, nil
}

// Locked reports whether a badge exists. Every minted badge is locked
func (s *SBT) Locked(call *chain.Call, tokenID uint64) (bool, error) {
	_, err := s.badgeByTokenID(call, tokenID)
	if err != nil {
		if errors.Is(err, ErrInvalidTokenID) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *SBT) TransferFrom(*chain.Call, common.Address, common.Address, uint64) error {
	return ErrTransferForbidden
}

func (s *SBT) SafeTransferFrom(*chain.Call, common.Address, common.Address, uint64, []byte) error {
	return ErrTransferForbidden
}

func (s *SBT) Approve(*chain.Call, common.Address, uint64) error {
	return ErrTransferForbidden
}

func (s *SBT) SetApprovalForAll(*chain.Call, common.Address, bool) error {
	return ErrTransferForbidden
}

// BalanceOf returns the number of badges a holder owns
func (s *SBT) BalanceOf(call *chain.Call, holder common.Address) (uint64, error) {
	badges, err := call.DB().GetBadgesByOwner(s.addr, holder, call.Txn())
	if err != nil {
		return 0, err
	}
	return uint64(len(badges)), nil
}

func (s *SBT) OwnerOf(call *chain.Call, tokenID uint64) (common.Address, error) {
	badge, err := s.badgeByTokenID(call, tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(badge.Owner), nil
}

func (s *SBT) TokenURI(call *chain.Call, tokenID uint64) (string, error) {
	badge, err := s.badgeByTokenID(call, tokenID)
	if err != nil {
		return "", err
	}
	return badge.TokenURI, nil
}

// BadgeOf returns the badge a holder owns for a role
func (s *SBT) BadgeOf(call *chain.Call, holder common.Address, role types.Role) (Badge, error) {
	badge, err := call.DB().GetBadge(s.addr, holder, common.Hash(role), call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrBadgeNotFound) {
			return Badge{}, ErrNoBadge
		}
		return Badge{}, err
	}
	return badgeFromModel(badge), nil
}

// Badges returns every badge of a holder in mint order
func (s *SBT) Badges(call *chain.Call, holder common.Address) ([]Badge, error) {
	badges, err := call.DB().GetBadgesByOwner(s.addr, holder, call.Txn())
	if err != nil {
		return nil, err
	}
	ret := make([]Badge, 0, len(badges))
	for _, badge := range badges {
		ret = append(ret, badgeFromModel(badge))
	}
	return ret, nil
}

// ResiTokenBalance returns the reputation a holder has across all role badges
func (s *SBT) ResiTokenBalance(call *chain.Call, holder common.Address) (*uint256.Int, error) {
	badges, err := call.DB().GetBadgesByOwner(s.addr, holder, call.Txn())
	if err != nil {
		return nil, err
	}
	ret := new(uint256.Int)
	for _, badge := range badges {
		ret.Add(ret, &badge.Balance.Int)
	}
	return ret, nil
}

// ResiTokenRoleBalance returns the reputation on a holder badge for one role
func (s *SBT) ResiTokenRoleBalance(
	call *chain.Call,
	holder common.Address,
	role types.Role,
) (*uint256.Int, error) {
	badge, err := call.DB().GetBadge(s.addr, holder, common.Hash(role), call.Txn())
	if err != nil {
		if errors.Is(err, models.ErrBadgeNotFound) {
			return new(uint256.Int), nil
		}
		return nil, err
	}
	return badge.Balance.Uint256(), nil
}

// Nickname returns the holder display name, or the zero name
func (s *SBT) Nickname(call *chain.Call, holder common.Address) (types.Name, error) {
	nickname, err := call.DB().GetNickname(s.addr, holder, call.Txn())
	if err != nil {
		return types.Name{}, err
	}
	return types.NameFromBytes(nickname), nil
}

func (s *SBT) DefaultRoleURI(call *chain.Call, role types.Role) (string, error) {
	return call.DB().GetBadgeRoleURI(s.addr, common.Hash(role), call.Txn())
}

// Info is the badge contract configuration
type Info struct {
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	ContractURI string         `json:"contractUri"`
	SerieID     uint64         `json:"serieId"`
	Owner       common.Address `json:"owner"`
	Registry    common.Address `json:"registry"`
	Token       common.Address `json:"token"`
}

func (s *SBT) Info(call *chain.Call) (Info, error) {
	state, err := s.state(call)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:        state.Name,
		Symbol:      state.Symbol,
		ContractURI: state.ContractURI,
		SerieID:     state.SerieID,
		Owner:       common.BytesToAddress(state.Owner),
		Registry:    common.BytesToAddress(state.Registry),
		Token:       common.BytesToAddress(state.Token),
	}, nil
}
