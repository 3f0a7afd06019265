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
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
)

// RoleMember is one member of a role set
type RoleMember struct {
	Project types.Name     `json:"project"`
	SerieID uint64         `json:"serieId"`
	Index   uint64         `json:"index"`
	Account common.Address `json:"account"`
}

func (t *Token) hasRole(call *chain.Call, role types.Role, account common.Address) (bool, error) {
	return call.DB().HasRole(t.addr, common.Hash(role), account, call.Txn())
}

func (t *Token) checkRole(call *chain.Call, role types.Role) error {
	ok, err := t.hasRole(call, role, call.Sender())
	if err != nil {
		return err
	}
	if !ok {
		return chain.MissingRoleError{Account: call.Sender(), Role: common.Hash(role)}
	}
	return nil
}

// onlyAdmin fails unless the token is initialized and the caller is an admin
func (t *Token) onlyAdmin(call *chain.Call) (models.TokenState, error) {
	state, err := t.state(call)
	if err != nil {
		return state, err
	}
	return state, t.checkRole(call, types.RoleAdmin)
}

// grant adds an account to a role set. Existing members are left unchanged
func (t *Token) grant(
	call *chain.Call,
	role types.Role,
	account common.Address,
	serieID uint64,
	project types.Name,
) error {
	_, err := t.grantOnce(call, role, account, serieID, project)
	return err
}

func (t *Token) grantOnce(
	call *chain.Call,
	role types.Role,
	account common.Address,
	serieID uint64,
	project types.Name,
) (bool, error) {
	member := &models.RoleMember{
		Token:   t.addr.Bytes(),
		Role:    role.Bytes(),
		Member:  account.Bytes(),
		SerieID: serieID,
	}
	if !project.IsZero() {
		member.Project = project.Bytes()
	}
	added, err := call.DB().AddRoleMember(member, call.Txn())
	if err != nil || !added {
		return false, err
	}
	call.Emit(
		t.addr,
		RoleGrantedEventType,
		RoleEvent{Role: role, Account: account, Sender: call.Sender()},
	)
	return true, nil
}

func (t *Token) revoke(call *chain.Call, role types.Role, account common.Address) error {
	removed, err := call.DB().RemoveRoleMember(t.addr, common.Hash(role), account, call.Txn())
	if err != nil || !removed {
		return err
	}
	call.Emit(
		t.addr,
		RoleRevokedEventType,
		RoleEvent{Role: role, Account: account, Sender: call.Sender()},
	)
	return nil
}

// addProjectRole grants a project-scoped role. The serie must be the active
// serie of the registry and the project must be valid in it
func (t *Token) addProjectRole(
	call *chain.Call,
	role types.Role,
	account common.Address,
	serieID uint64,
	project types.Name,
) (bool, error) {
	state, err := t.onlyAdmin(call)
	if err != nil {
		return false, err
	}
	if account == (common.Address{}) {
		return false, ErrInvalidAddress
	}
	registry, err := t.registry(call, state)
	if err != nil {
		return false, err
	}
	regCall := call.As(t.addr)
	activeSerie, err := registry.ActiveSerie(regCall)
	if err != nil {
		return false, err
	}
	if serieID == 0 || serieID != activeSerie {
		return false, ErrInvalidSerieOrProject
	}
	active, _, err := registry.GetSerieState(regCall, serieID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, ErrInvalidSerieOrProject
	}
	valid, err := registry.IsValidProjectInSerie(regCall, serieID, project)
	if err != nil {
		return false, err
	}
	if !valid {
		return false, ErrInvalidSerieOrProject
	}
	return t.grantOnce(call, role, account, serieID, project)
}

// AddMentor grants the mentor role for a project of the active serie
func (t *Token) AddMentor(
	call *chain.Call,
	account common.Address,
	serieID uint64,
	project types.Name,
) error {
	added, err := t.addProjectRole(call, types.RoleMentor, account, serieID, project)
	if err != nil || !added {
		return err
	}
	call.Emit(
		t.addr,
		MentorAddedEventType,
		ProjectRoleEvent{Account: account, SerieID: serieID, Project: project},
	)
	return nil
}

// AddProjectBuilder grants the project builder role for a project of the
// active serie
func (t *Token) AddProjectBuilder(
	call *chain.Call,
	account common.Address,
	serieID uint64,
	project types.Name,
) error {
	added, err := t.addProjectRole(call, types.RoleProjectBuilder, account, serieID, project)
	if err != nil || !added {
		return err
	}
	call.Emit(
		t.addr,
		ProjectBuilderAddedEventType,
		ProjectRoleEvent{Account: account, SerieID: serieID, Project: project},
	)
	return nil
}

func (t *Token) AddResiBuilder(call *chain.Call, account common.Address) error {
	if _, err := t.onlyAdmin(call); err != nil {
		return err
	}
	if account == (common.Address{}) {
		return ErrInvalidAddress
	}
	added, err := t.grantOnce(call, types.RoleResiBuilder, account, 0, types.Name{})
	if err != nil || !added {
		return err
	}
	call.Emit(t.addr, ResiBuilderAddedEventType, ResiBuilderAddedEvent{Account: account})
	return nil
}

// AddRolesBatch grants a role to every account. A zero address anywhere in
// the batch fails the whole batch
func (t *Token) AddRolesBatch(
	call *chain.Call,
	role types.Role,
	accounts []common.Address,
) error {
	if _, err := t.onlyAdmin(call); err != nil {
		return err
	}
	if !role.IsKnown() {
		return ErrInvalidRole
	}
	for _, account := range accounts {
		if account == (common.Address{}) {
			return ErrInvalidAddress
		}
	}
	for _, account := range accounts {
		if err := t.grant(call, role, account, 0, types.Name{}); err != nil {
			return err
		}
	}
	return nil
}

func (t *Token) GrantRole(call *chain.Call, role types.Role, account common.Address) error {
	if _, err := t.onlyAdmin(call); err != nil {
		return err
	}
	if !role.IsKnown() {
		return ErrInvalidRole
	}
	if account == (common.Address{}) {
		return ErrInvalidAddress
	}
	return t.grant(call, role, account, 0, types.Name{})
}

// RevokeRole removes an account from a role set. Revoking a missing member
// is a no-op
func (t *Token) RevokeRole(call *chain.Call, role types.Role, account common.Address) error {
	if _, err := t.onlyAdmin(call); err != nil {
		return err
	}
	return t.revoke(call, role, account)
}

// RenounceRole lets an account drop one of its own roles
func (t *Token) RenounceRole(call *chain.Call, role types.Role, account common.Address) error {
	if _, err := t.state(call); err != nil {
		return err
	}
	if account != call.Sender() {
		return ErrRenounceForSelf
	}
	return t.revoke(call, role, account)
}

func (t *Token) HasRole(call *chain.Call, role types.Role, account common.Address) (bool, error) {
	return t.hasRole(call, role, account)
}

// RoleCount returns the number of roles ever granted
func (t *Token) RoleCount(call *chain.Call) (uint64, error) {
	return call.DB().RoleCount(t.addr, call.Txn())
}

// RoleAt returns a role by its zero-based position in grant order
func (t *Token) RoleAt(call *chain.Call, index uint64) (types.Role, error) {
	entry, err := call.DB().GetRoleAt(t.addr, index, call.Txn())
	if err != nil {
		if isMissing(err) {
			return types.Role{}, ErrIndexOutOfBounds
		}
		return types.Role{}, err
	}
	return types.RoleFromBytes(entry.Role), nil
}

func (t *Token) RoleMemberCount(call *chain.Call, role types.Role) (uint64, error) {
	return call.DB().RoleMemberCount(t.addr, common.Hash(role), call.Txn())
}

// RoleMember returns the member at a zero-based position of a role set
func (t *Token) RoleMember(call *chain.Call, role types.Role, index uint64) (common.Address, error) {
	member, err := call.DB().GetRoleMemberAt(t.addr, common.Hash(role), index, call.Txn())
	if err != nil {
		if isMissing(err) {
			return common.Address{}, ErrIndexOutOfBounds
		}
		return common.Address{}, err
	}
	return common.BytesToAddress(member.Member), nil
}

// RoleMembers returns a role set in index order
func (t *Token) RoleMembers(call *chain.Call, role types.Role) ([]RoleMember, error) {
	members, err := call.DB().GetRoleMembers(t.addr, common.Hash(role), call.Txn())
	if err != nil {
		return nil, err
	}
	ret := make([]RoleMember, 0, len(members))
	for _, member := range members {
		ret = append(
			ret,
			RoleMember{
				Account: common.BytesToAddress(member.Member),
				Index:   member.Idx - 1,
				SerieID: member.SerieID,
				Project: types.NameFromBytes(member.Project),
			},
		)
	}
	return ret, nil
}

// isMissing reports whether err is a lookup miss from the role index
func isMissing(err error) bool {
	return errors.Is(err, models.ErrMemberNotFound) || errors.Is(err, models.ErrRoleNotFound)
}
