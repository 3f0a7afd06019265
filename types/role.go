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

package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Role identifies an access-control role by the keccak256 hash of its name
type Role common.Hash

var (
	RoleAdmin          = newRole("ADMIN_ROLE")
	RoleTreasury       = newRole("TREASURY_ROLE")
	RoleMentor         = newRole("MENTOR_ROLE")
	RoleProjectBuilder = newRole("PROJECT_BUILDER_ROLE")
	RoleResiBuilder    = newRole("RESI_BUILDER_ROLE")
)

var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[Role]string{}

func newRole(name string) Role {
	r := Role(crypto.Keccak256Hash([]byte(name)))
	roleNames[r] = name
	return r
}

// BusinessRoles returns the non-admin roles that can be awarded reputation
func BusinessRoles() []Role {
	return []Role{
		RoleTreasury,
		RoleMentor,
		RoleProjectBuilder,
		RoleResiBuilder,
	}
}

// IsBusiness reports whether the role is one of the non-admin roles
func (r Role) IsBusiness() bool {
	switch r {
	case RoleTreasury, RoleMentor, RoleProjectBuilder, RoleResiBuilder:
		return true
	}
	return false
}

// IsKnown reports whether the role is part of the closed role set
func (r Role) IsKnown() bool {
	_, ok := roleNames[r]
	return ok
}

// Name returns the role constant name, or an empty string for unknown roles
func (r Role) Name() string {
	return roleNames[r]
}

func (r Role) Bytes() []byte {
	return common.Hash(r).Bytes()
}

func (r Role) Hex() string {
	return common.Hash(r).Hex()
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return r.Hex()
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(data []byte) error {
	tmpRole, err := ParseRole(string(data))
	if err != nil {
		return err
	}
	*r = tmpRole
	return nil
}

// RoleFromBytes converts a stored 32-byte role identifier
func RoleFromBytes(b []byte) Role {
	return Role(common.BytesToHash(b))
}

// ParseRole accepts a role constant name ("MENTOR_ROLE"), a short name
// ("mentor", "project-builder") or a 0x-prefixed role hash
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b := common.FromHex(s)
		if len(b) != common.HashLength {
			return Role{}, fmt.Errorf("%w: %s", ErrUnknownRole, s)
		}
		return RoleFromBytes(b), nil
	}
	name := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	if !strings.HasSuffix(name, "_ROLE") {
		name += "_ROLE"
	}
	for role, roleName := range roleNames {
		if roleName == name {
			return role, nil
		}
	}
	return Role{}, fmt.Errorf("%w: %s", ErrUnknownRole, s)
}
