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

package api

import (
	"context"
	"errors"

	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ErrNotFound is returned by a Backend when the requested object does not exist
var ErrNotFound = errors.New("not found")

// Backend is what the API server queries. It decouples the HTTP layer from
// the platform and allows testing with mock implementations
type Backend interface {
	// ActiveSerie returns the most recently created serie
	ActiveSerie(ctx context.Context) (SerieInfo, error)

	Serie(ctx context.Context, id uint64) (SerieInfo, error)

	Project(ctx context.Context, name types.Name) (ProjectInfo, error)

	// Account returns the ledger balances and badges of an address
	Account(ctx context.Context, addr common.Address) (AccountInfo, error)

	RoleMembers(ctx context.Context, role types.Role) ([]RoleMemberInfo, error)

	// ExitQuote prices an exit of amount from a closed or open serie
	ExitQuote(ctx context.Context, serieID uint64, amount *uint256.Int) (*uint256.Int, error)

	Events(from uint64, limit int) ([]database.EventRecord, error)
}

type SerieInfo struct {
	StartTime        int64
	EndTime          int64
	MaxSupply        *uint256.Int
	CurrentSupply    *uint256.Int
	ID               uint64
	NumberOfProjects uint64
	CurrentProjects  uint64
	Vault            common.Address
	Badge            common.Address
	Active           bool
}

type ProjectInfo struct {
	Name    types.Name
	SerieID uint64
	Active  bool
}

type BadgeInfo struct {
	Balance  *uint256.Int
	TokenURI string
	SerieID  uint64
	TokenID  uint64
	Role     types.Role
	Contract common.Address
}

type SerieBalanceInfo struct {
	Balance *uint256.Int
	SerieID uint64
}

type AccountInfo struct {
	Balance  *uint256.Int
	Series   []SerieBalanceInfo
	Badges   []BadgeInfo
	Nickname types.Name
	Address  common.Address
}

type RoleMemberInfo struct {
	Project types.Name
	SerieID uint64
	Account common.Address
}
