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

	"github.com/blinklabs-io/resi"
	"github.com/blinklabs-io/resi/badge"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/database/models"
	"github.com/blinklabs-io/resi/registry"
	"github.com/blinklabs-io/resi/token"
	"github.com/blinklabs-io/resi/types"
	"github.com/blinklabs-io/resi/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PlatformAdapter implements Backend over a platform
type PlatformAdapter struct {
	platform *resi.Platform
}

// NewPlatformAdapter creates a PlatformAdapter. Panics if p is nil
func NewPlatformAdapter(p *resi.Platform) *PlatformAdapter {
	if p == nil {
		panic("NewPlatformAdapter: platform must not be nil")
	}
	return &PlatformAdapter{platform: p}
}

func (a *PlatformAdapter) query(
	ctx context.Context,
	fn func(*chain.Call, *registry.Registry, *token.Token) error,
) error {
	reg, tok := a.platform.Registry(), a.platform.Token()
	if reg == nil || tok == nil {
		return ErrUnavailable
	}
	return a.platform.Chain().Query(ctx, func(call *chain.Call) error {
		return fn(call, reg, tok)
	})
}

func (a *PlatformAdapter) ActiveSerie(ctx context.Context) (SerieInfo, error) {
	var ret SerieInfo
	err := a.query(ctx, func(call *chain.Call, reg *registry.Registry, _ *token.Token) error {
		id, err := reg.ActiveSerie(call)
		if err != nil {
			return err
		}
		if id == 0 {
			return ErrNotFound
		}
		ret, err = serieInfo(call, reg, id)
		return err
	})
	return ret, err
}

func (a *PlatformAdapter) Serie(ctx context.Context, id uint64) (SerieInfo, error) {
	var ret SerieInfo
	err := a.query(ctx, func(call *chain.Call, reg *registry.Registry, _ *token.Token) error {
		var err error
		ret, err = serieInfo(call, reg, id)
		return err
	})
	return ret, err
}

func serieInfo(call *chain.Call, reg *registry.Registry, id uint64) (SerieInfo, error) {
	serie, err := reg.Serie(call, id)
	if err != nil {
		if errors.Is(err, models.ErrSerieNotFound) {
			return SerieInfo{}, ErrNotFound
		}
		return SerieInfo{}, err
	}
	return SerieInfo{
		ID:               serie.ID,
		Active:           serie.Active,
		StartTime:        serie.StartTime.Unix(),
		EndTime:          serie.EndTime.Unix(),
		NumberOfProjects: serie.NumberOfProjects,
		CurrentProjects:  serie.CurrentProjects,
		MaxSupply:        serie.MaxSupply,
		CurrentSupply:    serie.CurrentSupply,
		Vault:            serie.Vault,
		Badge:            serie.Badge,
	}, nil
}

func (a *PlatformAdapter) Project(ctx context.Context, name types.Name) (ProjectInfo, error) {
	var ret ProjectInfo
	err := a.query(ctx, func(call *chain.Call, reg *registry.Registry, _ *token.Token) error {
		project, err := reg.Project(call, name)
		if err != nil {
			if errors.Is(err, models.ErrProjectNotFound) {
				return ErrNotFound
			}
			return err
		}
		ret = ProjectInfo{
			Name:    project.Name,
			SerieID: project.SerieID,
			Active:  project.Active,
		}
		return nil
	})
	return ret, err
}

// Account collects badges from every serie with a registered badge. The
// nickname is the one set on the latest such badge
func (a *PlatformAdapter) Account(ctx context.Context, addr common.Address) (AccountInfo, error) {
	ret := AccountInfo{Address: addr}
	err := a.query(ctx, func(call *chain.Call, reg *registry.Registry, tok *token.Token) error {
		var err error
		ret.Balance, err = tok.BalanceOf(call, addr)
		if err != nil {
			return err
		}
		balances, err := tok.SerieBalances(call, addr)
		if err != nil {
			return err
		}
		for _, bal := range balances {
			ret.Series = append(ret.Series, SerieBalanceInfo{
				SerieID: bal.SerieID,
				Balance: bal.Balance,
			})
		}
		series, err := reg.Series(call)
		if err != nil {
			return err
		}
		for _, serie := range series {
			if serie.Badge == (common.Address{}) {
				continue
			}
			sbt, err := chain.Resolve[*badge.SBT](call, serie.Badge)
			if err != nil {
				return err
			}
			badges, err := sbt.Badges(call, addr)
			if err != nil {
				return err
			}
			for _, b := range badges {
				ret.Badges = append(ret.Badges, BadgeInfo{
					Contract: serie.Badge,
					SerieID:  b.SerieID,
					TokenID:  b.TokenID,
					Role:     b.Role,
					TokenURI: b.TokenURI,
					Balance:  b.Balance,
				})
			}
			nickname, err := sbt.Nickname(call, addr)
			if err != nil {
				return err
			}
			if !nickname.IsZero() {
				ret.Nickname = nickname
			}
		}
		return nil
	})
	return ret, err
}

func (a *PlatformAdapter) RoleMembers(ctx context.Context, role types.Role) ([]RoleMemberInfo, error) {
	var ret []RoleMemberInfo
	err := a.query(ctx, func(call *chain.Call, _ *registry.Registry, tok *token.Token) error {
		members, err := tok.RoleMembers(call, role)
		if err != nil {
			return err
		}
		for _, m := range members {
			ret = append(ret, RoleMemberInfo{
				Account: m.Account,
				Project: m.Project,
				SerieID: m.SerieID,
			})
		}
		return nil
	})
	return ret, err
}

func (a *PlatformAdapter) ExitQuote(
	ctx context.Context,
	serieID uint64,
	amount *uint256.Int,
) (*uint256.Int, error) {
	var ret *uint256.Int
	err := a.query(ctx, func(call *chain.Call, reg *registry.Registry, _ *token.Token) error {
		vaultAddr, err := reg.SerieVault(call, serieID)
		if err != nil {
			if errors.Is(err, registry.ErrInvalidSerie) {
				return ErrNotFound
			}
			return err
		}
		v, err := chain.Resolve[*vault.Vault](call, vaultAddr)
		if err != nil {
			return err
		}
		ret, err = v.GetCurrentExitQuote(call, amount)
		return err
	})
	return ret, err
}

func (a *PlatformAdapter) Events(from uint64, limit int) ([]database.EventRecord, error) {
	return a.platform.Chain().Events(from, limit)
}
