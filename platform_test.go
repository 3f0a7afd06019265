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

package resi_test

import (
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/resi"
	"github.com/blinklabs-io/resi/badge"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	deployer = common.HexToAddress("0xa1")
	treasury = common.HexToAddress("0xa2")
	builder  = common.HexToAddress("0xb1")
)

var testNow = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		// Started by a badger dependency at init
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func newTestPlatform(t *testing.T, opts ...resi.ConfigOptionFunc) *resi.Platform {
	t.Helper()
	opts = append(
		[]resi.ConfigOptionFunc{
			resi.WithClock(clockwork.NewFakeClockAt(testNow)),
		},
		opts...,
	)
	p, err := resi.New(resi.NewConfig(opts...))
	require.NoError(t, err)
	return p
}

func launch(t *testing.T, p *resi.Platform) resi.LaunchedSerie {
	t.Helper()
	ctx := context.Background()
	primary, err := p.DeployAsset(ctx, deployer, "Stable", "STB", types.Units(1000))
	require.NoError(t, err)
	projectA, err := types.NameFromString("Project A")
	require.NoError(t, err)
	serie, err := p.LaunchSerie(ctx, deployer, resi.SerieParams{
		Start:            testNow,
		End:              testNow.Add(30 * 24 * time.Hour),
		NumberOfProjects: 10,
		MaxSupply:        types.Units(1000),
		PrimaryAsset:     primary,
		Projects:         []types.Name{projectA},
		BadgeName:        "RESI Serie 1",
		BadgeSymbol:      "RS1",
		ContractURI:      "ipfs://contract",
		RoleURIs: map[types.Role]string{
			types.RoleResiBuilder: "ipfs://builder",
		},
	})
	require.NoError(t, err)
	return serie
}

func TestConfigValidation(t *testing.T) {
	_, err := resi.New(resi.NewConfig(resi.WithTracingStdout(true)))
	require.Error(t, err)
	_, err = resi.New(resi.NewConfig(resi.WithShutdownTimeout(-time.Second)))
	require.Error(t, err)
}

func TestBootstrapAndLaunch(t *testing.T) {
	p := newTestPlatform(t)
	defer func() { require.NoError(t, p.Shutdown()) }()
	ctx := context.Background()

	require.ErrorIs(t, p.Open(ctx), resi.ErrNotBootstrapped)
	_, err := p.LaunchSerie(ctx, deployer, resi.SerieParams{})
	require.ErrorIs(t, err, resi.ErrNotBootstrapped)

	receipt, err := p.Bootstrap(ctx, deployer, treasury)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Events)
	_, err = p.Bootstrap(ctx, deployer, treasury)
	require.ErrorIs(t, err, resi.ErrAlreadyBootstrapped)

	reg, tok := p.Registry(), p.Token()
	require.NotNil(t, reg)
	require.NotNil(t, tok)

	serie := launch(t, p)
	assert.Equal(t, uint64(1), serie.ID)

	err = p.Chain().Query(ctx, func(call *chain.Call) error {
		tokenAddr, err := reg.ResiToken(call)
		require.NoError(t, err)
		assert.Equal(t, tok.Address(), tokenAddr)
		isTreasury, err := tok.HasRole(call, types.RoleTreasury, treasury)
		require.NoError(t, err)
		assert.True(t, isTreasury)
		isAdmin, err := tok.HasRole(call, types.RoleAdmin, deployer)
		require.NoError(t, err)
		assert.True(t, isAdmin)
		active, err := reg.ActiveSerie(call)
		require.NoError(t, err)
		assert.Equal(t, serie.ID, active)
		sbt, err := reg.GetSBTSerie(call)
		require.NoError(t, err)
		assert.Equal(t, serie.Badge, sbt)
		vaultAddr, err := reg.SerieVault(call, serie.ID)
		require.NoError(t, err)
		assert.Equal(t, serie.Vault, vaultAddr)
		return nil
	})
	require.NoError(t, err)
}

func TestLaunchSerieRollsBack(t *testing.T) {
	p := newTestPlatform(t)
	defer func() { require.NoError(t, p.Shutdown()) }()
	ctx := context.Background()
	_, err := p.Bootstrap(ctx, deployer, treasury)
	require.NoError(t, err)
	before, err := p.Chain().Contracts(ctx, "")
	require.NoError(t, err)
	// End before start fails after the vault has been deployed
	_, err = p.LaunchSerie(ctx, deployer, resi.SerieParams{
		Start:            testNow.Add(time.Hour),
		End:              testNow,
		NumberOfProjects: 1,
		MaxSupply:        types.Units(1),
		PrimaryAsset:     common.HexToAddress("0xf1"),
		ContractURI:      "ipfs://contract",
	})
	require.ErrorIs(t, err, chain.ErrInvalidArgument)
	after, err := p.Chain().Contracts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestLaunchSerieRequiresContractURI(t *testing.T) {
	p := newTestPlatform(t)
	defer func() { require.NoError(t, p.Shutdown()) }()
	ctx := context.Background()
	_, err := p.Bootstrap(ctx, deployer, treasury)
	require.NoError(t, err)
	before, err := p.Chain().Contracts(ctx, "")
	require.NoError(t, err)
	_, err = p.LaunchSerie(ctx, deployer, resi.SerieParams{
		Start:            testNow,
		End:              testNow.Add(time.Hour),
		NumberOfProjects: 1,
		MaxSupply:        types.Units(1),
		PrimaryAsset:     common.HexToAddress("0xf1"),
	})
	require.ErrorIs(t, err, resi.ErrEmptyContractURI)
	after, err := p.Chain().Contracts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

// A serie without role URIs mints award badges with the contract URI
func TestAwardFallsBackToContractURI(t *testing.T) {
	p := newTestPlatform(t)
	defer func() { require.NoError(t, p.Shutdown()) }()
	ctx := context.Background()
	_, err := p.Bootstrap(ctx, deployer, treasury)
	require.NoError(t, err)
	primary, err := p.DeployAsset(ctx, deployer, "Stable", "STB", types.Units(10))
	require.NoError(t, err)
	serie, err := p.LaunchSerie(ctx, deployer, resi.SerieParams{
		Start:            testNow,
		End:              testNow.Add(time.Hour),
		NumberOfProjects: 1,
		MaxSupply:        types.Units(100),
		PrimaryAsset:     primary,
		ContractURI:      "localhost:3000",
	})
	require.NoError(t, err)
	tok := p.Token()
	_, err = p.Chain().Submit(ctx, deployer, func(call *chain.Call) error {
		if err := tok.AddResiBuilder(call, builder); err != nil {
			return err
		}
		return tok.Award(call, builder, types.RoleResiBuilder, types.Units(5))
	})
	require.NoError(t, err)
	err = p.Chain().Query(ctx, func(call *chain.Call) error {
		sbt, err := chain.Resolve[*badge.SBT](call, serie.Badge)
		if err != nil {
			return err
		}
		b, err := sbt.BadgeOf(call, builder, types.RoleResiBuilder)
		if err != nil {
			return err
		}
		assert.Equal(t, "localhost:3000", b.TokenURI)
		return nil
	})
	require.NoError(t, err)
}

func TestAwardUsesRoleURI(t *testing.T) {
	p := newTestPlatform(t)
	defer func() { require.NoError(t, p.Shutdown()) }()
	ctx := context.Background()
	_, err := p.Bootstrap(ctx, deployer, treasury)
	require.NoError(t, err)
	serie := launch(t, p)
	tok := p.Token()
	_, err = p.Chain().Submit(ctx, deployer, func(call *chain.Call) error {
		if err := tok.AddResiBuilder(call, builder); err != nil {
			return err
		}
		return tok.Award(call, builder, types.RoleResiBuilder, types.Units(5))
	})
	require.NoError(t, err)
	err = p.Chain().Query(ctx, func(call *chain.Call) error {
		sbt, err := chain.Resolve[*badge.SBT](call, serie.Badge)
		require.NoError(t, err)
		b, err := sbt.BadgeOf(call, builder, types.RoleResiBuilder)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://builder", b.TokenURI)
		assert.Equal(t, types.Units(5), b.Balance)
		return nil
	})
	require.NoError(t, err)
}

func TestOpenPersistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	p := newTestPlatform(t, resi.WithDatabasePath(dir))
	_, err := p.Bootstrap(ctx, deployer, treasury)
	require.NoError(t, err)
	serie := launch(t, p)
	regAddr, tokAddr := p.Registry().Address(), p.Token().Address()
	require.NoError(t, p.Shutdown())
	// Shutdown is idempotent
	require.NoError(t, p.Shutdown())

	p = newTestPlatform(t, resi.WithDatabasePath(dir))
	defer func() { require.NoError(t, p.Shutdown()) }()
	assert.Nil(t, p.Registry())
	require.NoError(t, p.Open(ctx))
	assert.Equal(t, regAddr, p.Registry().Address())
	assert.Equal(t, tokAddr, p.Token().Address())
	err = p.Chain().Query(ctx, func(call *chain.Call) error {
		vaultAddr, err := p.Registry().SerieVault(call, serie.ID)
		require.NoError(t, err)
		assert.Equal(t, serie.Vault, vaultAddr)
		return nil
	})
	require.NoError(t, err)
	_, err = p.Bootstrap(ctx, deployer, treasury)
	require.ErrorIs(t, err, resi.ErrAlreadyBootstrapped)
}
