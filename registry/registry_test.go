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

package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/registry"
	"github.com/blinklabs-io/resi/types"
	"github.com/blinklabs-io/resi/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = common.HexToAddress("0xc1")
	stranger = common.HexToAddress("0xc2")
	tokenA   = common.HexToAddress("0xc3")
	assetA   = common.HexToAddress("0xc4")
	badgeA   = common.HexToAddress("0xc5")
)

var testNow = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func mustName(t *testing.T, s string) types.Name {
	t.Helper()
	n, err := types.NameFromString(s)
	require.NoError(t, err)
	return n
}

type testRegistry struct {
	chain    *chain.Chain
	clock    *clockwork.FakeClock
	registry *registry.Registry
}

func newTestRegistry(t *testing.T) *testRegistry {
	t.Helper()
	db, err := database.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	tr := &testRegistry{clock: clockwork.NewFakeClockAt(testNow)}
	tr.chain, err = chain.New(chain.Config{Database: db, Clock: tr.clock})
	require.NoError(t, err)
	_, err = tr.chain.Submit(context.Background(), owner, func(call *chain.Call) error {
		comp, err := call.Deploy(registry.Kind)
		if err != nil {
			return err
		}
		tr.registry = comp.(*registry.Registry)
		return tr.registry.Initialize(call)
	})
	require.NoError(t, err)
	return tr
}

func (tr *testRegistry) submit(sender common.Address, fn func(*chain.Call) error) (*chain.Receipt, error) {
	return tr.chain.Submit(context.Background(), sender, fn)
}

func (tr *testRegistry) query(t *testing.T, fn func(*chain.Call) error) {
	t.Helper()
	require.NoError(t, tr.chain.Query(context.Background(), fn))
}

// deployVault deploys a vault bound to a serie
func (tr *testRegistry) deployVault(t *testing.T, serieID uint64) common.Address {
	t.Helper()
	var ret common.Address
	_, err := tr.submit(owner, func(call *chain.Call) error {
		comp, err := call.Deploy(vault.Kind)
		if err != nil {
			return err
		}
		ret = comp.Address()
		return comp.(*vault.Vault).Initialize(call, serieID, tokenA, assetA, tr.registry.Address())
	})
	require.NoError(t, err)
	return ret
}

func (tr *testRegistry) createSerie(t *testing.T, numberOfProjects uint64, maxSupply uint64) uint64 {
	t.Helper()
	var serieID uint64
	tr.query(t, func(call *chain.Call) error {
		var err error
		serieID, err = tr.registry.ActiveSerie(call)
		return err
	})
	vaultAddr := tr.deployVault(t, serieID+1)
	_, err := tr.submit(owner, func(call *chain.Call) error {
		now := call.Now()
		return tr.registry.CreateSerie(call, now, now.Add(time.Hour), numberOfProjects, uint256.NewInt(maxSupply), vaultAddr)
	})
	require.NoError(t, err)
	return serieID + 1
}

func TestInitializeOnce(t *testing.T) {
	tr := newTestRegistry(t)
	_, err := tr.submit(stranger, func(call *chain.Call) error {
		return tr.registry.Initialize(call)
	})
	require.ErrorIs(t, err, chain.ErrAlreadyInitialized)
	tr.query(t, func(call *chain.Call) error {
		got, err := tr.registry.Owner(call)
		require.NoError(t, err)
		assert.Equal(t, owner, got)
		return nil
	})
}

func TestCreateSerieValidation(t *testing.T) {
	tr := newTestRegistry(t)
	vaultAddr := tr.deployVault(t, 1)
	testCases := []struct {
		name             string
		sender           common.Address
		start            time.Time
		end              time.Time
		numberOfProjects uint64
		maxSupply        uint64
		vault            common.Address
		err              error
	}{
		{"not owner", stranger, testNow, testNow.Add(time.Hour), 1, 1, vaultAddr, chain.ErrNotOwner},
		{"start in past", owner, testNow.Add(-time.Second), testNow.Add(time.Hour), 1, 1, vaultAddr, registry.ErrInvalidStartTime},
		{"end before start", owner, testNow.Add(time.Hour), testNow, 1, 1, vaultAddr, registry.ErrInvalidEndTime},
		{"end equals start", owner, testNow, testNow, 1, 1, vaultAddr, registry.ErrInvalidEndTime},
		{"no projects", owner, testNow, testNow.Add(time.Hour), 0, 1, vaultAddr, registry.ErrInvalidNumberOfProjects},
		{"no supply", owner, testNow, testNow.Add(time.Hour), 1, 0, vaultAddr, registry.ErrInvalidMaxSupply},
		{"zero vault", owner, testNow, testNow.Add(time.Hour), 1, 1, common.Address{}, registry.ErrInvalidVault},
		{"not a vault", owner, testNow, testNow.Add(time.Hour), 1, 1, stranger, registry.ErrInvalidVault},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := tr.submit(testCase.sender, func(call *chain.Call) error {
				return tr.registry.CreateSerie(
					call,
					testCase.start,
					testCase.end,
					testCase.numberOfProjects,
					uint256.NewInt(testCase.maxSupply),
					testCase.vault,
				)
			})
			require.ErrorIs(t, err, testCase.err)
		})
	}
}

func TestSerieLifecycle(t *testing.T) {
	tr := newTestRegistry(t)
	_, err := tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.CloseSerie(call)
	})
	require.ErrorIs(t, err, registry.ErrSerieNotCreated)
	require.Equal(t, uint64(1), tr.createSerie(t, 2, 1000))
	tr.query(t, func(call *chain.Call) error {
		active, supply, err := tr.registry.GetSerieState(call, 1)
		require.NoError(t, err)
		assert.True(t, active)
		assert.True(t, supply.IsZero())
		active, supply, err = tr.registry.GetSerieState(call, 7)
		require.NoError(t, err)
		assert.False(t, active)
		assert.True(t, supply.IsZero())
		return nil
	})
	vaultAddr := tr.deployVault(t, 2)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		now := call.Now()
		return tr.registry.CreateSerie(call, now, now.Add(time.Hour), 1, uint256.NewInt(1), vaultAddr)
	})
	require.ErrorIs(t, err, registry.ErrCurrentSerieNotClosed)
	receipt, err := tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.CloseSerie(call)
	})
	require.NoError(t, err)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, registry.SerieClosedEvent{SerieID: 1}, receipt.Events[0].Data)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.CloseSerie(call)
	})
	require.ErrorIs(t, err, registry.ErrSerieAlreadyClosed)
	tr.query(t, func(call *chain.Call) error {
		// the closed serie stays the active serie id
		activeSerie, err := tr.registry.ActiveSerie(call)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), activeSerie)
		active, _, err := tr.registry.GetSerieState(call, 1)
		require.NoError(t, err)
		assert.False(t, active)
		return nil
	})
	tr.clock.Advance(time.Hour)
	require.Equal(t, uint64(2), tr.createSerie(t, 1, 1))
	tr.query(t, func(call *chain.Call) error {
		series, err := tr.registry.Series(call)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.False(t, series[0].Active)
		assert.True(t, series[1].Active)
		assert.Equal(t, testNow.Add(time.Hour), series[1].StartTime)
		return nil
	})
}

func TestProjects(t *testing.T) {
	tr := newTestRegistry(t)
	alpha := mustName(t, "alpha")
	beta := mustName(t, "beta")
	gamma := mustName(t, "gamma")
	_, err := tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProject(call, alpha)
	})
	require.ErrorIs(t, err, registry.ErrSerieInactive)
	tr.createSerie(t, 2, 1000)
	tr.query(t, func(call *chain.Call) error {
		ok, err := tr.registry.IsValidProject(call, alpha)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProject(call, types.Name{})
	})
	require.ErrorIs(t, err, registry.ErrInvalidProjectName)
	_, err = tr.submit(stranger, func(call *chain.Call) error {
		return tr.registry.AddProject(call, alpha)
	})
	require.ErrorIs(t, err, chain.ErrNotOwner)
	// all-or-nothing batch
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProjects(call, []types.Name{alpha, beta, gamma})
	})
	require.ErrorIs(t, err, registry.ErrMaxProjectsReached)
	tr.query(t, func(call *chain.Call) error {
		ok, err := tr.registry.IsValidProject(call, alpha)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProjects(call, []types.Name{alpha, alpha})
	})
	require.ErrorIs(t, err, registry.ErrProjectRegistered)
	receipt, err := tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProjects(call, []types.Name{alpha, beta})
	})
	require.NoError(t, err)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, registry.ProjectEvent{SerieID: 1, Name: beta}, receipt.Events[1].Data)
	tr.query(t, func(call *chain.Call) error {
		ok, err := tr.registry.IsValidProject(call, alpha)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = tr.registry.IsValidProjectInSerie(call, 1, beta)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = tr.registry.IsValidProjectInSerie(call, 2, beta)
		require.NoError(t, err)
		assert.False(t, ok)
		serie, err := tr.registry.Serie(call, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), serie.CurrentProjects)
		return nil
	})
	for range 2 {
		_, err = tr.submit(owner, func(call *chain.Call) error {
			return tr.registry.DisableProject(call, alpha)
		})
		require.NoError(t, err)
	}
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.DisableProject(call, gamma)
	})
	require.NoError(t, err)
	tr.query(t, func(call *chain.Call) error {
		ok, err := tr.registry.IsValidProject(call, alpha)
		require.NoError(t, err)
		assert.False(t, ok)
		projects, err := tr.registry.Projects(call, 1)
		require.NoError(t, err)
		assert.Len(t, projects, 2)
		return nil
	})
	// projects of a closed serie are no longer valid globally
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.CloseSerie(call)
	})
	require.NoError(t, err)
	tr.query(t, func(call *chain.Call) error {
		ok, err := tr.registry.IsValidProject(call, beta)
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = tr.registry.IsValidProjectInSerie(call, 1, beta)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
}

func TestProjectReactivation(t *testing.T) {
	tr := newTestRegistry(t)
	alpha := mustName(t, "alpha")
	beta := mustName(t, "beta")
	tr.createSerie(t, 2, 1000)
	_, err := tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProject(call, alpha)
	})
	require.NoError(t, err)
	// a disabled project keeps its slot when added back
	for range 3 {
		_, err = tr.submit(owner, func(call *chain.Call) error {
			return tr.registry.DisableProject(call, alpha)
		})
		require.NoError(t, err)
		receipt, err := tr.submit(owner, func(call *chain.Call) error {
			return tr.registry.AddProject(call, alpha)
		})
		require.NoError(t, err)
		require.Len(t, receipt.Events, 1)
	}
	tr.query(t, func(call *chain.Call) error {
		serie, err := tr.registry.Serie(call, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), serie.CurrentProjects)
		ok, err := tr.registry.IsValidProject(call, alpha)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProject(call, beta)
	})
	require.NoError(t, err)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.DisableProject(call, beta)
	})
	require.NoError(t, err)
	// a full serie still accepts its own disabled project
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProject(call, beta)
	})
	require.NoError(t, err)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.AddProject(call, mustName(t, "gamma"))
	})
	require.ErrorIs(t, err, registry.ErrMaxProjectsReached)
	tr.query(t, func(call *chain.Call) error {
		serie, err := tr.registry.Serie(call, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), serie.CurrentProjects)
		return nil
	})
}

func TestSerieSBT(t *testing.T) {
	tr := newTestRegistry(t)
	_, err := tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.RegisterSerieSBT(call, badgeA)
	})
	require.ErrorIs(t, err, registry.ErrSerieNotActive)
	tr.createSerie(t, 1, 1)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.RegisterSerieSBT(call, badgeA)
	})
	require.NoError(t, err)
	tr.query(t, func(call *chain.Call) error {
		got, err := tr.registry.GetSBTSerie(call)
		require.NoError(t, err)
		assert.Equal(t, badgeA, got)
		got, err = tr.registry.SerieBadge(call, 1)
		require.NoError(t, err)
		assert.Equal(t, badgeA, got)
		return nil
	})
}

func TestAddressSetters(t *testing.T) {
	tr := newTestRegistry(t)
	_, err := tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.SetResiToken(call, common.Address{})
	})
	require.ErrorIs(t, err, registry.ErrInvalidAddress)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		if err := tr.registry.SetResiToken(call, tokenA); err != nil {
			return err
		}
		return tr.registry.SetTreasuryVault(call, assetA)
	})
	require.NoError(t, err)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.SetTreasuryVault(call, badgeA)
	})
	require.ErrorIs(t, err, registry.ErrTreasuryVaultSet)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.TransferOwnership(call, stranger)
	})
	require.NoError(t, err)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.SetResiToken(call, badgeA)
	})
	require.ErrorIs(t, err, chain.ErrNotOwner)
	_, err = tr.submit(stranger, func(call *chain.Call) error {
		return tr.registry.SetResiToken(call, badgeA)
	})
	require.NoError(t, err)
}

func TestSerieSupply(t *testing.T) {
	tr := newTestRegistry(t)
	tr.createSerie(t, 1, 100)
	// no token bound
	_, err := tr.submit(tokenA, func(call *chain.Call) error {
		return tr.registry.IncreaseSerieSupply(call, 1, uint256.NewInt(1))
	})
	require.ErrorIs(t, err, registry.ErrOnlyResiToken)
	require.ErrorIs(t, err, chain.ErrUpstreamInconsistency)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.SetResiToken(call, tokenA)
	})
	require.NoError(t, err)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.IncreaseSerieSupply(call, 1, uint256.NewInt(1))
	})
	require.ErrorIs(t, err, registry.ErrOnlyResiToken)
	_, err = tr.submit(tokenA, func(call *chain.Call) error {
		return tr.registry.IncreaseSerieSupply(call, 1, uint256.NewInt(60))
	})
	require.NoError(t, err)
	_, err = tr.submit(tokenA, func(call *chain.Call) error {
		return tr.registry.IncreaseSerieSupply(call, 1, uint256.NewInt(41))
	})
	require.ErrorIs(t, err, registry.ErrMaxSupplyReached)
	_, err = tr.submit(tokenA, func(call *chain.Call) error {
		return tr.registry.IncreaseSerieSupply(call, 2, uint256.NewInt(1))
	})
	require.ErrorIs(t, err, registry.ErrInvalidSerie)
	_, err = tr.submit(tokenA, func(call *chain.Call) error {
		return tr.registry.DecreaseSerieSupply(call, 1, uint256.NewInt(61))
	})
	require.ErrorIs(t, err, registry.ErrSupplyUnderflow)
	_, err = tr.submit(owner, func(call *chain.Call) error {
		return tr.registry.CloseSerie(call)
	})
	require.NoError(t, err)
	_, err = tr.submit(tokenA, func(call *chain.Call) error {
		return tr.registry.IncreaseSerieSupply(call, 1, uint256.NewInt(1))
	})
	require.ErrorIs(t, err, registry.ErrSerieInactive)
	// closed series can still shrink
	_, err = tr.submit(tokenA, func(call *chain.Call) error {
		return tr.registry.DecreaseSerieSupply(call, 1, uint256.NewInt(10))
	})
	require.NoError(t, err)
	tr.query(t, func(call *chain.Call) error {
		supply, err := tr.registry.GetSerieSupply(call, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(50), supply.Uint64())
		return nil
	})
}
