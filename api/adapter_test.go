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

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/resi"
	"github.com/blinklabs-io/resi/api"
	"github.com/blinklabs-io/resi/asset"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = common.HexToAddress("0xa1")
	treasury = common.HexToAddress("0xa2")
	mentor   = common.HexToAddress("0xb1")
)

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestPlatformAdapter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p, err := resi.New(resi.NewConfig(resi.WithClock(clockwork.NewFakeClockAt(now))))
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Shutdown()) }()
	h := api.New(api.Config{}, api.NewPlatformAdapter(p), nil).Handler()

	// Nothing deployed yet
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/v1/series/active", nil))

	_, err = p.Bootstrap(ctx, deployer, treasury)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/series/active", nil))

	primary, err := p.DeployAsset(ctx, deployer, "Stable", "STB", types.Units(1000))
	require.NoError(t, err)
	projectA, err := types.NameFromString("Project A")
	require.NoError(t, err)
	serie, err := p.LaunchSerie(ctx, deployer, resi.SerieParams{
		Start:            now,
		End:              now.Add(24 * time.Hour),
		NumberOfProjects: 5,
		MaxSupply:        types.Units(100),
		PrimaryAsset:     primary,
		Projects:         []types.Name{projectA},
		BadgeName:        "Serie",
		BadgeSymbol:      "S",
		ContractURI:      "ipfs://contract",
	})
	require.NoError(t, err)
	// Fund the vault with the whole primary supply
	_, err = p.Chain().Submit(ctx, deployer, func(call *chain.Call) error {
		ledger, err := chain.Resolve[*asset.Ledger](call, primary)
		if err != nil {
			return err
		}
		return ledger.Transfer(call, serie.Vault, types.Units(1000))
	})
	require.NoError(t, err)
	tok := p.Token()
	_, err = p.Chain().Submit(ctx, deployer, func(call *chain.Call) error {
		if err := tok.AddMentor(call, mentor, serie.ID, projectA); err != nil {
			return err
		}
		return tok.Award(call, mentor, types.RoleMentor, types.Units(20))
	})
	require.NoError(t, err)

	var serieResp api.SerieResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/series/active", &serieResp))
	assert.Equal(t, serie.ID, serieResp.ID)
	assert.Equal(t, serie.Badge.Hex(), serieResp.Badge)
	assert.Equal(t, types.Units(20).Dec(), serieResp.CurrentSupply)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/series/7", nil))

	var projectResp api.ProjectResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/projects/Project%20A", &projectResp))
	assert.True(t, projectResp.Active)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/projects/Unknown", nil))

	var account api.AccountResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/accounts/"+mentor.Hex(), &account))
	assert.Equal(t, types.Units(20).Dec(), account.Balance)
	require.Len(t, account.Badges, 1)
	assert.Equal(t, "ipfs://contract", account.Badges[0].TokenURI)

	var members []api.RoleMemberResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/roles/mentor/members", &members))
	require.Len(t, members, 1)
	assert.Equal(t, mentor.Hex(), members[0].Account)
	assert.Equal(t, "Project A", members[0].Project)

	// The mentor holds the whole supply
	var quote api.QuoteResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/series/1/quote?amount=20", &quote))
	assert.Equal(t, types.Units(1000).Dec(), quote.Payout)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/series/1/quote?amount=21", nil))
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/series/9/quote?amount=1", nil))

	var events []api.EventResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/events?limit=1000", &events))
	require.NotEmpty(t, events)
	assert.Equal(t, uint64(1), events[0].Seq)
	assert.Equal(t, "token.resi-minted", events[len(events)-1].Type)
}
