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
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend implements Backend for testing.
type mockBackend struct {
	serie      SerieInfo
	project    ProjectInfo
	account    AccountInfo
	members    []RoleMemberInfo
	quote      *uint256.Int
	events     []database.EventRecord
	serieErr   error
	projectErr error
	quoteErr   error
	eventsFrom uint64
	eventsLim  int
}

func (m *mockBackend) ActiveSerie(context.Context) (SerieInfo, error) {
	return m.serie, m.serieErr
}

func (m *mockBackend) Serie(_ context.Context, id uint64) (SerieInfo, error) {
	if m.serieErr != nil {
		return SerieInfo{}, m.serieErr
	}
	if id != m.serie.ID {
		return SerieInfo{}, ErrNotFound
	}
	return m.serie, nil
}

func (m *mockBackend) Project(context.Context, types.Name) (ProjectInfo, error) {
	return m.project, m.projectErr
}

func (m *mockBackend) Account(_ context.Context, addr common.Address) (AccountInfo, error) {
	ret := m.account
	ret.Address = addr
	return ret, nil
}

func (m *mockBackend) RoleMembers(context.Context, types.Role) ([]RoleMemberInfo, error) {
	return m.members, nil
}

func (m *mockBackend) ExitQuote(context.Context, uint64, *uint256.Int) (*uint256.Int, error) {
	return m.quote, m.quoteErr
}

func (m *mockBackend) Events(from uint64, limit int) ([]database.EventRecord, error) {
	m.eventsFrom = from
	m.eventsLim = limit
	return m.events, nil
}

func newTestAPI(backend Backend) *API {
	return New(Config{ListenAddress: "127.0.0.1:0"}, backend, slog.Default())
}

func doGet(t *testing.T, a *API, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestStartStop(t *testing.T) {
	a := newTestAPI(&mockBackend{})
	require.NoError(t, a.Start(t.Context()))
	require.Error(t, a.Start(t.Context()))
	a.mu.Lock()
	assert.NotNil(t, a.httpServer)
	a.mu.Unlock()
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Stop(stopCtx))
	a.mu.Lock()
	assert.Nil(t, a.httpServer)
	a.mu.Unlock()
	// Stopping twice is a no-op
	require.NoError(t, a.Stop(stopCtx))
}

func TestHealth(t *testing.T) {
	var resp HealthResponse
	rec := doGet(t, newTestAPI(&mockBackend{}), "/health", &resp)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.IsHealthy)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestSerie(t *testing.T) {
	backend := &mockBackend{
		serie: SerieInfo{
			ID:               1,
			Active:           true,
			StartTime:        1740787200,
			EndTime:          1743379200,
			NumberOfProjects: 10,
			CurrentProjects:  1,
			MaxSupply:        types.Units(1000),
			CurrentSupply:    types.Units(20),
			Vault:            common.HexToAddress("0xc1"),
			Badge:            common.HexToAddress("0xc2"),
		},
	}
	a := newTestAPI(backend)
	var resp SerieResponse
	rec := doGet(t, a, "/api/v1/series/active", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(1), resp.ID)
	assert.Equal(t, "1000000000000000000000", resp.MaxSupply)
	assert.Equal(t, "20000000000000000000", resp.CurrentSupply)
	assert.Equal(t, common.HexToAddress("0xc1").Hex(), resp.Vault)

	rec = doGet(t, a, "/api/v1/series/1", &resp)
	assert.Equal(t, http.StatusOK, rec.Code)

	var errResp ErrorResponse
	rec = doGet(t, a, "/api/v1/series/2", &errResp)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, errResp.StatusCode)

	rec = doGet(t, a, "/api/v1/series/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doGet(t, a, "/api/v1/series/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatus(t *testing.T) {
	testDefs := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrUnavailable, http.StatusServiceUnavailable},
		{chain.NewError(chain.ErrInvalidArgument, "bad"), http.StatusBadRequest},
		{chain.NewError(chain.ErrInvalidState, "closed"), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, testDef := range testDefs {
		a := newTestAPI(&mockBackend{serieErr: testDef.err})
		var resp ErrorResponse
		rec := doGet(t, a, "/api/v1/series/active", &resp)
		assert.Equal(t, testDef.status, rec.Code, testDef.err.Error())
		if testDef.status == http.StatusInternalServerError {
			// Internal errors are not leaked
			assert.NotContains(t, resp.Message, "boom")
		} else {
			assert.Equal(t, testDef.err.Error(), resp.Message)
		}
	}
}

func TestProject(t *testing.T) {
	name, err := types.NameFromString("Project A")
	require.NoError(t, err)
	a := newTestAPI(&mockBackend{
		project: ProjectInfo{Name: name, SerieID: 1, Active: true},
	})
	var resp ProjectResponse
	rec := doGet(t, a, "/api/v1/projects/Project%20A", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ProjectResponse{Name: "Project A", SerieID: 1, Active: true}, resp)
}

func TestAccount(t *testing.T) {
	nickname, err := types.NameFromString("alice")
	require.NoError(t, err)
	a := newTestAPI(&mockBackend{
		account: AccountInfo{
			Balance:  types.Units(5),
			Nickname: nickname,
			Series:   []SerieBalanceInfo{{SerieID: 1, Balance: types.Units(5)}},
			Badges: []BadgeInfo{
				{
					Contract: common.HexToAddress("0xc2"),
					SerieID:  1,
					TokenID:  0,
					Role:     types.RoleMentor,
					TokenURI: "ipfs://mentor",
					Balance:  types.Units(5),
				},
			},
		},
	})
	holder := common.HexToAddress("0xb1")
	var resp AccountResponse
	rec := doGet(t, a, "/api/v1/accounts/"+holder.Hex(), &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, holder.Hex(), resp.Address)
	assert.Equal(t, "5000000000000000000", resp.Balance)
	assert.Equal(t, "alice", resp.Nickname)
	require.Len(t, resp.Badges, 1)
	assert.Equal(t, types.RoleMentor.String(), resp.Badges[0].Role)
	assert.Equal(t, "ipfs://mentor", resp.Badges[0].TokenURI)

	rec = doGet(t, a, "/api/v1/accounts/nothex", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoleMembers(t *testing.T) {
	a := newTestAPI(&mockBackend{
		members: []RoleMemberInfo{{Account: common.HexToAddress("0xb1")}},
	})
	var resp []RoleMemberResponse
	rec := doGet(t, a, "/api/v1/roles/mentor/members", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp, 1)
	assert.Empty(t, resp[0].Project)

	rec = doGet(t, a, "/api/v1/roles/janitor/members", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExitQuote(t *testing.T) {
	quote, err := uint256.FromDecimal("109890109890109890109")
	require.NoError(t, err)
	a := newTestAPI(&mockBackend{quote: quote})
	var resp QuoteResponse
	rec := doGet(t, a, "/api/v1/series/1/quote?amount=20", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, QuoteResponse{
		SerieID: 1,
		Amount:  "20000000000000000000",
		Payout:  "109890109890109890109",
	}, resp)

	for _, amount := range []string{"", "0", "abc", "-1"} {
		rec = doGet(t, a, "/api/v1/series/1/quote?amount="+amount, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, amount)
	}
}

func TestEvents(t *testing.T) {
	backend := &mockBackend{
		events: []database.EventRecord{
			{Seq: 4, TxID: "tx", Type: "token.resi-minted", Data: json.RawMessage(`{"a":1}`)},
			{Seq: 5, TxID: "tx", Type: "badge.balance-updated", Data: json.RawMessage(`{}`)},
		},
	}
	a := newTestAPI(backend)
	var resp []EventResponse
	rec := doGet(t, a, "/api/v1/events?from=4&limit=5000", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(4), backend.eventsFrom)
	assert.Equal(t, MaxEventLimit, backend.eventsLim)
	require.Len(t, resp, 2)
	assert.JSONEq(t, `{"a":1}`, string(resp[0].Data))
	assert.Equal(t, "6", rec.Header().Get("X-Pagination-Next"))

	rec = doGet(t, a, "/api/v1/events", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(1), backend.eventsFrom)
	assert.Equal(t, DefaultEventLimit, backend.eventsLim)

	rec = doGet(t, a, "/api/v1/events?from=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "resi_test_total"})
	reg.MustRegister(counter)
	counter.Inc()
	a := New(Config{Gatherer: reg}, &mockBackend{}, nil)
	rec := doGet(t, a, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resi_test_total 1")

	// No gatherer, no endpoint
	rec = doGet(t, newTestAPI(&mockBackend{}), "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
