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

package chain_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/database/models"
	"github.com/blinklabs-io/resi/event"
	"github.com/blinklabs-io/resi/internal/test/testutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testKind      chain.Kind      = "test"
	testEventType event.EventType = "test.pinged"
)

var (
	deployer = common.HexToAddress("0xd0")
	other    = common.HexToAddress("0xe0")
	errTest  = errors.New("test")
)

type testComponent struct {
	addr common.Address
}

func (t *testComponent) Address() common.Address { return t.addr }

func (t *testComponent) Kind() chain.Kind { return testKind }

func (t *testComponent) Ping(call *chain.Call, n int) {
	call.Emit(t.addr, testEventType, map[string]any{"n": n, "sender": call.Sender()})
}

func init() {
	chain.RegisterKind(testKind, func(_ *chain.Chain, addr common.Address) chain.Component {
		return &testComponent{addr: addr}
	})
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		// Started by a badger dependency at init
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func newTestChain(t *testing.T, reg prometheus.Registerer) (*chain.Chain, *event.EventBus, *clockwork.FakeClock) {
	t.Helper()
	db, err := database.New(nil)
	require.NoError(t, err)
	bus := event.NewEventBus(nil, nil)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	c, err := chain.New(chain.Config{
		Database:     db,
		EventBus:     bus,
		Clock:        clock,
		PromRegistry: reg,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		bus.Stop()
		_ = db.Close()
	})
	return c, bus, clock
}

func deploy(t *testing.T, c *chain.Chain) *testComponent {
	t.Helper()
	var comp *testComponent
	_, err := c.Submit(context.Background(), deployer, func(call *chain.Call) error {
		tmpComp, err := call.Deploy(testKind)
		if err != nil {
			return err
		}
		comp = tmpComp.(*testComponent)
		return nil
	})
	require.NoError(t, err)
	return comp
}

func TestDeployDerivesAddresses(t *testing.T) {
	c, _, _ := newTestChain(t, nil)
	first := deploy(t, c)
	second := deploy(t, c)
	assert.Equal(t, crypto.CreateAddress(deployer, 0), first.Address())
	assert.Equal(t, crypto.CreateAddress(deployer, 1), second.Address())
	contracts, err := c.Contracts(context.Background(), testKind)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, deployer.Bytes(), contracts[0].Deployer)
	err = c.Query(context.Background(), func(call *chain.Call) error {
		comp, err := chain.Resolve[*testComponent](call, first.Address())
		require.NoError(t, err)
		assert.Equal(t, first.Address(), comp.Address())
		_, err = call.Lookup(other)
		assert.ErrorIs(t, err, chain.ErrNoComponent)
		assert.ErrorIs(t, err, chain.ErrInvalidArgument)
		return nil
	})
	require.NoError(t, err)
}

func TestSubmitPublishesAfterCommit(t *testing.T) {
	c, bus, clock := newTestChain(t, nil)
	comp := deploy(t, c)
	_, evtCh := bus.Subscribe(testEventType)
	receipt, err := c.Submit(context.Background(), other, func(call *chain.Call) error {
		assert.Equal(t, clock.Now(), call.Now())
		comp.Ping(call, 1)
		comp.Ping(call.As(comp.Address()), 2)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, uint64(1), receipt.Events[0].Seq)
	assert.Equal(t, uint64(2), receipt.Events[1].Seq)
	assert.NotEmpty(t, receipt.TxID)
	for i := range 2 {
		evt := testutil.RequireReceive(t, evtCh, "committed event")
		assert.Equal(t, receipt.TxID, evt.TxID)
		assert.Equal(t, uint64(i+1), evt.Seq)
	}
	records, err := c.Events(0, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, string(testEventType), records[0].Type)
	assert.JSONEq(
		t,
		`{"n":2,"sender":"`+strings.ToLower(comp.Address().Hex())+`"}`,
		string(records[1].Data),
	)
}

func TestSubmitFailureRollsBack(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, bus, _ := newTestChain(t, reg)
	_, evtCh := bus.Subscribe(event.EventTypeAll)
	var addr common.Address
	_, err := c.Submit(context.Background(), deployer, func(call *chain.Call) error {
		comp, err := call.Deploy(testKind)
		if err != nil {
			return err
		}
		addr = comp.Address()
		comp.(*testComponent).Ping(call, 1)
		return chain.NewError(chain.ErrInvalidState, "serie inactive")
	})
	require.ErrorIs(t, err, chain.ErrInvalidState)
	assert.EqualError(t, err, "serie inactive")
	err = c.Query(context.Background(), func(call *chain.Call) error {
		_, err := call.Lookup(addr)
		assert.ErrorIs(t, err, chain.ErrNoComponent)
		return nil
	})
	require.NoError(t, err)
	records, err := c.Events(0, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	testutil.RequireNoReceive(t, evtCh, 50*time.Millisecond, "rolled back event")
	// The nonce was not consumed
	comp := deploy(t, c)
	assert.Equal(t, crypto.CreateAddress(deployer, 0), comp.Address())
	assert.InDelta(t, 1, callCount(t, reg, "invalid_state"), 0)
	assert.InDelta(t, 1, callCount(t, reg, "ok"), 0)
}

func TestSubmitPanicReleasesChain(t *testing.T) {
	c, _, _ := newTestChain(t, nil)
	var addr common.Address
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = c.Submit(context.Background(), deployer, func(call *chain.Call) error {
			comp, err := call.Deploy(testKind)
			if err != nil {
				return err
			}
			addr = comp.Address()
			panic("boom")
		})
	})
	done := make(chan struct{})
	var next common.Address
	var err error
	go func() {
		defer close(done)
		_, err = c.Submit(context.Background(), deployer, func(call *chain.Call) error {
			comp, err := call.Deploy(testKind)
			if err != nil {
				return err
			}
			next = comp.Address()
			return nil
		})
	}()
	testutil.RequireDone(t, done, 2*time.Second, "chain still locked after a panicking call")
	require.NoError(t, err)
	// The panicking call consumed no nonce
	assert.Equal(t, addr, next)
	records, err := c.Events(0, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmitCanceledContext(t *testing.T) {
	c, _, _ := newTestChain(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err := c.Submit(ctx, deployer, func(*chain.Call) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestQueryDiscardsWrites(t *testing.T) {
	c, _, _ := newTestChain(t, nil)
	registry := common.HexToAddress("0x01")
	err := c.Query(context.Background(), func(call *chain.Call) error {
		return call.DB().SetRegistryState(
			&models.RegistryState{Address: registry.Bytes()},
			call.Txn(),
		)
	})
	require.NoError(t, err)
	err = c.Query(context.Background(), func(call *chain.Call) error {
		_, err := call.DB().GetRegistryState(registry, call.Txn())
		assert.ErrorIs(t, err, models.ErrStateNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestErrorKinds(t *testing.T) {
	err := chain.NewError(chain.ErrCapacityExceeded, "max supply reached")
	assert.ErrorIs(t, err, chain.ErrCapacityExceeded)
	assert.NotErrorIs(t, err, chain.ErrInvalidState)
	assert.Equal(t, chain.ErrCapacityExceeded, chain.KindOf(err))
	assert.Equal(t, chain.ErrUnauthorized, chain.KindOf(chain.ErrNotOwner))
	assert.Nil(t, chain.KindOf(errTest))
	roleErr := chain.MissingRoleError{
		Account: other,
		Role:    crypto.Keccak256Hash([]byte("ADMIN_ROLE")),
	}
	assert.ErrorIs(t, roleErr, chain.ErrUnauthorized)
	assert.Equal(
		t,
		"account "+other.Hex()+" is missing role "+roleErr.Role.Hex(),
		roleErr.Error(),
	)
}

func callCount(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "resi_chain_calls_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
