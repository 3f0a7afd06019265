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

package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/database/models"
	"github.com/blinklabs-io/resi/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/blinklabs-io/resi/chain"

type Config struct {
	Database     *database.Database
	EventBus     *event.EventBus
	Clock        clockwork.Clock
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
}

// Receipt describes a committed call
type Receipt struct {
	TxID      string
	Timestamp time.Time
	Events    []event.Event
}

// Chain is the consistency domain shared by all components. Mutating calls
// are serialized and each runs in a single coordinated transaction
type Chain struct {
	db       *database.Database
	eventBus *event.EventBus
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *chainMetrics
	mutex    sync.RWMutex
}

func New(cfg Config) (*Chain, error) {
	if cfg.Database == nil {
		return nil, errors.New("no database provided")
	}
	c := &Chain{
		db:       cfg.Database,
		eventBus: cfg.EventBus,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
	}
	if c.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("component", "chain")
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if cfg.PromRegistry != nil {
		c.initMetrics(cfg.PromRegistry)
		seq, err := c.db.LastEventSeq(nil)
		if err != nil {
			return nil, fmt.Errorf("load event sequence: %w", err)
		}
		c.metrics.eventSeq.Set(float64(seq))
	}
	return c, nil
}

func (c *Chain) Database() *database.Database {
	return c.db
}

func (c *Chain) EventBus() *event.EventBus {
	return c.eventBus
}

func (c *Chain) Clock() clockwork.Clock {
	return c.clock
}

// Submit runs fn as a single mutating call from sender. All state changes
// made by fn and by the components it calls are committed together, and its
// events are journaled and then published. When fn fails nothing is applied
func (c *Chain) Submit(
	ctx context.Context,
	sender common.Address,
	fn func(*Call) error,
) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "chain.Submit")
	defer span.End()
	start := time.Now()
	receipt, err := c.submitLocked(ctx, sender, fn)
	if c.metrics != nil {
		c.metrics.calls.WithLabelValues(resultLabel(err)).Inc()
		c.metrics.callDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug(
			"call failed",
			"sender", sender.Hex(),
			"error", err,
		)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("resi.tx_id", receipt.TxID),
		attribute.Int("resi.events", len(receipt.Events)),
	)
	// Events are only visible once the call has committed
	if c.eventBus != nil {
		for _, evt := range receipt.Events {
			c.eventBus.Publish(evt)
		}
	}
	return receipt, nil
}

func (c *Chain) submitLocked(
	ctx context.Context,
	sender common.Address,
	fn func(*Call) error,
) (*Receipt, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.submit(ctx, sender, fn)
}

func (c *Chain) submit(
	ctx context.Context,
	sender common.Address,
	fn func(*Call) error,
) (*Receipt, error) {
	call := c.newCall(ctx, sender, true)
	defer func() {
		// A panicking call must not leave the transaction open
		if r := recover(); r != nil {
			if err := call.txn.Rollback(); err != nil {
				c.logger.Error("rollback after panic failed", "error", err)
			}
			panic(r)
		}
	}()
	receipt := &Receipt{
		TxID:      call.txID,
		Timestamp: call.now,
	}
	err := call.txn.Do(func(txn *database.Txn) error {
		if err := fn(call); err != nil {
			return err
		}
		records := make([]database.EventRecord, 0, len(*call.events))
		for _, evt := range *call.events {
			data, err := json.Marshal(evt.Data)
			if err != nil {
				return fmt.Errorf("encode %s event: %w", evt.Type, err)
			}
			records = append(
				records,
				database.EventRecord{
					TxID:      evt.TxID,
					Type:      string(evt.Type),
					Contract:  evt.Contract,
					Timestamp: evt.Timestamp.UnixMilli(),
					Data:      data,
				},
			)
		}
		if err := c.db.AppendEvents(records, txn); err != nil {
			return fmt.Errorf("journal events: %w", err)
		}
		for i := range records {
			(*call.events)[i].Seq = records[i].Seq
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	receipt.Events = *call.events
	if c.metrics != nil && len(receipt.Events) > 0 {
		c.metrics.eventSeq.Set(
			float64(receipt.Events[len(receipt.Events)-1].Seq),
		)
	}
	c.logger.Debug(
		"call committed",
		"sender", sender.Hex(),
		"tx_id", receipt.TxID,
		"events", len(receipt.Events),
	)
	return receipt, nil
}

// Query runs fn against a read-only view of the state. Queries may run
// concurrently with each other but never with a mutating call. Events
// emitted by fn are discarded
func (c *Chain) Query(ctx context.Context, fn func(*Call) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	call := c.newCall(ctx, common.Address{}, false)
	defer call.txn.Release()
	return fn(call)
}

// Events returns journaled events starting at sequence from
func (c *Chain) Events(from uint64, limit int) ([]database.EventRecord, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.db.GetEvents(from, limit, nil)
}

func (c *Chain) newCall(
	ctx context.Context,
	sender common.Address,
	readWrite bool,
) *Call {
	events := make([]event.Event, 0)
	return &Call{
		chain:  c,
		ctx:    ctx,
		txn:    c.db.Transaction(readWrite),
		sender: sender,
		origin: sender,
		now:    c.clock.Now(),
		txID:   uuid.NewString(),
		events: &events,
	}
}

// deploy creates a new component of the given kind owned by deployer. The
// address is derived from the deployer address and its nonce
func (c *Chain) deploy(
	call *Call,
	deployer common.Address,
	kind Kind,
) (Component, error) {
	factory, err := getFactory(kind)
	if err != nil {
		return nil, err
	}
	nonce, err := c.db.NextNonce(deployer, call.txn)
	if err != nil {
		return nil, err
	}
	addr := crypto.CreateAddress(deployer, nonce)
	contract := &models.Contract{
		Address:   addr.Bytes(),
		Deployer:  deployer.Bytes(),
		Kind:      string(kind),
		Nonce:     nonce,
		CreatedAt: call.now.Unix(),
	}
	if err := c.db.AddContract(contract, call.txn); err != nil {
		return nil, fmt.Errorf("record contract: %w", err)
	}
	c.logger.Info(
		"deployed component",
		"kind", kind,
		"address", addr.Hex(),
		"deployer", deployer.Hex(),
	)
	return factory(c, addr), nil
}

func (c *Chain) lookup(addr common.Address, txn *database.Txn) (Component, error) {
	contract, err := c.db.GetContract(addr, txn)
	if err != nil {
		if errors.Is(err, models.ErrContractNotFound) {
			return nil, ErrNoComponent
		}
		return nil, err
	}
	factory, err := getFactory(Kind(contract.Kind))
	if err != nil {
		return nil, err
	}
	return factory(c, addr), nil
}

// Contracts lists deployed components, optionally filtered by kind
func (c *Chain) Contracts(ctx context.Context, kind Kind) ([]models.Contract, error) {
	var ret []models.Contract
	err := c.Query(ctx, func(call *Call) error {
		var err error
		ret, err = c.db.GetContracts(string(kind), call.txn)
		return err
	})
	return ret, err
}
