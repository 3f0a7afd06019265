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
	"time"

	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/event"
	"github.com/ethereum/go-ethereum/common"
)

// Call is the context of a single call. Calls made by one component into
// another share the transaction, the clock reading and the event buffer
type Call struct {
	chain  *Chain
	ctx    context.Context
	txn    *database.Txn
	events *[]event.Event
	now    time.Time
	txID   string
	sender common.Address
	origin common.Address
}

func (c *Call) Context() context.Context {
	return c.ctx
}

// Sender returns the immediate caller
func (c *Call) Sender() common.Address {
	return c.sender
}

// Origin returns the account that submitted the call
func (c *Call) Origin() common.Address {
	return c.origin
}

// Now returns the clock reading taken when the call started
func (c *Call) Now() time.Time {
	return c.now
}

func (c *Call) TxID() string {
	return c.txID
}

func (c *Call) Txn() *database.Txn {
	return c.txn
}

func (c *Call) DB() *database.Database {
	return c.chain.db
}

func (c *Call) Chain() *Chain {
	return c.chain
}

// As returns a call made by the component at addr within the same transaction
func (c *Call) As(addr common.Address) *Call {
	tmpCall := *c
	tmpCall.sender = addr
	return &tmpCall
}

// Emit records an event. It is journaled and published only if the call commits
func (c *Call) Emit(contract common.Address, eventType event.EventType, data any) {
	*c.events = append(
		*c.events,
		event.Event{
			Type:      eventType,
			Timestamp: c.now,
			TxID:      c.txID,
			Contract:  contract,
			Data:      data,
		},
	)
}

// Deploy creates a component owned by the sender
func (c *Call) Deploy(kind Kind) (Component, error) {
	return c.chain.deploy(c, c.sender, kind)
}

// Lookup returns a handle to the component at addr
func (c *Call) Lookup(addr common.Address) (Component, error) {
	return c.chain.lookup(addr, c.txn)
}
