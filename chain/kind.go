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
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Kind identifies a component implementation
type Kind string

// Component is a handle to a deployed component. Handles hold no state of
// their own, so they can be created freely for any deployed address
type Component interface {
	Address() common.Address
	Kind() Kind
}

// Factory creates a component handle for a deployed address
type Factory func(c *Chain, addr common.Address) Component

var (
	kindFactories   = map[Kind]Factory{}
	kindFactoriesMu sync.RWMutex
)

// RegisterKind registers a component implementation. Component packages call
// this from init()
func RegisterKind(kind Kind, factory Factory) {
	kindFactoriesMu.Lock()
	defer kindFactoriesMu.Unlock()
	kindFactories[kind] = factory
}

// Kinds returns the registered component kinds in sorted order
func Kinds() []Kind {
	kindFactoriesMu.RLock()
	defer kindFactoriesMu.RUnlock()
	return slices.Sorted(maps.Keys(kindFactories))
}

func getFactory(kind Kind) (Factory, error) {
	kindFactoriesMu.RLock()
	defer kindFactoriesMu.RUnlock()
	factory, ok := kindFactories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return factory, nil
}

// Resolve looks up a component and asserts it to the requested type
func Resolve[T any](call *Call, addr common.Address) (T, error) {
	var ret T
	comp, err := call.Lookup(addr)
	if err != nil {
		return ret, err
	}
	ret, ok := comp.(T)
	if !ok {
		return ret, ErrWrongKind
	}
	return ret, nil
}
