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

package badger

import (
	"github.com/blinklabs-io/resi/database/plugin"
)

const (
	DefaultBlockCacheSize = 268435456 // 256MB
	DefaultIndexCacheSize = 67108864  // 64MB
)

func init() {
	plugin.Register(
		plugin.PluginEntry{
			Type:        plugin.PluginTypeBlob,
			Name:        "badger",
			Description: "BadgerDB local key-value store",
			NewFunc:     NewFromConfig,
		},
	)
}

// NewFromConfig builds the store from the shared plugin config. Recognized
// options are block-cache-size, index-cache-size and gc.
func NewFromConfig(cfg plugin.Config) (plugin.Plugin, error) {
	blockCacheSize, err := cfg.Uint("block-cache-size", DefaultBlockCacheSize)
	if err != nil {
		return nil, err
	}
	indexCacheSize, err := cfg.Uint("index-cache-size", DefaultIndexCacheSize)
	if err != nil {
		return nil, err
	}
	gcEnabled, err := cfg.Bool("gc", true)
	if err != nil {
		return nil, err
	}
	return New(
		WithDataDir(cfg.DataDir),
		WithLogger(cfg.Logger),
		WithPromRegistry(cfg.PromRegistry),
		WithBlockCacheSize(blockCacheSize),
		WithIndexCacheSize(indexCacheSize),
		WithGc(gcEnabled),
	)
}
