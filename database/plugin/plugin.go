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

package plugin

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type PluginType int

const (
	PluginTypeBlob PluginType = iota + 1
	PluginTypeMetadata
)

func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

type Plugin interface {
	Start() error
	Stop() error
}

// Config carries the shared settings handed to every storage plugin along
// with the plugin-specific options from the config file
type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	Options      map[string]any
	DataDir      string
}

type PluginEntry struct {
	NewFunc     func(Config) (Plugin, error)
	Name        string
	Description string
	Type        PluginType
}

var (
	pluginEntries []PluginEntry
	pluginMutex   sync.RWMutex
)

// Register adds a plugin entry. Registering the same type and name again replaces the entry.
func Register(pluginEntry PluginEntry) {
	pluginMutex.Lock()
	defer pluginMutex.Unlock()
	for i, p := range pluginEntries {
		if p.Type == pluginEntry.Type && p.Name == pluginEntry.Name {
			pluginEntries[i] = pluginEntry
			return
		}
	}
	pluginEntries = append(pluginEntries, pluginEntry)
}

// GetPlugins returns the registered plugins of the given type, sorted by name
func GetPlugins(pluginType PluginType) []PluginEntry {
	pluginMutex.RLock()
	defer pluginMutex.RUnlock()
	ret := []PluginEntry{}
	for _, p := range pluginEntries {
		if p.Type == pluginType {
			ret = append(ret, p)
		}
	}
	slices.SortFunc(ret, func(a, b PluginEntry) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return ret
}

func GetPlugin(pluginType PluginType, pluginName string) (PluginEntry, bool) {
	pluginMutex.RLock()
	defer pluginMutex.RUnlock()
	for _, p := range pluginEntries {
		if p.Type == pluginType && p.Name == pluginName {
			return p, true
		}
	}
	return PluginEntry{}, false
}

// StartPlugin creates a plugin from the registry and starts it
func StartPlugin(
	pluginType PluginType,
	pluginName string,
	cfg Config,
) (Plugin, error) {
	entry, ok := GetPlugin(pluginType, pluginName)
	if !ok {
		return nil, fmt.Errorf(
			"%s plugin '%s' not found",
			PluginTypeName(pluginType),
			pluginName,
		)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	p, err := entry.NewFunc(cfg)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to create %s plugin '%s': %w",
			PluginTypeName(pluginType),
			pluginName,
			err,
		)
	}
	if err := p.Start(); err != nil {
		return nil, fmt.Errorf(
			"failed to start %s plugin '%s': %w",
			PluginTypeName(pluginType),
			pluginName,
			err,
		)
	}
	return p, nil
}

// String returns a string option, or the default when unset
func (c Config) String(name string, def string) string {
	v, ok := c.Options[name]
	if !ok {
		return def
	}
	switch tmpVal := v.(type) {
	case string:
		return tmpVal
	case fmt.Stringer:
		return tmpVal.String()
	default:
		return fmt.Sprint(tmpVal)
	}
}

// Uint returns an unsigned option. Values from YAML may arrive as int or string.
func (c Config) Uint(name string, def uint64) (uint64, error) {
	v, ok := c.Options[name]
	if !ok {
		return def, nil
	}
	switch tmpVal := v.(type) {
	case int:
		if tmpVal < 0 {
			return 0, fmt.Errorf("option %s must not be negative", name)
		}
		return uint64(tmpVal), nil
	case uint64:
		return tmpVal, nil
	case string:
		ret, err := strconv.ParseUint(tmpVal, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid value for option %s: %w", name, err)
		}
		return ret, nil
	default:
		return 0, fmt.Errorf(
			"invalid type for option %s: expected unsigned integer, got %T",
			name,
			v,
		)
	}
}

func (c Config) Bool(name string, def bool) (bool, error) {
	v, ok := c.Options[name]
	if !ok {
		return def, nil
	}
	switch tmpVal := v.(type) {
	case bool:
		return tmpVal, nil
	case string:
		ret, err := strconv.ParseBool(tmpVal)
		if err != nil {
			return false, fmt.Errorf("invalid value for option %s: %w", name, err)
		}
		return ret, nil
	default:
		return false, fmt.Errorf(
			"invalid type for option %s: expected bool, got %T",
			name,
			v,
		)
	}
}
