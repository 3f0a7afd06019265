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

package plugin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/resi/database/plugin"
)

type mockPlugin struct {
	started  bool
	startErr error
}

func (m *mockPlugin) Start() error {
	m.started = true
	return m.startErr
}

func (m *mockPlugin) Stop() error { return nil }

func TestRegister(t *testing.T) {
	pluginName := "test-plugin-" + t.Name()
	plugin.Register(plugin.PluginEntry{
		Type: plugin.PluginTypeBlob,
		Name: pluginName,
		NewFunc: func(plugin.Config) (plugin.Plugin, error) {
			return &mockPlugin{}, nil
		},
	})
	_, ok := plugin.GetPlugin(plugin.PluginTypeBlob, pluginName)
	require.True(t, ok)
	_, ok = plugin.GetPlugin(plugin.PluginTypeMetadata, pluginName)
	assert.False(t, ok)
	found := false
	for _, p := range plugin.GetPlugins(plugin.PluginTypeBlob) {
		if p.Name == pluginName {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStartPlugin(t *testing.T) {
	pluginName := "start-" + t.Name()
	var seen plugin.Config
	plugin.Register(plugin.PluginEntry{
		Type: plugin.PluginTypeMetadata,
		Name: pluginName,
		NewFunc: func(cfg plugin.Config) (plugin.Plugin, error) {
			seen = cfg
			return &mockPlugin{}, nil
		},
	})
	p, err := plugin.StartPlugin(
		plugin.PluginTypeMetadata,
		pluginName,
		plugin.Config{DataDir: "/tmp/x"},
	)
	require.NoError(t, err)
	mp, ok := p.(*mockPlugin)
	require.True(t, ok)
	assert.True(t, mp.started)
	assert.Equal(t, "/tmp/x", seen.DataDir)
	assert.NotNil(t, seen.Logger)

	_, err = plugin.StartPlugin(plugin.PluginTypeMetadata, "missing", plugin.Config{})
	require.ErrorContains(t, err, "metadata plugin 'missing' not found")
}

func TestStartPluginError(t *testing.T) {
	pluginName := "fail-" + t.Name()
	startErr := errors.New("boom")
	plugin.Register(plugin.PluginEntry{
		Type: plugin.PluginTypeBlob,
		Name: pluginName,
		NewFunc: func(plugin.Config) (plugin.Plugin, error) {
			return &mockPlugin{startErr: startErr}, nil
		},
	})
	_, err := plugin.StartPlugin(plugin.PluginTypeBlob, pluginName, plugin.Config{})
	require.ErrorIs(t, err, startErr)
}

func TestConfigOptions(t *testing.T) {
	cfg := plugin.Config{
		Options: map[string]any{
			"host": "db.local",
			"port": 5433,
			"gc":   "false",
			"bad":  []string{"x"},
		},
	}
	assert.Equal(t, "db.local", cfg.String("host", "localhost"))
	assert.Equal(t, "fallback", cfg.String("missing", "fallback"))
	port, err := cfg.Uint("port", 5432)
	require.NoError(t, err)
	assert.Equal(t, uint64(5433), port)
	gc, err := cfg.Bool("gc", true)
	require.NoError(t, err)
	assert.False(t, gc)
	_, err = cfg.Uint("bad", 0)
	require.Error(t, err)
}
