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

package postgres

import (
	"github.com/blinklabs-io/resi/database/plugin"
)

// Register plugin
func init() {
	plugin.Register(
		plugin.PluginEntry{
			Type:        plugin.PluginTypeMetadata,
			Name:        "postgres",
			Description: "Postgres relational database",
			NewFunc:     NewFromConfig,
		},
	)
}

// NewFromConfig builds the store from the plugin options host, port, user,
// password, database, ssl-mode, timezone and dsn
func NewFromConfig(cfg plugin.Config) (plugin.Plugin, error) {
	port, err := cfg.Uint("port", 5432)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(
		WithLogger(cfg.Logger),
		WithPromRegistry(cfg.PromRegistry),
		WithHost(cfg.String("host", "localhost")),
		WithPort(uint(port)),
		WithUser(cfg.String("user", "postgres")),
		WithPassword(cfg.String("password", "")),
		WithDatabase(cfg.String("database", "postgres")),
		WithSSLMode(cfg.String("ssl-mode", "disable")),
		WithTimeZone(cfg.String("timezone", "UTC")),
		WithDSN(cfg.String("dsn", "")),
	)
}
