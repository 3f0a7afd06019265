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

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "resi.config"

const (
	DefaultShutdownTimeout = "30s"
	DefaultBlobPlugin      = "badger"
	DefaultMetadataPlugin  = "sqlite"
	DefaultSbtContractUri  = "localhost:3000"
)

// ErrPluginListRequested is returned when the user requests to list available plugins
// This is not an error condition but a successful operation that displays plugin information
var ErrPluginListRequested = errors.New("plugin list requested")

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// PostgresConfig holds the options for the postgres metadata plugin
type PostgresConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SslMode  string `yaml:"sslMode"  split_words:"true"`
	TimeZone string `yaml:"timeZone" split_words:"true"`
	Dsn      string `yaml:"dsn"`
	Port     uint   `yaml:"port"`
}

// BadgerConfig holds the options for the badger blob plugin
type BadgerConfig struct {
	BlockCacheSize uint64 `yaml:"blockCacheSize" split_words:"true"`
	IndexCacheSize uint64 `yaml:"indexCacheSize" split_words:"true"`
	Gc             *bool  `yaml:"gc"`
}

// RoleURIs maps role names to default badge URIs. In the environment it is
// written as comma separated role:uri pairs, split at the first colon so the
// URI may carry a scheme
type RoleURIs map[string]string

// Decode implements envconfig.Decoder
func (r *RoleURIs) Decode(value string) error {
	ret := RoleURIs{}
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			return fmt.Errorf("invalid role uri item: %q", pair)
		}
		ret[kv[0]] = kv[1]
	}
	*r = ret
	return nil
}

type Config struct {
	DefaultRoleUris RoleURIs       `yaml:"defaultRoleUris" split_words:"true"`
	Postgres        PostgresConfig `yaml:"postgres"`
	Badger          BadgerConfig   `yaml:"badger"`
	DatabasePath    string         `yaml:"databasePath"    split_words:"true"`
	BlobPlugin      string         `yaml:"blobPlugin"      envconfig:"DATABASE_BLOB_PLUGIN"`
	MetadataPlugin  string         `yaml:"metadataPlugin"  envconfig:"DATABASE_METADATA_PLUGIN"`
	BindAddr        string         `yaml:"bindAddr"        split_words:"true"`
	Account         string         `yaml:"account"`
	Treasury        string         `yaml:"treasury"`
	SbtName         string         `yaml:"sbtName"         split_words:"true"`
	SbtSymbol       string         `yaml:"sbtSymbol"       split_words:"true"`
	SbtContractUri  string         `yaml:"sbtContractUri"  split_words:"true"`
	ShutdownTimeout string         `yaml:"shutdownTimeout" split_words:"true"`
	ApiPort         uint           `yaml:"apiPort"         split_words:"true"`
	MetricsPort     uint           `yaml:"metricsPort"     split_words:"true"`
	Tracing         bool           `yaml:"tracing"`
	TracingStdout   bool           `yaml:"tracingStdout"   split_words:"true"`
}

func defaultConfig() *Config {
	return &Config{
		DatabasePath:    ".resi",
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		BindAddr:        "0.0.0.0",
		ApiPort:         8080,
		MetricsPort:     12798,
		SbtName:         "RESI Serie SBT",
		SbtSymbol:       "RESISBT",
		SbtContractUri:  DefaultSbtContractUri,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

var globalConfig = defaultConfig()

// LoadConfig builds the config from the defaults, the YAML file and then the
// RESI_ environment. An empty configFile falls back to ~/.resi/resi.yaml and
// /etc/resi/resi.yaml when they exist
func LoadConfig(configFile string) (*Config, error) {
	cfg := defaultConfig()
	if configFile == "" {
		// Check for config file in this path: ~/.resi/resi.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".resi", "resi.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		// Try to check for /etc/resi/resi.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/resi/resi.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	if err := envconfig.Process("resi", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

func GetConfig() *Config {
	return globalConfig
}

func (c *Config) validate() error {
	if _, err := c.ShutdownTimeoutDuration(); err != nil {
		return err
	}
	if c.BlobPlugin == "" {
		c.BlobPlugin = DefaultBlobPlugin
	}
	if c.MetadataPlugin == "" {
		c.MetadataPlugin = DefaultMetadataPlugin
	}
	return nil
}

// ShutdownTimeoutDuration parses the shutdown timeout
func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdownTimeout %q: %w", c.ShutdownTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid shutdownTimeout %q: must not be negative", c.ShutdownTimeout)
	}
	return d, nil
}

// BlobOptions returns the options passed to the blob plugin
func (c *Config) BlobOptions() map[string]any {
	ret := make(map[string]any)
	if c.Badger.BlockCacheSize > 0 {
		ret["block-cache-size"] = c.Badger.BlockCacheSize
	}
	if c.Badger.IndexCacheSize > 0 {
		ret["index-cache-size"] = c.Badger.IndexCacheSize
	}
	if c.Badger.Gc != nil {
		ret["gc"] = *c.Badger.Gc
	}
	return ret
}

// MetadataOptions returns the options passed to the metadata plugin
func (c *Config) MetadataOptions() map[string]any {
	ret := make(map[string]any)
	if c.MetadataPlugin != "postgres" {
		return ret
	}
	pg := c.Postgres
	for k, v := range map[string]string{
		"host":     pg.Host,
		"user":     pg.User,
		"password": pg.Password,
		"database": pg.Database,
		"ssl-mode": pg.SslMode,
		"timezone": pg.TimeZone,
		"dsn":      pg.Dsn,
	} {
		if v != "" {
			ret[k] = v
		}
	}
	if pg.Port > 0 {
		ret["port"] = uint64(pg.Port)
	}
	return ret
}
