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

package resi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/resi/asset"
	"github.com/blinklabs-io/resi/badge"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/database"
	"github.com/blinklabs-io/resi/event"
	"github.com/blinklabs-io/resi/registry"
	"github.com/blinklabs-io/resi/token"
	"github.com/blinklabs-io/resi/types"
	"github.com/blinklabs-io/resi/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	ErrNotBootstrapped     = errors.New("platform has not been bootstrapped")
	ErrAlreadyBootstrapped = errors.New("platform is already bootstrapped")
	ErrShutdown            = errors.New("platform is shut down")
	// Badges minted on award fall back to the contract URI
	ErrEmptyContractURI = chain.NewError(chain.ErrInvalidArgument, "empty contract uri")
)

// SerieParams describes a serie to launch
type SerieParams struct {
	Start            time.Time
	End              time.Time
	MaxSupply        *uint256.Int
	RoleURIs         map[types.Role]string
	BadgeName        string
	BadgeSymbol      string
	ContractURI      string
	Projects         []types.Name
	NumberOfProjects uint64
	PrimaryAsset     common.Address
}

// LaunchedSerie holds the addresses created for a serie
type LaunchedSerie struct {
	ID    uint64         `json:"serieId"`
	Vault common.Address `json:"vault"`
	Badge common.Address `json:"badge"`
}

// Platform owns the storage, the event bus and the chain, and keeps handles
// to the registry and the reputation token once they exist
type Platform struct {
	config        Config
	db            *database.Database
	eventBus      *event.EventBus
	chain         *chain.Chain
	registry      *registry.Registry
	token         *token.Token
	shutdownFuncs []func(context.Context) error
	mutex         sync.RWMutex
	shutdownOnce  sync.Once
}

// New opens the database and builds the chain. Component handles are loaded
// with Open or created with Bootstrap
func New(cfg Config) (*Platform, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.shutdownTimeout == 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	p := &Platform{
		config:   cfg,
		eventBus: event.NewEventBus(cfg.promRegistry, cfg.logger),
	}
	if cfg.tracing {
		if err := p.setupTracing(); err != nil {
			return nil, err
		}
	}
	db, err := database.New(&database.Config{
		DataDir:         cfg.dataDir,
		Logger:          cfg.logger,
		PromRegistry:    cfg.promRegistry,
		BlobPlugin:      cfg.blobPlugin,
		BlobOptions:     cfg.blobOptions,
		MetadataPlugin:  cfg.metadataPlugin,
		MetadataOptions: cfg.metadataOptions,
	})
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) || db == nil {
			p.runShutdownFuncs(context.Background())
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// Both stores are written in the same call, so a mismatch means the
		// process died between the two commits
		cfg.logger.Warn(
			"database commit timestamps differ",
			"error", err,
		)
	}
	p.db = db
	c, err := chain.New(chain.Config{
		Database:     db,
		EventBus:     p.eventBus,
		Clock:        cfg.clock,
		Logger:       cfg.logger,
		PromRegistry: cfg.promRegistry,
	})
	if err != nil {
		_ = db.Close()
		p.runShutdownFuncs(context.Background())
		return nil, fmt.Errorf("failed to load chain: %w", err)
	}
	p.chain = c
	return p, nil
}

func (p *Platform) Chain() *chain.Chain {
	return p.chain
}

func (p *Platform) EventBus() *event.EventBus {
	return p.eventBus
}

// Registry returns the registry handle, or nil before Open or Bootstrap
func (p *Platform) Registry() *registry.Registry {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.registry
}

// Token returns the reputation token handle, or nil before Open or Bootstrap
func (p *Platform) Token() *token.Token {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.token
}

// Open reloads the registry and token handles from the contract directory.
// The first registry deployed is the platform registry
func (p *Platform) Open(ctx context.Context) error {
	contracts, err := p.chain.Contracts(ctx, registry.Kind)
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		return ErrNotBootstrapped
	}
	regAddr := common.BytesToAddress(contracts[0].Address)
	var reg *registry.Registry
	var tok *token.Token
	err = p.chain.Query(ctx, func(call *chain.Call) error {
		var err error
		reg, err = chain.Resolve[*registry.Registry](call, regAddr)
		if err != nil {
			return err
		}
		tokenAddr, err := reg.ResiToken(call)
		if err != nil {
			return err
		}
		if tokenAddr == (common.Address{}) {
			return ErrNotBootstrapped
		}
		tok, err = chain.Resolve[*token.Token](call, tokenAddr)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load components: %w", err)
	}
	p.mutex.Lock()
	p.registry = reg
	p.token = tok
	p.mutex.Unlock()
	p.config.logger.Info(
		"loaded platform",
		"component", "platform",
		"registry", reg.Address().Hex(),
		"token", tok.Address().Hex(),
	)
	return nil
}

// Bootstrap deploys and initializes the registry and the reputation token,
// then binds the token to the registry. The deployer owns the registry and
// is the token admin. treasury is granted the treasury role
func (p *Platform) Bootstrap(
	ctx context.Context,
	deployer common.Address,
	treasury common.Address,
) (*chain.Receipt, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.registry != nil {
		return nil, ErrAlreadyBootstrapped
	}
	var reg *registry.Registry
	var tok *token.Token
	receipt, err := p.chain.Submit(ctx, deployer, func(call *chain.Call) error {
		var err error
		reg, err = deploy[*registry.Registry](call, registry.Kind)
		if err != nil {
			return err
		}
		if err := reg.Initialize(call); err != nil {
			return fmt.Errorf("initialize registry: %w", err)
		}
		tok, err = deploy[*token.Token](call, token.Kind)
		if err != nil {
			return err
		}
		if err := tok.Initialize(call, treasury, reg.Address()); err != nil {
			return fmt.Errorf("initialize token: %w", err)
		}
		if err := reg.SetResiToken(call, tok.Address()); err != nil {
			return fmt.Errorf("bind token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.registry = reg
	p.token = tok
	p.config.logger.Info(
		"bootstrapped platform",
		"component", "platform",
		"registry", reg.Address().Hex(),
		"token", tok.Address().Hex(),
		"treasury", treasury.Hex(),
	)
	return receipt, nil
}

// DeployAsset deploys a ledger asset and mints its initial supply to the deployer
func (p *Platform) DeployAsset(
	ctx context.Context,
	deployer common.Address,
	name string,
	symbol string,
	initialSupply *uint256.Int,
) (common.Address, error) {
	var addr common.Address
	_, err := p.chain.Submit(ctx, deployer, func(call *chain.Call) error {
		ledger, err := deploy[*asset.Ledger](call, asset.Kind)
		if err != nil {
			return err
		}
		addr = ledger.Address()
		return ledger.Initialize(call, name, symbol, types.Decimals, initialSupply)
	})
	if err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// LaunchSerie opens the next serie in one call. It deploys the vault bound to
// the next serie id, creates the serie and its projects, then deploys the
// badge, registers it and sets any default role URIs. admin must own the registry
func (p *Platform) LaunchSerie(
	ctx context.Context,
	admin common.Address,
	params SerieParams,
) (LaunchedSerie, error) {
	reg, tok := p.Registry(), p.Token()
	if reg == nil || tok == nil {
		return LaunchedSerie{}, ErrNotBootstrapped
	}
	if params.ContractURI == "" {
		return LaunchedSerie{}, ErrEmptyContractURI
	}
	var ret LaunchedSerie
	_, err := p.chain.Submit(ctx, admin, func(call *chain.Call) error {
		current, err := reg.ActiveSerie(call)
		if err != nil {
			return err
		}
		ret.ID = current + 1
		v, err := deploy[*vault.Vault](call, vault.Kind)
		if err != nil {
			return err
		}
		ret.Vault = v.Address()
		err = v.Initialize(
			call,
			ret.ID,
			tok.Address(),
			params.PrimaryAsset,
			reg.Address(),
		)
		if err != nil {
			return fmt.Errorf("initialize vault: %w", err)
		}
		err = reg.CreateSerie(
			call,
			params.Start,
			params.End,
			params.NumberOfProjects,
			params.MaxSupply,
			v.Address(),
		)
		if err != nil {
			return fmt.Errorf("create serie: %w", err)
		}
		if len(params.Projects) > 0 {
			if err := reg.AddProjects(call, params.Projects); err != nil {
				return fmt.Errorf("add projects: %w", err)
			}
		}
		sbt, err := deploy[*badge.SBT](call, badge.Kind)
		if err != nil {
			return err
		}
		ret.Badge = sbt.Address()
		err = sbt.Initialize(
			call,
			params.BadgeName,
			params.BadgeSymbol,
			params.ContractURI,
			ret.ID,
			reg.Address(),
			tok.Address(),
		)
		if err != nil {
			return fmt.Errorf("initialize badge: %w", err)
		}
		if err := reg.RegisterSerieSBT(call, sbt.Address()); err != nil {
			return fmt.Errorf("register badge: %w", err)
		}
		for _, role := range types.BusinessRoles() {
			uri, ok := params.RoleURIs[role]
			if !ok {
				continue
			}
			if err := sbt.SetDefaultRoleURI(call, role, uri); err != nil {
				return fmt.Errorf("set default uri for %s: %w", role, err)
			}
		}
		return nil
	})
	if err != nil {
		return LaunchedSerie{}, err
	}
	p.config.logger.Info(
		"launched serie",
		"component", "platform",
		"serie", ret.ID,
		"vault", ret.Vault.Hex(),
		"badge", ret.Badge.Hex(),
	)
	return ret, nil
}

// Shutdown stops the event bus, closes the database and flushes tracing.
// It is safe to call more than once
func (p *Platform) Shutdown() error {
	var err error
	p.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			p.config.shutdownTimeout,
		)
		defer cancel()
		p.config.logger.Debug("shutting down platform")
		if p.eventBus != nil {
			p.eventBus.Stop()
		}
		if p.db != nil {
			if closeErr := p.db.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
			}
		}
		err = errors.Join(err, p.runShutdownFuncs(ctx))
	})
	return err
}

func (p *Platform) runShutdownFuncs(ctx context.Context) error {
	var err error
	for _, fn := range p.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	p.shutdownFuncs = nil
	return err
}

func deploy[T chain.Component](call *chain.Call, kind chain.Kind) (T, error) {
	var zero T
	comp, err := call.Deploy(kind)
	if err != nil {
		return zero, fmt.Errorf("deploy %s: %w", kind, err)
	}
	ret, ok := comp.(T)
	if !ok {
		return zero, fmt.Errorf("deploy %s: %w", kind, chain.ErrWrongKind)
	}
	return ret, nil
}
