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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/blinklabs-io/resi"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/internal/config"
	"github.com/blinklabs-io/resi/internal/node"
	"github.com/blinklabs-io/resi/registry"
	"github.com/blinklabs-io/resi/token"
	"github.com/blinklabs-io/resi/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

const dateLayout = "2006/01/02"

var errNoSender = errors.New("no sender: use --from or set account in the config")

// session is an open platform for the duration of one command
type session struct {
	ctx      context.Context
	cfg      *config.Config
	logger   *slog.Logger
	platform *resi.Platform
	out      io.Writer
}

// withSession wraps a command body with opening and closing the platform
func withSession(fn func(*session, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if cfg == nil {
			return errors.New("no config found in context")
		}
		logger := commonRun()
		p, err := node.OpenPlatform(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		s := &session{
			ctx:      cmd.Context(),
			cfg:      cfg,
			logger:   logger,
			platform: p,
			out:      cmd.OutOrStdout(),
		}
		err = fn(s, args)
		if closeErr := p.Shutdown(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return err
	}
}

func (s *session) sender() (common.Address, error) {
	if s.cfg.Account == "" {
		return common.Address{}, errNoSender
	}
	return types.ParseAddress(s.cfg.Account)
}

func (s *session) registry() (*registry.Registry, error) {
	reg := s.platform.Registry()
	if reg == nil {
		return nil, resi.ErrNotBootstrapped
	}
	return reg, nil
}

func (s *session) token() (*token.Token, error) {
	tok := s.platform.Token()
	if tok == nil {
		return nil, resi.ErrNotBootstrapped
	}
	return tok, nil
}

// submit runs fn as a call from the sender and prints the receipt
func (s *session) submit(fn func(*chain.Call) error) error {
	receipt, err := s.submitQuiet(fn)
	if err != nil {
		return err
	}
	return s.print(receiptOutput(receipt))
}

func (s *session) submitQuiet(fn func(*chain.Call) error) (*chain.Receipt, error) {
	sender, err := s.sender()
	if err != nil {
		return nil, err
	}
	return s.platform.Chain().Submit(s.ctx, sender, fn)
}

func (s *session) query(fn func(*chain.Call) error) error {
	return s.platform.Chain().Query(s.ctx, fn)
}

func (s *session) print(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type eventOutput struct {
	Data     any    `json:"data"`
	Type     string `json:"type"`
	Contract string `json:"contract"`
	Seq      uint64 `json:"seq"`
}

type receiptJSON struct {
	Timestamp time.Time     `json:"timestamp"`
	TxID      string        `json:"txId"`
	Events    []eventOutput `json:"events"`
}

func receiptOutput(receipt *chain.Receipt) receiptJSON {
	ret := receiptJSON{
		TxID:      receipt.TxID,
		Timestamp: receipt.Timestamp,
		Events:    make([]eventOutput, 0, len(receipt.Events)),
	}
	for _, evt := range receipt.Events {
		ret.Events = append(ret.Events, eventOutput{
			Seq:      evt.Seq,
			Type:     string(evt.Type),
			Contract: evt.Contract.Hex(),
			Data:     evt.Data,
		})
	}
	return ret
}

// Flag value parsers

func flagAddress(cmd *cobra.Command, name string) (common.Address, error) {
	v, _ := cmd.Flags().GetString(name)
	addr, err := types.ParseAddress(v)
	if err != nil {
		return common.Address{}, fmt.Errorf("--%s: %w", name, err)
	}
	return addr, nil
}

func flagAddresses(cmd *cobra.Command, name string) ([]common.Address, error) {
	v, _ := cmd.Flags().GetString(name)
	var ret []common.Address
	for _, item := range strings.Split(v, ",") {
		addr, err := types.ParseAddress(item)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		ret = append(ret, addr)
	}
	return ret, nil
}

func flagRole(cmd *cobra.Command, name string) (types.Role, error) {
	v, _ := cmd.Flags().GetString(name)
	role, err := types.ParseRole(v)
	if err != nil {
		return types.Role{}, fmt.Errorf("--%s: %w", name, err)
	}
	return role, nil
}

func flagName(cmd *cobra.Command, name string) (types.Name, error) {
	v, _ := cmd.Flags().GetString(name)
	ret, err := types.NameFromString(v)
	if err != nil {
		return types.Name{}, fmt.Errorf("--%s: %w", name, err)
	}
	return ret, nil
}

// flagWei parses an integer amount in base units
func flagWei(cmd *cobra.Command, name string) (*uint256.Int, error) {
	v, _ := cmd.Flags().GetString(name)
	ret, err := uint256.FromDecimal(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("--%s: invalid amount %q: %w", name, v, err)
	}
	return ret, nil
}

// flagEther parses a decimal amount in whole units
func flagEther(cmd *cobra.Command, name string) (*uint256.Int, error) {
	v, _ := cmd.Flags().GetString(name)
	ret, err := types.ParseAmount(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return ret, nil
}

// flagDate parses a YYYY/MM/DD date as midnight UTC
func flagDate(cmd *cobra.Command, name string) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	ret, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY/MM/DD: %w", name, err)
	}
	return ret, nil
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}
