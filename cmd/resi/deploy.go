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
	"errors"

	"github.com/blinklabs-io/resi"
	"github.com/blinklabs-io/resi/badge"
	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/types"
	"github.com/blinklabs-io/resi/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

type deployedOutput struct {
	Address common.Address `json:"address"`
	Kind    chain.Kind     `json:"kind"`
}

func deployCommands() []*cobra.Command {
	return []*cobra.Command{
		deployCommand(),
		deployAssetCommand(),
		deployVaultCommand(),
		deploySBTCommand(),
		launchSerieCommand(),
	}
}

func deployCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the registry and the reputation token",
	}
	cmd.Flags().String("treasury", "", "treasury address, defaults to the configured treasury")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		sender, err := s.sender()
		if err != nil {
			return err
		}
		treasuryStr, _ := cmd.Flags().GetString("treasury")
		if treasuryStr == "" {
			treasuryStr = s.cfg.Treasury
		}
		if treasuryStr == "" {
			return errors.New("no treasury: use --treasury or set treasury in the config")
		}
		treasury, err := types.ParseAddress(treasuryStr)
		if err != nil {
			return err
		}
		receipt, err := s.platform.Bootstrap(s.ctx, sender, treasury)
		if err != nil {
			return err
		}
		return s.print(receiptOutput(receipt))
	})
	return cmd
}

func deployAssetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy-asset",
		Short: "Deploy a ledger asset and mint its supply to the sender",
	}
	cmd.Flags().String("name", "", "asset name")
	cmd.Flags().String("symbol", "", "asset symbol")
	cmd.Flags().String("supply", "0", "initial supply (value in ether)")
	requireFlags(cmd, "name", "symbol")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		sender, err := s.sender()
		if err != nil {
			return err
		}
		supply, err := flagEther(cmd, "supply")
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		symbol, _ := cmd.Flags().GetString("symbol")
		addr, err := s.platform.DeployAsset(s.ctx, sender, name, symbol, supply)
		if err != nil {
			return err
		}
		return s.print(deployedOutput{Address: addr, Kind: "asset"})
	})
	return cmd
}

func deployVaultCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy-vault",
		Short: "Deploy a vault for a serie",
	}
	cmd.Flags().Uint64("serie-id", 0, "serie the vault pays out for")
	cmd.Flags().String("asset", "", "primary asset address")
	requireFlags(cmd, "serie-id", "asset")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		tok, err := s.token()
		if err != nil {
			return err
		}
		primary, err := flagAddress(cmd, "asset")
		if err != nil {
			return err
		}
		serieID, _ := cmd.Flags().GetUint64("serie-id")
		var out deployedOutput
		_, err = s.submitQuiet(func(call *chain.Call) error {
			comp, err := call.Deploy(vault.Kind)
			if err != nil {
				return err
			}
			v := comp.(*vault.Vault)
			out = deployedOutput{Address: v.Address(), Kind: vault.Kind}
			return v.Initialize(call, serieID, tok.Address(), primary, reg.Address())
		})
		if err != nil {
			return err
		}
		return s.print(out)
	})
	return cmd
}

func deploySBTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy-sbt",
		Short: "Deploy a badge contract for a serie",
	}
	cmd.Flags().String("name", "", "badge name, defaults to the configured sbtName")
	cmd.Flags().String("symbol", "", "badge symbol, defaults to the configured sbtSymbol")
	cmd.Flags().String("contract-uri", "", "contract URI, defaults to the configured sbtContractUri")
	cmd.Flags().Uint64("serie-id", 0, "serie the badge belongs to")
	requireFlags(cmd, "serie-id")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		tok, err := s.token()
		if err != nil {
			return err
		}
		name, symbol, contractURI := s.badgeMetadata(cmd)
		serieID, _ := cmd.Flags().GetUint64("serie-id")
		var out deployedOutput
		_, err = s.submitQuiet(func(call *chain.Call) error {
			comp, err := call.Deploy(badge.Kind)
			if err != nil {
				return err
			}
			sbt := comp.(*badge.SBT)
			out = deployedOutput{Address: sbt.Address(), Kind: badge.Kind}
			return sbt.Initialize(
				call,
				name,
				symbol,
				contractURI,
				serieID,
				reg.Address(),
				tok.Address(),
			)
		})
		if err != nil {
			return err
		}
		return s.print(out)
	})
	return cmd
}

func launchSerieCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch-serie",
		Short: "Deploy a vault and a badge and open the next serie with them",
	}
	cmd.Flags().String("start-date", "", "start date (YYYY/MM/DD)")
	cmd.Flags().String("end-date", "", "end date (YYYY/MM/DD)")
	cmd.Flags().Uint64("projects", 0, "number of projects")
	cmd.Flags().String("max-supply", "", "max supply the serie could emit (value in ether)")
	cmd.Flags().String("asset", "", "primary asset address for exits")
	cmd.Flags().StringSlice("project", nil, "project name to register, may be repeated")
	cmd.Flags().String("name", "", "badge name, defaults to the configured sbtName")
	cmd.Flags().String("symbol", "", "badge symbol, defaults to the configured sbtSymbol")
	cmd.Flags().String("contract-uri", "", "contract URI, defaults to the configured sbtContractUri")
	requireFlags(cmd, "start-date", "end-date", "projects", "max-supply", "asset")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		sender, err := s.sender()
		if err != nil {
			return err
		}
		params := resi.SerieParams{}
		if params.Start, err = flagDate(cmd, "start-date"); err != nil {
			return err
		}
		if params.End, err = flagDate(cmd, "end-date"); err != nil {
			return err
		}
		if params.MaxSupply, err = flagEther(cmd, "max-supply"); err != nil {
			return err
		}
		if params.PrimaryAsset, err = flagAddress(cmd, "asset"); err != nil {
			return err
		}
		params.NumberOfProjects, _ = cmd.Flags().GetUint64("projects")
		projects, _ := cmd.Flags().GetStringSlice("project")
		for _, project := range projects {
			name, err := types.NameFromString(project)
			if err != nil {
				return err
			}
			params.Projects = append(params.Projects, name)
		}
		params.BadgeName, params.BadgeSymbol, params.ContractURI = s.badgeMetadata(cmd)
		if params.RoleURIs, err = s.defaultRoleURIs(); err != nil {
			return err
		}
		launched, err := s.platform.LaunchSerie(s.ctx, sender, params)
		if err != nil {
			return err
		}
		return s.print(launched)
	})
	return cmd
}

// badgeMetadata returns the badge name, symbol and contract URI from the
// flags, falling back to the config
func (s *session) badgeMetadata(cmd *cobra.Command) (string, string, string) {
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = s.cfg.SbtName
	}
	symbol, _ := cmd.Flags().GetString("symbol")
	if symbol == "" {
		symbol = s.cfg.SbtSymbol
	}
	contractURI, _ := cmd.Flags().GetString("contract-uri")
	if contractURI == "" {
		contractURI = s.cfg.SbtContractUri
	}
	return name, symbol, contractURI
}

func (s *session) defaultRoleURIs() (map[types.Role]string, error) {
	ret := make(map[types.Role]string, len(s.cfg.DefaultRoleUris))
	for name, uri := range s.cfg.DefaultRoleUris {
		role, err := types.ParseRole(name)
		if err != nil {
			return nil, err
		}
		ret[role] = uri
	}
	return ret, nil
}
