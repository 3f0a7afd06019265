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
	"github.com/blinklabs-io/resi/chain"
	"github.com/spf13/cobra"
)

func registryCommands() []*cobra.Command {
	return []*cobra.Command{
		createSerieCommand(),
		closeSerieCommand(),
		registerSerieSBTCommand(),
		addProjectCommand(),
		disableProjectCommand(),
		setResiTokenCommand(),
		setTreasuryVaultCommand(),
	}
}

func createSerieCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-serie",
		Short: "Create Serie",
	}
	cmd.Flags().String("start-date", "", "start date (YYYY/MM/DD)")
	cmd.Flags().String("end-date", "", "end date (YYYY/MM/DD)")
	cmd.Flags().Uint64("projects", 0, "number of projects")
	cmd.Flags().String("max-supply", "", "max supply the serie could emit (value in ether)")
	cmd.Flags().String("vault", "", "address of the vault")
	requireFlags(cmd, "start-date", "end-date", "projects", "max-supply", "vault")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		start, err := flagDate(cmd, "start-date")
		if err != nil {
			return err
		}
		end, err := flagDate(cmd, "end-date")
		if err != nil {
			return err
		}
		maxSupply, err := flagEther(cmd, "max-supply")
		if err != nil {
			return err
		}
		vaultAddr, err := flagAddress(cmd, "vault")
		if err != nil {
			return err
		}
		projects, _ := cmd.Flags().GetUint64("projects")
		return s.submit(func(call *chain.Call) error {
			return reg.CreateSerie(call, start, end, projects, maxSupply, vaultAddr)
		})
	})
	return cmd
}

func closeSerieCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-serie",
		Short: "Finish Serie",
	}
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		return s.submit(reg.CloseSerie)
	})
	return cmd
}

func registerSerieSBTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-serie-sbt",
		Short: "Register Serie SBT",
	}
	cmd.Flags().String("sbt", "", "badge address")
	requireFlags(cmd, "sbt")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		sbt, err := flagAddress(cmd, "sbt")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return reg.RegisterSerieSBT(call, sbt)
		})
	})
	return cmd
}

func addProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-project",
		Short: "Register a project in the active serie",
	}
	cmd.Flags().String("name", "", "project name")
	requireFlags(cmd, "name")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		name, err := flagName(cmd, "name")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return reg.AddProject(call, name)
		})
	})
	return cmd
}

func disableProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disable-project",
		Short: "Disable project",
	}
	cmd.Flags().String("name", "", "project name")
	requireFlags(cmd, "name")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		name, err := flagName(cmd, "name")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return reg.DisableProject(call, name)
		})
	})
	return cmd
}

func setResiTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-resi-token",
		Short: "Set Resi Token",
	}
	cmd.Flags().String("resi-token", "", "reputation token address")
	requireFlags(cmd, "resi-token")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		tokenAddr, err := flagAddress(cmd, "resi-token")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return reg.SetResiToken(call, tokenAddr)
		})
	})
	return cmd
}

func setTreasuryVaultCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-treasury-vault",
		Short: "Set Treasury vault",
	}
	cmd.Flags().String("treasury-vault", "", "treasury vault address")
	requireFlags(cmd, "treasury-vault")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		vaultAddr, err := flagAddress(cmd, "treasury-vault")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return reg.SetTreasuryVault(call, vaultAddr)
		})
	})
	return cmd
}
