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
	"github.com/blinklabs-io/resi/registry"
	"github.com/blinklabs-io/resi/token"
	"github.com/blinklabs-io/resi/types"
	"github.com/blinklabs-io/resi/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

type balanceOutput struct {
	Address common.Address       `json:"address"`
	Balance string               `json:"balance"`
	Series  []serieBalanceOutput `json:"series,omitempty"`
}

type serieBalanceOutput struct {
	SerieID uint64 `json:"serieId"`
	Balance string `json:"balance"`
}

type quoteOutput struct {
	SerieID uint64 `json:"serieId"`
	Amount  string `json:"amount"`
	Payout  string `json:"payout"`
}

func tokenCommands() []*cobra.Command {
	return []*cobra.Command{
		addMentorCommand(),
		addProjectBuilderCommand(),
		addResiBuilderCommand(),
		addRolesCommand(),
		awardCommand(),
		getBalanceCommand(),
		exitCommand(),
		burnCommand(),
		quoteCommand(),
	}
}

type projectRoleFunc func(*token.Token, *chain.Call, common.Address, uint64, types.Name) error

func projectRoleCommand(use string, short string, fn projectRoleFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	cmd.Flags().String("address", "", "account address")
	cmd.Flags().Uint64("serie-id", 0, "serie id")
	cmd.Flags().String("project", "", "project name")
	requireFlags(cmd, "address", "serie-id", "project")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		tok, err := s.token()
		if err != nil {
			return err
		}
		account, err := flagAddress(cmd, "address")
		if err != nil {
			return err
		}
		project, err := flagName(cmd, "project")
		if err != nil {
			return err
		}
		serieID, _ := cmd.Flags().GetUint64("serie-id")
		return s.submit(func(call *chain.Call) error {
			return fn(tok, call, account, serieID, project)
		})
	})
	return cmd
}

func addMentorCommand() *cobra.Command {
	return projectRoleCommand("add-mentor", "Add mentor", (*token.Token).AddMentor)
}

func addProjectBuilderCommand() *cobra.Command {
	return projectRoleCommand(
		"add-project-builder",
		"Add project builder",
		(*token.Token).AddProjectBuilder,
	)
}

func addResiBuilderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-resi-builder",
		Short: "Add RESI builder",
	}
	cmd.Flags().String("builder", "", "builder address")
	requireFlags(cmd, "builder")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		tok, err := s.token()
		if err != nil {
			return err
		}
		builder, err := flagAddress(cmd, "builder")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return tok.AddResiBuilder(call, builder)
		})
	})
	return cmd
}

func addRolesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-roles",
		Short: "Grant a role to several users",
	}
	cmd.Flags().String("role", "", "role name or hash")
	cmd.Flags().String("users", "", "comma separated user addresses")
	requireFlags(cmd, "role", "users")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		tok, err := s.token()
		if err != nil {
			return err
		}
		role, err := flagRole(cmd, "role")
		if err != nil {
			return err
		}
		users, err := flagAddresses(cmd, "users")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return tok.AddRolesBatch(call, role, users)
		})
	})
	return cmd
}

func awardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "award",
		Short: "Award RESI to a user",
	}
	cmd.Flags().String("user", "", "user address")
	cmd.Flags().String("role", "", "role name or hash")
	cmd.Flags().String("amount", "", "amount in base units")
	requireFlags(cmd, "user", "role", "amount")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		tok, err := s.token()
		if err != nil {
			return err
		}
		user, err := flagAddress(cmd, "user")
		if err != nil {
			return err
		}
		role, err := flagRole(cmd, "role")
		if err != nil {
			return err
		}
		amount, err := flagWei(cmd, "amount")
		if err != nil {
			return err
		}
		return s.submit(func(call *chain.Call) error {
			return tok.Award(call, user, role, amount)
		})
	})
	return cmd
}

func getBalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-balance",
		Short: "Get RESI balance",
	}
	cmd.Flags().String("user", "", "user address")
	requireFlags(cmd, "user")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		tok, err := s.token()
		if err != nil {
			return err
		}
		user, err := flagAddress(cmd, "user")
		if err != nil {
			return err
		}
		out := balanceOutput{Address: user}
		err = s.query(func(call *chain.Call) error {
			balance, err := tok.BalanceOf(call, user)
			if err != nil {
				return err
			}
			out.Balance = balance.Dec()
			series, err := tok.SerieBalances(call, user)
			if err != nil {
				return err
			}
			for _, item := range series {
				out.Series = append(out.Series, serieBalanceOutput{
					SerieID: item.SerieID,
					Balance: item.Balance.Dec(),
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
		return s.print(out)
	})
	return cmd
}

func exitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exit",
		Short: "Exit a closed serie and collect the payout",
	}
	cmd.Flags().Uint64("serie-id", 0, "serie id")
	cmd.Flags().String("role", "", "business role held in the serie")
	requireFlags(cmd, "serie-id", "role")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		tok, err := s.token()
		if err != nil {
			return err
		}
		role, err := flagRole(cmd, "role")
		if err != nil {
			return err
		}
		serieID, _ := cmd.Flags().GetUint64("serie-id")
		return s.submit(func(call *chain.Call) error {
			return tok.Exit(call, serieID, role)
		})
	})
	return cmd
}

func burnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Burn RESI from a serie balance",
	}
	cmd.Flags().String("amount", "", "amount in base units")
	cmd.Flags().Uint64("serie-id", 0, "serie id")
	requireFlags(cmd, "amount", "serie-id")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		tok, err := s.token()
		if err != nil {
			return err
		}
		amount, err := flagWei(cmd, "amount")
		if err != nil {
			return err
		}
		serieID, _ := cmd.Flags().GetUint64("serie-id")
		return s.submit(func(call *chain.Call) error {
			return tok.Burn(call, amount, serieID)
		})
	})
	return cmd
}

func quoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the vault payout for an amount of RESI",
	}
	cmd.Flags().Uint64("serie-id", 0, "serie id")
	cmd.Flags().String("amount", "", "amount in base units")
	requireFlags(cmd, "serie-id", "amount")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		reg, err := s.registry()
		if err != nil {
			return err
		}
		amount, err := flagWei(cmd, "amount")
		if err != nil {
			return err
		}
		serieID, _ := cmd.Flags().GetUint64("serie-id")
		out := quoteOutput{SerieID: serieID, Amount: amount.Dec()}
		err = s.query(func(call *chain.Call) error {
			payout, err := serieQuote(call, reg, serieID, amount)
			if err != nil {
				return err
			}
			out.Payout = payout.Dec()
			return nil
		})
		if err != nil {
			return err
		}
		return s.print(out)
	})
	return cmd
}

func serieQuote(
	call *chain.Call,
	reg *registry.Registry,
	serieID uint64,
	amount *uint256.Int,
) (*uint256.Int, error) {
	vaultAddr, err := reg.SerieVault(call, serieID)
	if err != nil {
		return nil, err
	}
	v, err := chain.Resolve[*vault.Vault](call, vaultAddr)
	if err != nil {
		return nil, err
	}
	return v.GetCurrentExitQuote(call, amount)
}
