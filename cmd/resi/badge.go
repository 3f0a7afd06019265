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
	"github.com/blinklabs-io/resi/badge"
	"github.com/blinklabs-io/resi/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

type mintedOutput struct {
	Receipt receiptJSON    `json:"receipt"`
	TokenID uint64         `json:"tokenId"`
	To      common.Address `json:"to"`
}

func badgeCommands() []*cobra.Command {
	return []*cobra.Command{
		setDefaultRoleURICommand(),
		mintSBTCommand(),
	}
}

// resolveBadge returns the badge named by --sbt, or the active serie badge
func (s *session) resolveBadge(cmd *cobra.Command, call *chain.Call) (*badge.SBT, error) {
	var addr common.Address
	if cmd.Flags().Changed("sbt") {
		var err error
		if addr, err = flagAddress(cmd, "sbt"); err != nil {
			return nil, err
		}
	} else {
		reg, err := s.registry()
		if err != nil {
			return nil, err
		}
		if addr, err = reg.GetSBTSerie(call); err != nil {
			return nil, err
		}
	}
	return chain.Resolve[*badge.SBT](call, addr)
}

func setDefaultRoleURICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-default-role-uri",
		Short: "Set the default badge URI for a role",
	}
	cmd.Flags().String("role", "", "role name or hash")
	cmd.Flags().String("uri", "", "badge metadata URI")
	cmd.Flags().String("sbt", "", "badge address (defaults to the active serie badge)")
	requireFlags(cmd, "role", "uri")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		role, err := flagRole(cmd, "role")
		if err != nil {
			return err
		}
		uri, _ := cmd.Flags().GetString("uri")
		return s.submit(func(call *chain.Call) error {
			sbt, err := s.resolveBadge(cmd, call)
			if err != nil {
				return err
			}
			return sbt.SetDefaultRoleURI(call, role, uri)
		})
	})
	return cmd
}

func mintSBTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint-sbt",
		Short: "Mint a badge with a custom URI",
	}
	cmd.Flags().String("to", "", "receiver address")
	cmd.Flags().String("role", "", "role name or hash")
	cmd.Flags().String("uri", "", "badge metadata URI")
	cmd.Flags().String("sbt", "", "badge address (defaults to the active serie badge)")
	requireFlags(cmd, "to", "role", "uri")
	cmd.RunE = withSession(func(s *session, _ []string) error {
		to, err := flagAddress(cmd, "to")
		if err != nil {
			return err
		}
		role, err := flagRole(cmd, "role")
		if err != nil {
			return err
		}
		uri, _ := cmd.Flags().GetString("uri")
		var tokenID uint64
		receipt, err := s.submitQuiet(func(call *chain.Call) error {
			sbt, err := s.resolveBadge(cmd, call)
			if err != nil {
				return err
			}
			tokenID, err = sbt.Mint(call, to, role, uri)
			return err
		})
		if err != nil {
			return err
		}
		return s.print(mintedOutput{
			Receipt: receiptOutput(receipt),
			TokenID: tokenID,
			To:      to,
		})
	})
	return cmd
}
