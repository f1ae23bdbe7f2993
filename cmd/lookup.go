// VulcanizeDB
// Copyright © 2018 Vulcanize

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/vulcanize/ens_explorer/models"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Show the owner, resolver and resolver records of an ENS name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := lookupContext(cmd.Context())
		defer cancel()
		env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := env.Close(); err != nil {
				log.Errorw("shutdown", "err", err)
			}
		}()

		record, err := env.discoverer.ResolveRootDomain(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), record)
	},
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <address>",
	Short: "Show the name an address claims through its reverse record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("not an address: %q", args[0])
		}
		addr := common.HexToAddress(args[0])

		ctx, cancel := lookupContext(cmd.Context())
		defer cancel()
		env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := env.Close(); err != nil {
				log.Errorw("shutdown", "err", err)
			}
		}()

		name, resolver, err := env.registry.ReverseName(ctx, addr)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), models.ReverseRecord{Address: addr, Name: name, Resolver: resolver})
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(reverseCmd)
}
