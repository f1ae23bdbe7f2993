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
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

// subdomainsCmd represents the subdomains command
var subdomainsCmd = &cobra.Command{
	Use:   "subdomains <name>",
	Short: "List the subdomains of an ENS name",
	Long: `Lists the direct subdomains of an ENS name that still have an owner.

Replays the NewOwner events the registry emitted for the name since the
registry was deployed, keeps the latest event per label and recovers the
labels with the preimage service and the local labels db. Labels nobody can
recover are shown as "unknown" followed by the end of their hash.

Usage:
./ens_explorer subdomains vitalik.eth --rpc http://localhost:8545

To keep polling and print the result every minute:
./ens_explorer subdomains vitalik.eth --watch 1m --metrics-addr :9102
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return listSubdomains(ctx, args[0], cmd.OutOrStdout())
	},
}

func listSubdomains(ctx context.Context, name string, out io.Writer) error {
	setupCtx, cancel := lookupContext(ctx)
	env, err := setup(setupCtx)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(); err != nil {
			log.Errorw("shutdown", "err", err)
		}
	}()

	discover := func() error {
		lookupCtx, cancel := lookupContext(ctx)
		defer cancel()
		records, err := env.discoverer.DiscoverSubdomains(lookupCtx, name)
		if err != nil {
			return err
		}
		return writeJSON(out, records)
	}

	if err := discover(); err != nil || watchInterval <= 0 {
		return err
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := discover(); err != nil {
				log.Errorw("discovery failed", "name", name, "err", err)
			}
		}
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func init() {
	rootCmd.AddCommand(subdomainsCmd)
	subdomainsCmd.Flags().DurationVarP(&watchInterval, "watch", "w", 0, "repeat discovery at this interval until interrupted")
}
