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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vulcanize/ens_explorer/labels"
	"github.com/vulcanize/ens_explorer/labels/repository"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Manage the local dictionary of known labels",
}

var labelsImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Add the labels of newline separated word lists to the labels db",
	Long: `Hashes every line of the given files and stores the label under its hash,
so discovery can recover it without the preimage service. Blank lines and
lines starting with # are skipped.

Usage:
./ens_explorer labels import words.txt --labels-db ./labels.db
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		repo, err := repository.Open(viper.GetString("labels-db"))
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := repo.Close(); err == nil {
				err = closeErr
			}
		}()
		known, err := labels.NewKnownLabels(repo, viper.GetInt("labels-cache"))
		if err != nil {
			return err
		}

		for _, path := range args {
			count, err := importFile(known, path)
			if err != nil {
				return err
			}
			log.Infow("imported labels", "file", path, "labels", count)
		}
		total, err := repo.CountLabels()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d labels known\n", total)
		return nil
	},
}

func importFile(known *labels.KnownLabels, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	count, err := known.Import(f)
	if err != nil {
		return count, fmt.Errorf("import %s: %w", path, err)
	}
	return count, nil
}

func init() {
	rootCmd.AddCommand(labelsCmd)
	labelsCmd.AddCommand(labelsImportCmd)
}
