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
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vulcanize/ens_explorer/chain"
	"github.com/vulcanize/ens_explorer/discovery"
	"github.com/vulcanize/ens_explorer/labels"
	"github.com/vulcanize/ens_explorer/labels/repository"
)

var log = logging.Logger("cmd")

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ens_explorer",
	Short: "Explore names in the ENS registry",
	Long: `Looks up ENS names and enumerates their subdomains.

Subdomains are found by replaying the registry's NewOwner events for a name
and recovering labels from their hashes with a preimage service and a local
dictionary of known labels.

Settings can be given as flags, as ENS_ prefixed environment variables
(ENS_RPC, ENS_PREIMAGE_URL, ...) or in a .toml config:
  rpc = "http://localhost:8545"
  network = "mainnet"
  preimage-url = "https://preimagedb.appspot.com"
  labels-db = "./labels.db"
  precedence = "local"
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.SetLogLevel("*", viper.GetString("log-level"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file location")
	flags.String("rpc", "http://localhost:8545", "ethereum node endpoint")
	flags.StringP("network", "n", "", "registry preset (mainnet, ropsten); detected from the node when empty")
	flags.String("preimage-url", labels.DefaultPreimageURL, "keccak256 preimage service")
	flags.String("labels-db", "labels.db", "leveldb directory holding known labels")
	flags.Int("labels-cache", 10000, "known labels kept in memory")
	flags.String("precedence", "local", "label source that wins on conflict (local or remote)")
	flags.Int("concurrency", 0, "max chain calls in flight per stage; 0 is unlimited")
	flags.Bool("isolate-details", false, "keep subdomains whose resolver records cannot be read")
	flags.Duration("timeout", 5*time.Minute, "give up on a lookup after this long; 0 waits forever")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address")
	flags.String("log-level", "info", "debug, info, warn or error")

	for _, name := range []string{"rpc", "network", "preimage-url", "labels-db", "labels-cache", "precedence",
		"concurrency", "isolate-details", "timeout", "metrics-addr", "log-level"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	viper.SetEnvPrefix("ens")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "can't read config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

// Everything a command needs to talk to the chain and the label sources
type environment struct {
	conn       *chain.Conn
	registry   *chain.Registry
	labels     repository.LabelRepository
	discoverer *discovery.Discoverer
	metrics    *http.Server
}

func setup(ctx context.Context) (*environment, error) {
	precedence, err := labels.ParsePrecedence(viper.GetString("precedence"))
	if err != nil {
		return nil, err
	}

	env := &environment{}
	env.conn, err = chain.Connect(ctx, chain.Config{
		RPCURL:  viper.GetString("rpc"),
		Network: viper.GetString("network"),
	})
	if err != nil {
		return nil, err
	}

	env.registry, err = chain.NewRegistryFromConn(env.conn)
	if err != nil {
		return nil, env.closeWith(err)
	}

	repo, err := repository.Open(viper.GetString("labels-db"))
	if err != nil {
		return nil, env.closeWith(fmt.Errorf("open labels db: %w", err))
	}
	env.labels = repo
	known, err := labels.NewKnownLabels(env.labels, viper.GetInt("labels-cache"))
	if err != nil {
		return nil, env.closeWith(err)
	}

	opts := []discovery.Option{
		discovery.WithPrecedence(precedence),
		discovery.WithConcurrency(viper.GetInt("concurrency")),
	}
	if viper.GetBool("isolate-details") {
		opts = append(opts, discovery.WithIsolatedDetailFailures())
	}
	if addr := viper.GetString("metrics-addr"); addr != "" {
		metrics, err := discovery.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, env.closeWith(err)
		}
		opts = append(opts, discovery.WithMetrics(metrics))
		env.metrics = serveMetrics(addr)
	}

	preimages := labels.NewPreimageClient(viper.GetString("preimage-url"))
	env.discoverer = discovery.NewDiscoverer(env.registry, preimages, known, env.conn.Network().StartingBlock, opts...)
	return env, nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	log.Infow("serving metrics", "addr", addr)
	return server
}

func (env *environment) Close() error {
	var result error
	if env.metrics != nil {
		if err := env.metrics.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if env.labels != nil {
		if err := env.labels.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if env.conn != nil {
		if err := env.conn.Shutdown(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func (env *environment) closeWith(err error) error {
	if closeErr := env.Close(); closeErr != nil {
		return multierror.Append(err, closeErr)
	}
	return err
}

// Context for a single lookup, bounded by --timeout
func lookupContext(parent context.Context) (context.Context, context.CancelFunc) {
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithCancel(parent)
}
