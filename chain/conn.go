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

package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	logging "github.com/ipfs/go-log/v2"

	"github.com/vulcanize/ens_explorer/chain/constants"
)

var log = logging.Logger("chain")

var (
	ErrNotConnected   = errors.New("chain: connection is shut down")
	ErrUnknownNetwork = errors.New("chain: unknown network")
)

type Config struct {
	// Node endpoint; http(s), ws(s) or an IPC path
	RPCURL string
	// Network preset name. Empty means detect from the node's chain id.
	Network string
}

// Conn is an open connection to an ethereum node. It is created once with
// Connect, shared by everything that talks to the chain and released with Shutdown.
type Conn struct {
	mu      sync.RWMutex
	rpc     *rpc.Client
	client  *ethclient.Client
	network constants.Network
}

func Connect(ctx context.Context, cfg Config) (*Conn, error) {
	rawRpcClient, err := rpc.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}
	client := ethclient.NewClient(rawRpcClient)

	network, err := selectNetwork(ctx, client, cfg.Network)
	if err != nil {
		client.Close()
		return nil, err
	}
	log.Infow("connected", "rpc", cfg.RPCURL, "network", network.Name, "registry", network.RegistryAddress.Hex())

	return &Conn{
		rpc:     rawRpcClient,
		client:  client,
		network: network,
	}, nil
}

func selectNetwork(ctx context.Context, client *ethclient.Client, name string) (constants.Network, error) {
	if name != "" {
		network, ok := constants.Networks[name]
		if !ok {
			return constants.Network{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
		}
		return network, nil
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return constants.Network{}, fmt.Errorf("chain id: %w", err)
	}
	network, ok := constants.NetworksByChainID[chainID.Uint64()]
	if !ok {
		return constants.Network{}, fmt.Errorf("%w: chain id %s", ErrUnknownNetwork, chainID)
	}
	return network, nil
}

// Client returns the underlying ethclient, or ErrNotConnected after Shutdown
func (c *Conn) Client() (*ethclient.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return nil, ErrNotConnected
	}
	return c.client, nil
}

func (c *Conn) Network() constants.Network {
	return c.network
}

// Accounts lists the accounts the node manages
func (c *Conn) Accounts(ctx context.Context) ([]common.Address, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rpc == nil {
		return nil, ErrNotConnected
	}
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Shutdown closes the connection. It is safe to call more than once.
func (c *Conn) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	c.client.Close()
	c.client = nil
	c.rpc = nil
	log.Debug("connection closed")
	return nil
}
