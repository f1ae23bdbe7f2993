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
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/vulcanize/ens_explorer/chain/constants"
	"github.com/vulcanize/ens_explorer/models"
	"github.com/vulcanize/ens_explorer/utils"
)

// Everything the registry needs from a node. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Registry reads and writes the ENS registry and the resolvers it points to
type Registry struct {
	backend     Backend
	network     constants.Network
	registry    *bind.BoundContract
	registryAbi abi.ABI
	resolverAbi abi.ABI
	reverseAbi  abi.ABI
	maxRetries  uint64
}

type Option func(*Registry)

// WithRetries sets how many times a failed log query is retried before the error is returned
func WithRetries(n uint64) Option {
	return func(r *Registry) {
		r.maxRetries = n
	}
}

func NewRegistryFromConn(conn *Conn, opts ...Option) (*Registry, error) {
	client, err := conn.Client()
	if err != nil {
		return nil, err
	}
	return NewRegistry(client, conn.Network(), opts...)
}

func NewRegistry(backend Backend, network constants.Network, opts ...Option) (*Registry, error) {
	registryAbi, err := abi.JSON(strings.NewReader(constants.ENSRegistryABI))
	if err != nil {
		return nil, err
	}
	resolverAbi, err := abi.JSON(strings.NewReader(constants.PublicResolverABI))
	if err != nil {
		return nil, err
	}
	reverseAbi, err := abi.JSON(strings.NewReader(constants.ReverseRegistrarABI))
	if err != nil {
		return nil, err
	}

	r := &Registry{
		backend:     backend,
		network:     network,
		registry:    bind.NewBoundContract(network.RegistryAddress, registryAbi, backend, backend, backend),
		registryAbi: registryAbi,
		resolverAbi: resolverAbi,
		reverseAbi:  reverseAbi,
		maxRetries:  3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Registry) Network() constants.Network {
	return r.network
}

func (r *Registry) Owner(ctx context.Context, node common.Hash) (common.Address, error) {
	return callAddress(ctx, r.registry, "owner", [32]byte(node))
}

func (r *Registry) Resolver(ctx context.Context, node common.Hash) (common.Address, error) {
	return callAddress(ctx, r.registry, "resolver", [32]byte(node))
}

// Addr reads the address record for node from the given resolver
func (r *Registry) Addr(ctx context.Context, resolver common.Address, node common.Hash) (common.Address, error) {
	return callAddress(ctx, r.resolverContract(resolver), "addr", [32]byte(node))
}

// Content reads the content hash record for node from the given resolver
func (r *Registry) Content(ctx context.Context, resolver common.Address, node common.Hash) (common.Hash, error) {
	var out []interface{}
	err := r.resolverContract(resolver).Call(&bind.CallOpts{Context: ctx}, &out, "content", [32]byte(node))
	if err != nil {
		return common.Hash{}, err
	}
	if len(out) == 0 {
		return common.Hash{}, fmt.Errorf("content: empty result")
	}
	content := *abi.ConvertType(out[0], new([32]byte)).(*[32]byte)
	return common.Hash(content), nil
}

// NewOwnerEvents returns every NewOwner log whose node is parent, from fromBlock
// to the head of the chain, in chain order. Failed queries are retried with
// exponential backoff; the last error is returned once retries run out.
func (r *Registry) Name(ctx context.Context, resolver common.Address, node common.Hash) (string, error) {
	var out []interface{}
	err := r.resolverContract(resolver).Call(&bind.CallOpts{Context: ctx}, &out, "name", [32]byte(node))
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("name: empty result")
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// ReverseName reads the name addr claims through its reverse record. An address
// without a reverse resolver has no name and a null resolver.
func (r *Registry) ReverseName(ctx context.Context, addr common.Address) (string, common.Address, error) {
	node := utils.NameHash(utils.ReverseName(addr))
	resolver, err := r.Resolver(ctx, node)
	if err != nil {
		return "", common.Address{}, err
	}
	if utils.IsNull(resolver) {
		return "", resolver, nil
	}
	name, err := r.Name(ctx, resolver, node)
	if err != nil {
		return "", resolver, fmt.Errorf("reverse record of %s: %w", addr.Hex(), err)
	}
	return name, resolver, nil
}

func (r *Registry) NewOwnerEvents(ctx context.Context, parent common.Hash, fromBlock uint64) ([]models.EventRecord, error) {
	event := r.registryAbi.Events[constants.NewOwnerEvent]
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{r.network.RegistryAddress},
		Topics:    [][]common.Hash{{event.ID}, {parent}},
	}

	var logs []types.Log
	op := func() error {
		var err error
		logs, err = r.backend.FilterLogs(ctx, query)
		if err != nil {
			log.Warnw("log query failed", "node", parent.Hex(), "err", err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}

	records := make([]models.EventRecord, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		record, err := r.toEventRecord(l)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Before(records[j])
	})
	return records, nil
}

func (r *Registry) toEventRecord(l types.Log) (models.EventRecord, error) {
	if len(l.Topics) != 3 {
		return models.EventRecord{}, fmt.Errorf("NewOwner log %s/%d: expected 3 topics, got %d", l.TxHash.Hex(), l.Index, len(l.Topics))
	}
	values, err := r.registryAbi.Unpack(constants.NewOwnerEvent, l.Data)
	if err != nil {
		return models.EventRecord{}, fmt.Errorf("NewOwner log %s/%d: %w", l.TxHash.Hex(), l.Index, err)
	}
	if len(values) != 1 {
		return models.EventRecord{}, fmt.Errorf("NewOwner log %s/%d: expected 1 data field, got %d", l.TxHash.Hex(), l.Index, len(values))
	}
	owner, ok := values[0].(common.Address)
	if !ok {
		return models.EventRecord{}, fmt.Errorf("NewOwner log %s/%d: owner is %T", l.TxHash.Hex(), l.Index, values[0])
	}
	return models.EventRecord{
		LabelHash:   l.Topics[2],
		ParentNode:  l.Topics[1],
		Owner:       owner,
		BlockNumber: l.BlockNumber,
		LogIndex:    l.Index,
	}, nil
}

func (r *Registry) resolverContract(resolver common.Address) *bind.BoundContract {
	return bind.NewBoundContract(resolver, r.resolverAbi, r.backend, r.backend, r.backend)
}

func callAddress(ctx context.Context, contract *bind.BoundContract, method string, args ...interface{}) (common.Address, error) {
	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s: empty result", method)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}
