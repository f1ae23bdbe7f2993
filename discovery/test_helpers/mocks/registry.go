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

package mocks

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vulcanize/ens_explorer/models"
)

type MockRegistry struct {
	mu sync.Mutex

	Events    []models.EventRecord
	Owners    map[common.Hash]common.Address
	Resolvers map[common.Hash]common.Address
	Addrs     map[common.Hash]common.Address
	Contents  map[common.Hash]common.Hash

	EventsErr   error
	OwnerErr    error
	ResolverErr error
	// Resolver record lookups for these nodes fail with the mapped error
	DetailErrs  map[common.Hash]error

	OwnerQueries    []common.Hash
	ResolverQueries []common.Hash
	DetailQueries   []common.Hash
	FromBlocks      []uint64
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Events:     []models.EventRecord{},
		Owners:     map[common.Hash]common.Address{},
		Resolvers:  map[common.Hash]common.Address{},
		Addrs:      map[common.Hash]common.Address{},
		Contents:   map[common.Hash]common.Hash{},
		DetailErrs: map[common.Hash]error{},
	}
}

// Returns the events recorded under parent at or after fromBlock, in the order they were given
func (r *MockRegistry) NewOwnerEvents(ctx context.Context, parent common.Hash, fromBlock uint64) ([]models.EventRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FromBlocks = append(r.FromBlocks, fromBlock)
	if r.EventsErr != nil {
		return nil, r.EventsErr
	}
	returnEvents := make([]models.EventRecord, 0, len(r.Events))
	for _, event := range r.Events {
		if event.ParentNode == parent && event.BlockNumber >= fromBlock {
			returnEvents = append(returnEvents, event)
		}
	}
	return returnEvents, nil
}

func (r *MockRegistry) Owner(ctx context.Context, node common.Hash) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OwnerQueries = append(r.OwnerQueries, node)
	if r.OwnerErr != nil {
		return common.Address{}, r.OwnerErr
	}
	return r.Owners[node], nil
}

func (r *MockRegistry) Resolver(ctx context.Context, node common.Hash) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResolverQueries = append(r.ResolverQueries, node)
	if r.ResolverErr != nil {
		return common.Address{}, r.ResolverErr
	}
	return r.Resolvers[node], nil
}

func (r *MockRegistry) Addr(ctx context.Context, resolver common.Address, node common.Hash) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DetailQueries = append(r.DetailQueries, node)
	if err := r.DetailErrs[node]; err != nil {
		return common.Address{}, err
	}
	return r.Addrs[node], nil
}

func (r *MockRegistry) Content(ctx context.Context, resolver common.Address, node common.Hash) (common.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.DetailErrs[node]; err != nil {
		return common.Hash{}, err
	}
	return r.Contents[node], nil
}

func (r *MockRegistry) Queried(queries []common.Hash, node common.Hash) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range queries {
		if q == node {
			return true
		}
	}
	return false
}
