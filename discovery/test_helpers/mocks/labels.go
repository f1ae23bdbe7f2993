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

	"github.com/vulcanize/ens_explorer/utils"
)

// Resolves hashes from a map, the way the preimage service would
type MockDecrypter struct {
	mu     sync.Mutex
	Labels map[common.Hash]string
	Err    error
	// Drops the last entry of every answer when set
	Short  bool
	Calls  [][]common.Hash
}

func NewMockDecrypter(labels ...string) *MockDecrypter {
	return &MockDecrypter{Labels: labelMap(labels)}
}

func (d *MockDecrypter) DecryptHashes(ctx context.Context, hashes ...common.Hash) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, hashes)
	if d.Err != nil {
		return nil, d.Err
	}
	found := lookup(d.Labels, hashes)
	if d.Short && len(found) > 0 {
		found = found[:len(found)-1]
	}
	return found, nil
}

// Resolves hashes from a map, the way the local dictionary would
type MockChecker struct {
	mu     sync.Mutex
	Labels map[common.Hash]string
	Err    error
	Calls  [][]common.Hash
}

func NewMockChecker(labels ...string) *MockChecker {
	return &MockChecker{Labels: labelMap(labels)}
}

func (c *MockChecker) CheckLabels(hashes ...common.Hash) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, hashes)
	if c.Err != nil {
		return nil, c.Err
	}
	return lookup(c.Labels, hashes), nil
}

func labelMap(labels []string) map[common.Hash]string {
	m := make(map[common.Hash]string, len(labels))
	for _, label := range labels {
		m[utils.LabelHash(label)] = label
	}
	return m
}

func lookup(labels map[common.Hash]string, hashes []common.Hash) []string {
	found := make([]string, len(hashes))
	for i, hash := range hashes {
		found[i] = labels[hash]
	}
	return found
}
