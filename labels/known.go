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

package labels

import (
	"bufio"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru"

	"github.com/vulcanize/ens_explorer/labels/repository"
	"github.com/vulcanize/ens_explorer/utils"
)

// KnownLabels answers lookups from a persisted dictionary with an LRU of recent hits in front
type KnownLabels struct {
	repo  repository.LabelRepository
	cache *lru.Cache
}

func NewKnownLabels(repo repository.LabelRepository, cacheSize int) (*KnownLabels, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &KnownLabels{repo: repo, cache: cache}, nil
}

func (k *KnownLabels) Add(labels ...string) error {
	for _, label := range labels {
		hash := utils.LabelHash(label)
		exists, err := k.repo.LabelExists(hash)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := k.repo.CreateLabel(label); err != nil {
				return err
			}
		}
		k.cache.Add(hash, label)
	}
	return nil
}

// Import adds every non-blank line of r and returns how many labels were read
func (k *KnownLabels) Import(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		label := strings.TrimSpace(scanner.Text())
		if label == "" || strings.HasPrefix(label, "#") {
			continue
		}
		if err := k.Add(label); err != nil {
			return count, err
		}
		count++
	}
	return count, scanner.Err()
}

func (k *KnownLabels) CheckLabels(hashes ...common.Hash) ([]string, error) {
	found := make([]string, len(hashes))
	for i, hash := range hashes {
		if label, ok := k.cache.Get(hash); ok {
			found[i] = label.(string)
			continue
		}
		label, err := k.repo.GetLabel(hash)
		if err != nil {
			return nil, err
		}
		if label != "" {
			k.cache.Add(hash, label)
		}
		found[i] = label
	}
	return found, nil
}
