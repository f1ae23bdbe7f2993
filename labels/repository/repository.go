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

package repository

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vulcanize/ens_explorer/utils"
)

var labelPrefix = []byte("label/")

// Persisted preimages of label hashes
type LabelRepository interface {
	LabelExists(labelHash common.Hash) (bool, error)
	CreateLabel(label string) (common.Hash, error)
	GetLabel(labelHash common.Hash) (string, error)
	CountLabels() (int, error)
	Close() error
}

type labelRepository struct {
	db           *leveldb.DB
	cachedHashes *lru.Cache
}

func NewLabelRepository(db *leveldb.DB) *labelRepository {
	cache, _ := lru.New(1000)
	return &labelRepository{
		db:           db,
		cachedHashes: cache,
	}
}

// Opens (creating if needed) the leveldb store at path
func Open(path string) (*labelRepository, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return NewLabelRepository(db), nil
}

func (r *labelRepository) LabelExists(labelHash common.Hash) (bool, error) {
	_, ok := r.cachedHashes.Get(labelHash)
	if ok {
		return true, nil
	}

	return r.db.Has(labelKey(labelHash), nil)
}

// Stores the label under its hash; storing the same label twice is a no-op
func (r *labelRepository) CreateLabel(label string) (common.Hash, error) {
	labelHash := utils.LabelHash(label)
	err := r.db.Put(labelKey(labelHash), []byte(label), nil)
	if err != nil {
		return common.Hash{}, err
	}

	r.cachedHashes.Add(labelHash, true)

	return labelHash, nil
}

// Gets the label for the given hash, or "" if it is not known
func (r *labelRepository) GetLabel(labelHash common.Hash) (string, error) {
	label, err := r.db.Get(labelKey(labelHash), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	r.cachedHashes.Add(labelHash, true)

	return string(label), nil
}

func (r *labelRepository) CountLabels() (int, error) {
	iter := r.db.NewIterator(util.BytesPrefix(labelPrefix), nil)
	defer iter.Release()
	count := 0
	for iter.Next() {
		count++
	}
	return count, iter.Error()
}

func (r *labelRepository) Close() error {
	return r.db.Close()
}

func labelKey(labelHash common.Hash) []byte {
	return append(append([]byte{}, labelPrefix...), labelHash.Bytes()...)
}
