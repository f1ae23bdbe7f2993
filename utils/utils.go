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

package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/net/idna"
)

var NullAddress = common.Address{}

var ErrEmptyName = errors.New("empty name")

// UTS-46 mapping as used for name lookups, without the STD3 hostname restrictions
var nameProfile = idna.New(idna.MapForLookup(), idna.Transitional(false), idna.StrictDomainName(false))

// Normalize maps a user supplied name to the form that is hashed on chain:
// case folded, unicode normalized and without a trailing dot
func Normalize(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if name == "" {
		return "", ErrEmptyName
	}
	normalized, err := nameProfile.ToUnicode(name)
	if err != nil {
		return "", fmt.Errorf("normalize %q: %w", name, err)
	}
	return normalized, nil
}

func NameHash(name string) common.Hash {
	if name == "" {
		return common.Hash{}
	}
	labels := strings.Split(name, ".")
	labelHash := crypto.Keccak256([]byte(labels[len(labels)-1]))
	remainderHash := NameHash(strings.Join(labels[:len(labels)-1], ".")).Bytes()
	return crypto.Keccak256Hash(append(remainderHash, labelHash...))
}

func LabelHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// Node of the subdomain with the given label hash under the parent node
func CreateSubnode(node, label common.Hash) common.Hash {
	return crypto.Keccak256Hash(node.Bytes(), label.Bytes())
}

// Splits "label.parent.eth" into "label" and "parent.eth"
func SplitName(name string) (label, parent string) {
	i := strings.Index(name, ".")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// ReverseName is the name under addr.reverse that holds the reverse record of addr
func ReverseName(addr common.Address) string {
	return strings.ToLower(strings.TrimPrefix(addr.Hex(), "0x")) + ".addr.reverse"
}

func IsNull(addr common.Address) bool {
	return addr == NullAddress
}
