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

package test_helpers

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vulcanize/ens_explorer/discovery"
	"github.com/vulcanize/ens_explorer/discovery/test_helpers/mocks"
	"github.com/vulcanize/ens_explorer/models"
	"github.com/vulcanize/ens_explorer/utils"
)

const StartingBlock = uint64(3327417)

var (
	OwnerA   = common.HexToAddress("0x42032C22C510AD0698f16bE9b99640eFDEB02832")
	OwnerB   = common.HexToAddress("0xa54AEF7fA503E75a03b262A4Cd73037C1774735D")
	Resolver = common.HexToAddress("0xD3ddcCDD3b25A8a7423B5bEe360a42146eb4Baf3")
)

// Event assigning label under parent to owner; label is hashed
func NewOwnerEvent(parent, label string, owner common.Address, block uint64) models.EventRecord {
	return NewOwnerEventWithHash(parent, utils.LabelHash(label), owner, block)
}

func NewOwnerEventWithHash(parent string, labelHash common.Hash, owner common.Address, block uint64) models.EventRecord {
	return models.EventRecord{
		LabelHash:   labelHash,
		ParentNode:  utils.NameHash(parent),
		Owner:       owner,
		BlockNumber: block,
	}
}

// Fresh mocks with nothing resolvable and a discoverer over them
func SetupDiscoverer(opts ...discovery.Option) (*discovery.Discoverer, *mocks.MockRegistry, *mocks.MockDecrypter, *mocks.MockChecker) {
	registry := mocks.NewMockRegistry()
	decrypter := mocks.NewMockDecrypter()
	checker := mocks.NewMockChecker()
	d := discovery.NewDiscoverer(registry, decrypter, checker, StartingBlock, opts...)
	return d, registry, decrypter, checker
}
