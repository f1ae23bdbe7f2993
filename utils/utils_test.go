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

//namehash('') = 0x0000000000000000000000000000000000000000000000000000000000000000
//namehash('eth') = 0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae
//namehash('foo.eth') = 0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f

package utils_test

import (
	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/vulcanize/ens_explorer/utils"
)

var _ = Describe("Utils", func() {
	Describe("NameHash", func() {
		It("Returns the namehash for the input string", func() {
			hash := utils.NameHash("")
			Expect(hash).To(Equal(common.HexToHash("0x0000000000000000000000000000000000000000000000000000000000000000")))

			hash = utils.NameHash("eth")
			Expect(hash).To(Equal(common.HexToHash("0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae")))

			hash = utils.NameHash("foo.eth")
			Expect(hash).To(Equal(common.HexToHash("0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f")))
		})
	})

	Describe("LabelHash", func() {
		It("Returns the keccak256 of a single label", func() {
			Expect(utils.LabelHash("eth")).To(Equal(common.HexToHash("0x4f5b812789fc606be1b3b16908db13fc7a9adf7ca72641f84d75b47069d3d7f0")))
		})
	})

	Describe("CreateSubnode", func() {
		It("Creates a subnode hash from a given parent and label hash", func() {
			node := common.HexToHash("0x583506c12610038ce46126390030389f0555a9525aa5be5a2dd2bf08e316bb00")
			label := common.HexToHash("0xbe71a413dd3e859f6c2f69eebb2d3bfcdefc8884a5086d0c8c8a7715b3e328c1")
			subnode := utils.CreateSubnode(node, label)
			Expect(subnode).To(Equal(common.HexToHash("0xb4664b154f4dd9abf5bb27d6e3ff12181d6e37b0606b4ff61ff8796e6e29a2e4")))
		})

		It("Agrees with NameHash for a plaintext label", func() {
			subnode := utils.CreateSubnode(utils.NameHash("eth"), utils.LabelHash("foo"))
			Expect(subnode).To(Equal(utils.NameHash("foo.eth")))
		})
	})

	Describe("Normalize", func() {
		It("Case folds and drops a trailing dot", func() {
			name, err := utils.Normalize(" Foo.ETH. ")
			Expect(err).ToNot(HaveOccurred())
			Expect(name).To(Equal("foo.eth"))
		})

		It("Rejects empty names", func() {
			_, err := utils.Normalize(" . ")
			Expect(err).To(MatchError(utils.ErrEmptyName))
		})
	})

	Describe("ReverseName", func() {
		It("Uses the lower case hex of the address under addr.reverse", func() {
			addr := common.HexToAddress("0x42032C22C510AD0698f16bE9b99640eFDEB02832")
			Expect(utils.ReverseName(addr)).To(Equal("42032c22c510ad0698f16be9b99640efdeb02832.addr.reverse"))
		})
	})

	Describe("SplitName", func() {
		It("Splits off the first label", func() {
			label, parent := utils.SplitName("alice.example.eth")
			Expect(label).To(Equal("alice"))
			Expect(parent).To(Equal("example.eth"))
		})

		It("Returns an empty parent for a top level name", func() {
			label, parent := utils.SplitName("eth")
			Expect(label).To(Equal("eth"))
			Expect(parent).To(Equal(""))
		})
	})
})
