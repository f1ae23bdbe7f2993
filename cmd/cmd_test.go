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
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/vulcanize/ens_explorer/labels"
	"github.com/vulcanize/ens_explorer/utils"
)

var (
	ownerA   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	ownerB   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	resolver = common.HexToAddress("0x5FfC014343cd971B7eb70732021E26C35B744cc4")
	content  = common.HexToHash("0x0102030405060708091011121314151617181920212223242526272829303132")
)

func run(args ...string) (string, error) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// preimageServer knows only the labels it is given
func preimageServer(known ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer GinkgoRecover()
		body, err := io.ReadAll(req.Body)
		Expect(err).NotTo(HaveOccurred())

		answers := &bytes.Buffer{}
		answers.WriteString("[")
		for i, hash := range gjson.ParseBytes(body).Array() {
			if i > 0 {
				answers.WriteString(",")
			}
			answer := "null"
			for _, label := range known {
				if utils.LabelHash(label).Hex() == hash.String() {
					answer = fmt.Sprintf("%q", label)
				}
			}
			answers.WriteString(answer)
		}
		answers.WriteString("]")
		w.Write(answers.Bytes())
	}))
}

var _ = Describe("ens_explorer", func() {
	var (
		node      *fakeNode
		preimages *httptest.Server
		dir       string
		labelsDB  string
		wordList  string
	)

	BeforeEach(func() {
		node = newFakeNode()
		preimages = preimageServer("alice")

		var err error
		dir, err = os.MkdirTemp("", "ens_explorer")
		Expect(err).NotTo(HaveOccurred())
		labelsDB = filepath.Join(dir, "labels.db")
		wordList = filepath.Join(dir, "words.txt")
		Expect(os.WriteFile(wordList, []byte("# dictionary\nbob\n\n"), 0644)).To(Succeed())

		ethNode := utils.NameHash("eth")
		node.addNewOwnerLog(ethNode, utils.LabelHash("gone"), utils.NullAddress, 3400000)
		node.addNewOwnerLog(ethNode, utils.LabelHash("mystery"), ownerB, 3400001)
		node.addNewOwnerLog(ethNode, utils.LabelHash("bob"), ownerB, 3400002)
		node.addNewOwnerLog(ethNode, utils.LabelHash("alice"), ownerB, 3400003)

		alice := utils.NameHash("alice.eth")
		node.owners[alice] = ownerA
		node.resolvers[alice] = resolver
		node.addrs[alice] = ownerA
		node.contents[alice] = content
		node.owners[utils.NameHash("bob.eth")] = ownerB
	})

	AfterEach(func() {
		node.Close()
		preimages.Close()
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	flags := func(args ...string) []string {
		return append(args,
			"--rpc", node.URL,
			"--network", "",
			"--preimage-url", preimages.URL,
			"--labels-db", labelsDB,
			"--precedence", "local",
			"--log-level", "error",
			"--timeout", "1m",
		)
	}

	Describe("labels import", func() {
		It("stores every label of the word list", func() {
			out, err := run(flags("labels", "import", wordList)...)

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1 labels known\n"))
		})

		It("fails on a missing file", func() {
			_, err := run(flags("labels", "import", wordList+".missing")...)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("lookup", func() {
		It("prints the owner, resolver and resolver records of a name", func() {
			out, err := run(flags("lookup", "Alice.eth")...)

			Expect(err).NotTo(HaveOccurred())
			record := gjson.Parse(out)
			Expect(record.Get("name").String()).To(Equal("alice.eth"))
			Expect(record.Get("parentName").String()).To(Equal("eth"))
			Expect(common.HexToAddress(record.Get("owner").String())).To(Equal(ownerA))
			Expect(common.HexToAddress(record.Get("resolver").String())).To(Equal(resolver))
			Expect(common.HexToAddress(record.Get("addr").String())).To(Equal(ownerA))
			Expect(record.Get("content").String()).To(Equal(content.Hex()))
			Expect(record.Get("contentCid").String()).To(Equal("QmNQatwxYrvx45JRCgdBtiNKCudYJQR1Fbjs65rXFMo6wK"))
		})

		It("fails for a network the node is not on", func() {
			_, err := run(append(flags("lookup", "alice.eth"), "--network", "kovan")...)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("reverse", func() {
		It("prints the name an address claims", func() {
			reverseNode := utils.NameHash(utils.ReverseName(ownerA))
			node.resolvers[reverseNode] = resolver
			node.names[reverseNode] = "alice.eth"

			out, err := run(flags("reverse", ownerA.Hex())...)

			Expect(err).NotTo(HaveOccurred())
			record := gjson.Parse(out)
			Expect(common.HexToAddress(record.Get("address").String())).To(Equal(ownerA))
			Expect(record.Get("name").String()).To(Equal("alice.eth"))
			Expect(common.HexToAddress(record.Get("resolver").String())).To(Equal(resolver))
		})

		It("prints an empty name for an address without a reverse record", func() {
			out, err := run(flags("reverse", ownerB.Hex())...)

			Expect(err).NotTo(HaveOccurred())
			record := gjson.Parse(out)
			Expect(record.Get("name").String()).To(BeEmpty())
			Expect(common.HexToAddress(record.Get("resolver").String())).To(Equal(utils.NullAddress))
		})

		It("rejects an argument that is not an address", func() {
			_, err := run(flags("reverse", "alice.eth")...)

			Expect(err).To(MatchError(ContainSubstring("not an address")))
		})
	})

	Describe("timeout", func() {
		It("bounds connecting to a node that never answers", func() {
			node.mu.Lock()
			node.stalled = true
			node.mu.Unlock()

			start := time.Now()
			_, err := run(append(flags("lookup", "alice.eth"), "--timeout", "200ms")...)

			Expect(err).To(MatchError(ContainSubstring("context deadline exceeded")))
			Expect(time.Since(start)).To(BeNumerically("<", 10*time.Second))
		})

		It("bounds subdomain discovery the same way", func() {
			node.mu.Lock()
			node.stalled = true
			node.mu.Unlock()

			_, err := run(append(flags("subdomains", "eth"), "--timeout", "200ms")...)

			Expect(err).To(MatchError(ContainSubstring("context deadline exceeded")))
		})
	})

	Describe("subdomains", func() {
		It("lists the owned subdomains, newest first", func() {
			_, err := run(flags("labels", "import", wordList)...)
			Expect(err).NotTo(HaveOccurred())

			out, err := run(flags("subdomains", "eth")...)

			Expect(err).NotTo(HaveOccurred())
			records := gjson.Parse(out).Array()
			Expect(records).To(HaveLen(3))

			Expect(records[0].Get("name").String()).To(Equal("alice.eth"))
			Expect(records[0].Get("decrypted").Bool()).To(BeTrue())
			Expect(common.HexToAddress(records[0].Get("owner").String())).To(Equal(ownerA))
			Expect(common.HexToAddress(records[0].Get("addr").String())).To(Equal(ownerA))

			Expect(records[1].Get("name").String()).To(Equal("bob.eth"))
			Expect(records[1].Get("decrypted").Bool()).To(BeTrue())
			Expect(records[1].Get("addr").Exists()).To(BeFalse())

			mystery := utils.LabelHash("mystery")
			Expect(records[2].Get("label").String()).To(Equal(labels.Placeholder(mystery)))
			Expect(records[2].Get("labelHash").String()).To(Equal(mystery.Hex()))
			Expect(records[2].Get("decrypted").Bool()).To(BeFalse())
			Expect(common.HexToAddress(records[2].Get("owner").String())).To(Equal(ownerB))
		})

		It("prints an empty list for a name without subdomains", func() {
			out, err := run(flags("subdomains", "alice.eth")...)

			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Parse(out).IsArray()).To(BeTrue())
			Expect(gjson.Parse(out).Array()).To(BeEmpty())
		})
	})
})
