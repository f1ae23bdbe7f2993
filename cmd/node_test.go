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
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	. "github.com/onsi/ginkgo"
	"github.com/tidwall/gjson"

	"github.com/vulcanize/ens_explorer/chain/constants"
)

// fakeNode serves just enough JSON-RPC for the registry: chain id, eth_call
// against the registry and resolver ABIs, and eth_getLogs.
type fakeNode struct {
	*httptest.Server

	mu          sync.Mutex
	registryAbi abi.ABI
	resolverAbi abi.ABI
	owners      map[common.Hash]common.Address
	resolvers   map[common.Hash]common.Address
	addrs       map[common.Hash]common.Address
	contents    map[common.Hash]common.Hash
	names       map[common.Hash]string
	stalled     bool
	logs        []map[string]interface{}
}

func newFakeNode() *fakeNode {
	registryAbi, err := abi.JSON(strings.NewReader(constants.ENSRegistryABI))
	if err != nil {
		panic(err)
	}
	resolverAbi, err := abi.JSON(strings.NewReader(constants.PublicResolverABI))
	if err != nil {
		panic(err)
	}
	node := &fakeNode{
		registryAbi: registryAbi,
		resolverAbi: resolverAbi,
		owners:      map[common.Hash]common.Address{},
		resolvers:   map[common.Hash]common.Address{},
		addrs:       map[common.Hash]common.Address{},
		contents:    map[common.Hash]common.Hash{},
		names:       map[common.Hash]string{},
	}
	node.Server = httptest.NewServer(http.HandlerFunc(node.serve))
	return node
}

func (n *fakeNode) addNewOwnerLog(parent, label common.Hash, owner common.Address, block uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logs = append(n.logs, map[string]interface{}{
		"address":          constants.Mainnet.RegistryAddress,
		"topics":           []common.Hash{n.registryAbi.Events[constants.NewOwnerEvent].ID, parent, label},
		"data":             hexutil.Bytes(common.LeftPadBytes(owner.Bytes(), 32)),
		"blockNumber":      hexutil.Uint64(block),
		"transactionHash":  common.BigToHash(new(big.Int).SetUint64(block)),
		"transactionIndex": hexutil.Uint(0),
		"blockHash":        common.BigToHash(new(big.Int).SetUint64(block + 1)),
		"logIndex":         hexutil.Uint(len(n.logs)),
		"removed":          false,
	})
}

func (n *fakeNode) serve(w http.ResponseWriter, req *http.Request) {
	defer GinkgoRecover()
	n.mu.Lock()
	stalled := n.stalled
	n.mu.Unlock()
	if stalled {
		<-req.Context().Done()
		return
	}
	body, _ := io.ReadAll(req.Body)
	id := gjson.GetBytes(body, "id").Raw
	w.Header().Set("Content-Type", "application/json")

	result, err := n.handle(gjson.GetBytes(body, "method").String(), gjson.GetBytes(body, "params"))
	if err != nil {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":%q}}`, id, err.Error())
		return
	}
	encoded, _ := json.Marshal(result)
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, id, encoded)
}

func (n *fakeNode) handle(method string, params gjson.Result) (interface{}, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch method {
	case "eth_chainId":
		return hexutil.Uint64(1), nil
	case "eth_getLogs":
		parent := params.Get("0.topics.1")
		if parent.IsArray() {
			parent = parent.Get("0")
		}
		return n.filterLogs(parent.String()), nil
	case "eth_getCode":
		return hexutil.Bytes{0x60}, nil
	case "eth_call":
		call := params.Get("0")
		input := call.Get("input").String()
		if input == "" {
			input = call.Get("data").String()
		}
		data, err := hexutil.Decode(input)
		if err != nil {
			return nil, err
		}
		to := common.HexToAddress(call.Get("to").String())
		out, err := n.call(to, data)
		if err != nil {
			return nil, err
		}
		return hexutil.Bytes(out), nil
	}
	return nil, fmt.Errorf("method %s not supported", method)
}

func (n *fakeNode) filterLogs(parent string) []map[string]interface{} {
	logs := []map[string]interface{}{}
	for _, l := range n.logs {
		topics := l["topics"].([]common.Hash)
		if parent == "" || topics[1] == common.HexToHash(parent) {
			logs = append(logs, l)
		}
	}
	return logs
}

func (n *fakeNode) call(to common.Address, data []byte) ([]byte, error) {
	contractAbi := n.resolverAbi
	if to == constants.Mainnet.RegistryAddress {
		contractAbi = n.registryAbi
	}
	method, err := contractAbi.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}
	node := common.Hash(args[0].([32]byte))
	switch method.Name {
	case "owner":
		return method.Outputs.Pack(n.owners[node])
	case "resolver":
		return method.Outputs.Pack(n.resolvers[node])
	case "addr":
		return method.Outputs.Pack(n.addrs[node])
	case "content":
		return method.Outputs.Pack([32]byte(n.contents[node]))
	case "name":
		return method.Outputs.Pack(n.names[node])
	}
	return nil, fmt.Errorf("unexpected call to %s", method.Name)
}
