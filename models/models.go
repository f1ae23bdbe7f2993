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

package models

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// One NewOwner log: ownership of LabelHash under ParentNode was set to Owner
type EventRecord struct {
	LabelHash   common.Hash
	ParentNode  common.Hash
	Owner       common.Address
	BlockNumber uint64
	LogIndex    uint
}

// Before reports whether e sits earlier in chain history than other
func (e EventRecord) Before(other EventRecord) bool {
	if e.BlockNumber != other.BlockNumber {
		return e.BlockNumber < other.BlockNumber
	}
	return e.LogIndex < other.LogIndex
}

// A name in the registry and what the chain currently says about it.
// Children is reserved for nested subdomains and is never populated by discovery.
type SubdomainRecord struct {
	Decrypted  bool               `json:"decrypted"`
	Label      string             `json:"label"`
	LabelHash  common.Hash        `json:"labelHash"`
	ParentName string             `json:"parentName"`
	Name       string             `json:"name"`
	Owner      common.Address     `json:"owner"`
	Resolver   common.Address     `json:"resolver"`
	Children   []*SubdomainRecord `json:"children"`
	Addr       *common.Address    `json:"addr,omitempty"`
	Content    *common.Hash       `json:"content,omitempty"`
}

// ContentCID reads the legacy 32 byte content record as a sha2-256 digest and
// returns it as a CIDv0. A missing or zero content record yields cid.Undef.
// ReverseRecord is the name an address claims for itself. Name is empty and
// Resolver null when the address has no reverse record.
type ReverseRecord struct {
	Address  common.Address `json:"address"`
	Name     string         `json:"name"`
	Resolver common.Address `json:"resolver"`
}

func (r *SubdomainRecord) ContentCID() (cid.Cid, error) {
	if r.Content == nil || *r.Content == (common.Hash{}) {
		return cid.Undef, nil
	}
	digest, err := mh.Encode(r.Content.Bytes(), mh.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV0(digest), nil
}

func (r *SubdomainRecord) MarshalJSON() ([]byte, error) {
	type record SubdomainRecord
	out := struct {
		*record
		Children   []*SubdomainRecord `json:"children"`
		ContentCID string             `json:"contentCid,omitempty"`
	}{record: (*record)(r), Children: r.Children}
	if out.Children == nil {
		out.Children = []*SubdomainRecord{}
	}
	c, err := r.ContentCID()
	if err != nil {
		return nil, err
	}
	if c.Defined() {
		out.ContentCID = c.String()
	}
	return json.Marshal(out)
}
