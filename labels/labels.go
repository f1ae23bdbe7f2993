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

// Package labels recovers plaintext labels from label hashes. Every lookup
// returns one entry per input hash, in input order, with "" for hashes it
// could not resolve.
package labels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("labels")

var ErrMisalignedLabels = errors.New("labels: result does not line up with the requested hashes")

// Best-effort remote preimage lookup
type Decrypter interface {
	DecryptHashes(ctx context.Context, hashes ...common.Hash) ([]string, error)
}

// Lookup against a locally known dictionary
type Checker interface {
	CheckLabels(hashes ...common.Hash) ([]string, error)
}

// Which source wins when both resolve a hash to different labels
type Precedence int

const (
	LocalFirst Precedence = iota
	RemoteFirst
)

func (p Precedence) String() string {
	switch p {
	case LocalFirst:
		return "local"
	case RemoteFirst:
		return "remote"
	}
	return fmt.Sprintf("Precedence(%d)", int(p))
}

func ParsePrecedence(s string) (Precedence, error) {
	switch strings.ToLower(s) {
	case "", "local":
		return LocalFirst, nil
	case "remote":
		return RemoteFirst, nil
	}
	return 0, fmt.Errorf("unknown label precedence %q; expected local or remote", s)
}

// Merge combines local and remote lookups index by index. A resolved value
// beats an unresolved one; when both resolve, precedence decides.
func Merge(local, remote []string, precedence Precedence) ([]string, error) {
	if len(local) != len(remote) {
		return nil, fmt.Errorf("%w: %d local, %d remote", ErrMisalignedLabels, len(local), len(remote))
	}
	merged := make([]string, len(local))
	for i := range local {
		l, r := local[i], remote[i]
		switch {
		case l == "":
			merged[i] = r
		case r == "":
			merged[i] = l
		case l == r:
			merged[i] = l
		default:
			log.Debugw("label sources disagree", "local", l, "remote", r, "precedence", precedence)
			if precedence == RemoteFirst {
				merged[i] = r
			} else {
				merged[i] = l
			}
		}
	}
	return merged, nil
}

// Placeholder is the display label for a hash nobody could resolve
func Placeholder(labelHash common.Hash) string {
	hex := labelHash.Hex()
	return "unknown" + hex[len(hex)-6:]
}
