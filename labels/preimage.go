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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tidwall/gjson"

	"github.com/vulcanize/ens_explorer/utils"
)

const DefaultPreimageURL = "https://preimagedb.appspot.com"

// Response budget per requested hash: a quoted, escaped label and its separator
const maxPreimageBytes = 1024

// PreimageClient queries a keccak256 preimage database over HTTP.
// The service takes a JSON array of hashes and answers with an array of the
// same length holding a label or null for each.
type PreimageClient struct {
	baseURL string
	http    *http.Client
}

func NewPreimageClient(baseURL string) *PreimageClient {
	return &PreimageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *PreimageClient) DecryptHashes(ctx context.Context, hashes ...common.Hash) ([]string, error) {
	if len(hashes) == 0 {
		return []string{}, nil
	}

	query := make([]string, len(hashes))
	for i, hash := range hashes {
		query[i] = hash.Hex()
	}
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/keccak256/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("preimage query: %w", err)
	}
	defer resp.Body.Close()

	limit := int64(len(hashes))*maxPreimageBytes + 2
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read preimage response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("preimage query: response exceeds %d bytes for %d hashes", limit, len(hashes))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("preimage query: unexpected status %d", resp.StatusCode)
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("preimage query: expected a JSON array, got %q", truncate(string(body), 64))
	}
	items := result.Array()
	if len(items) != len(hashes) {
		return nil, fmt.Errorf("%w: asked for %d, got %d", ErrMisalignedLabels, len(hashes), len(items))
	}

	labels := make([]string, len(hashes))
	for i, item := range items {
		if item.Type != gjson.String {
			continue
		}
		label := item.String()
		// the service is untrusted; an answer only counts if it hashes back
		if utils.LabelHash(label) != hashes[i] {
			log.Warnw("discarding preimage that does not match its hash", "hash", hashes[i].Hex(), "label", label)
			continue
		}
		labels[i] = label
	}
	return labels, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
