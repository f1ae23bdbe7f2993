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

package discovery

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vulcanize/ens_explorer/models"
	"github.com/vulcanize/ens_explorer/utils"
)

// Dedup keeps the most recent event per label hash. Events must be in chain
// order; the result is newest first.
func Dedup(events []models.EventRecord) []models.EventRecord {
	seen := make(map[common.Hash]bool, len(events))
	latest := make([]models.EventRecord, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		if seen[events[i].LabelHash] {
			continue
		}
		seen[events[i].LabelHash] = true
		latest = append(latest, events[i])
	}
	return latest
}

// DropAbandoned removes records owned by the null address, keeping order
func DropAbandoned(records []*models.SubdomainRecord) []*models.SubdomainRecord {
	kept := make([]*models.SubdomainRecord, 0, len(records))
	for _, record := range records {
		if utils.IsNull(record.Owner) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}
