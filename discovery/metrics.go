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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	subdomains *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the discovery metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		subdomains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ens",
			Subsystem: "discovery",
			Name:      "subdomains_total",
			Help:      "Subdomain records seen by discovery, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ens",
			Subsystem: "discovery",
			Name:      "duration_seconds",
			Help:      "Time spent per discovery call.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"operation", "result"}),
	}
	for _, c := range []prometheus.Collector{m.subdomains, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.duration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

func (m *Metrics) count(outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.subdomains.WithLabelValues(outcome).Add(float64(n))
}
