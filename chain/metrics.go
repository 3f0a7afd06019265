// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type chainMetrics struct {
	calls        *prometheus.CounterVec
	callDuration prometheus.Histogram
	eventSeq     prometheus.Gauge
}

func (c *Chain) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	c.metrics = &chainMetrics{
		calls: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resi_chain_calls_total",
				Help: "mutating calls by result",
			},
			[]string{"result"},
		),
		callDuration: promautoFactory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "resi_chain_call_duration_seconds",
				Help:    "duration of mutating calls including commit",
				Buckets: prometheus.DefBuckets,
			},
		),
		eventSeq: promautoFactory.NewGauge(
			prometheus.GaugeOpts{
				Name: "resi_chain_event_seq",
				Help: "sequence number of the last journaled event",
			},
		),
	}
}

// resultLabel maps a call error onto a bounded label set
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch KindOf(err) {
	case ErrUnauthorized:
		return "unauthorized"
	case ErrInvalidArgument:
		return "invalid_argument"
	case ErrInvalidState:
		return "invalid_state"
	case ErrCapacityExceeded:
		return "capacity_exceeded"
	case ErrForbidden:
		return "forbidden"
	case ErrExternalDependency:
		return "external_dependency"
	case ErrUpstreamInconsistency:
		return "upstream_inconsistency"
	default:
		return "error"
	}
}
