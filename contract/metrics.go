// Copyright 2026 Blink Labs Software
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

package contract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type contractMetrics struct {
	operations   *prometheus.CounterVec
	tokensMinted prometheus.Counter
}

func (c *Contract) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	c.metrics = &contractMetrics{
		operations: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "laurel_contract_operations_total",
				Help: "contract operations by name and result",
			},
			[]string{"operation", "result"},
		),
		tokensMinted: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "laurel_contract_tokens_minted_total",
				Help: "badges minted",
			},
		),
	}
}

func (c *Contract) recordOperation(operation string, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.operations.WithLabelValues(operation, errorKind(err)).Inc()
}
