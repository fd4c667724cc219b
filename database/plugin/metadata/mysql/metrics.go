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

package mysql

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (d *MetadataStoreMysql) registerMetrics() {
	factory := promauto.With(d.promRegistry)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "laurel_metadata_mysql_mints",
			Help: "Number of badge mints recorded in the metadata store",
		},
		func() float64 {
			count, err := d.CountMints(nil)
			if err != nil {
				return 0
			}
			return float64(count)
		},
	)
}
