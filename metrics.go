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

package certstore

import (
	"errors"

	"github.com/blinklabs-io/certstore/access"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type storeMetrics struct {
	operations *prometheus.CounterVec
}

func registerStoreMetrics(
	promRegistry prometheus.Registerer,
) *storeMetrics {
	if promRegistry == nil {
		return nil
	}
	promautoFactory := promauto.With(promRegistry)
	return &storeMetrics{
		operations: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "certstore_operations_total",
				Help: "number of record store operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
}

// observe records an operation outcome. Outcomes are bucketed into the
// error classes the store surfaces to callers.
func (m *storeMetrics) observe(op access.Operation, err error) {
	if m == nil {
		return
	}
	var notFoundErr NotFoundError
	outcome := "success"
	switch {
	case err == nil:
		// success
	case errors.Is(err, ErrNotAuthorized):
		outcome = "denied"
	case errors.As(err, &notFoundErr):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	m.operations.WithLabelValues(op.String(), outcome).Inc()
}
