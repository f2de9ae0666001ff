// Validra is a declarative data-validation engine.
// Copyright (C) 2026 Matthew Burns
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package metrics wraps the process-wide prometheus collectors for
// validation and compile observability. They are exposed through
// Handler, separately from the Engine Facade's GetMetrics snapshot of
// the object pool's counters and the path cache's size, which does not
// include them. It is grounded in, and structurally
// mirrors, the teacher module's internal/provisioner/metrics package:
// a package-level mutex-guarded *prometheus.Registry rebuilt by Reset,
// CounterVec/HistogramVec collectors for the domain's operations, and
// a Handler for exposing them over HTTP.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu  sync.RWMutex
	reg *prometheus.Registry

	validationsTotal *prometheus.CounterVec
	validationTime   *prometheus.HistogramVec
	compilesTotal    *prometheus.CounterVec
	compileTime      prometheus.Histogram
	compiledRules    prometheus.Gauge
)

func init() {
	resetLocked()
}

// Reset clears and reinitializes every collector. Primarily used by
// tests to assert against a clean counter state.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	resetLocked()
}

// Handler returns an HTTP handler exposing the collectors in the
// Prometheus exposition format.
func Handler() http.Handler {
	mu.RLock()
	registry := reg
	mu.RUnlock()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveValidation records one sync/async/stream-item validate* call:
// whether the record was valid, and how long evaluating its rules took.
func ObserveValidation(valid bool, d time.Duration) {
	status := "invalid"
	if valid {
		status = "valid"
	}
	mu.RLock()
	defer mu.RUnlock()
	if validationsTotal != nil {
		validationsTotal.WithLabelValues(status).Inc()
	}
	if validationTime != nil {
		validationTime.WithLabelValues(status).Observe(d.Seconds())
	}
}

// ObserveCompile records one New()-time rule compilation: its outcome
// (ok/error), duration, and the resulting rule count on success.
func ObserveCompile(ok bool, ruleCount int, d time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	mu.RLock()
	defer mu.RUnlock()
	if compilesTotal != nil {
		compilesTotal.WithLabelValues(status).Inc()
	}
	if compileTime != nil {
		compileTime.Observe(d.Seconds())
	}
	if ok && compiledRules != nil {
		compiledRules.Set(float64(ruleCount))
	}
}

func resetLocked() {
	registry := prometheus.NewRegistry()

	valTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validra",
		Name:      "validations_total",
		Help:      "Total validate* calls, grouped by outcome.",
	}, []string{"result"})

	valDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "validra",
		Name:      "validation_duration_seconds",
		Help:      "Duration of a single validate* call against one record.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"result"})

	compTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validra",
		Name:      "compiles_total",
		Help:      "Total rule-set compilations, grouped by outcome.",
	}, []string{"result"})

	compDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "validra",
		Name:      "compile_duration_seconds",
		Help:      "Duration of compiling a rule set into its executable form.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	rulesGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "validra",
		Name:      "compiled_rules",
		Help:      "Number of rules in the most recently compiled rule set.",
	})

	registry.MustRegister(valTotal, valDuration, compTotal, compDuration, rulesGauge)

	reg = registry
	validationsTotal = valTotal
	validationTime = valDuration
	compilesTotal = compTotal
	compileTime = compDuration
	compiledRules = rulesGauge
}
