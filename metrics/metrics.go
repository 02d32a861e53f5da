// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for SeedRuns.
const (
	OutcomeCreated     = "created"
	OutcomeExists      = "exists"
	OutcomeNoAdmin     = "admin_missing"
	OutcomeIDConflict  = "token_id_conflict"
	OutcomeLockTimeout = "lock_timeout"
	OutcomeError       = "error"
)

// Registry holds only this tool's collectors so a textfile export does not
// carry Go runtime metrics.
var Registry = prometheus.NewRegistry()

var (
	SeedRuns = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "bookstack_test_token_seed_runs_total",
		Help: "Total number of test token seed runs",
	}, []string{"outcome"})

	SeedDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "bookstack_test_token_seed_duration_seconds",
		Help:    "Time spent seeding the test token",
		Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 10), // 10ms to ~5s
	})

	LockWait = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "bookstack_test_token_lock_wait_seconds",
		Help:    "Time spent waiting for the seed lock",
		Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 12),
	})
)

// WriteTextfile dumps the registry for the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
