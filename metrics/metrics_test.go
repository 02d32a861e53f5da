// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	before := testutil.ToFloat64(SeedRuns.WithLabelValues(OutcomeCreated))
	SeedRuns.WithLabelValues(OutcomeCreated).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SeedRuns.WithLabelValues(OutcomeCreated)))

	path := filepath.Join(t.TempDir(), "seed.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bookstack_test_token_seed_runs_total{outcome="created"}`)
	assert.NotContains(t, string(data), "go_goroutines")
}
