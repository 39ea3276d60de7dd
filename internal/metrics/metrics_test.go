package metrics_test

import (
	"testing"

	"pdv-backend/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()

	m := metrics.NewMetrics(reg)
	m.SentimentCalls.WithLabelValues("outlet", "ok").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.SentimentCalls.WithLabelValues("outlet", "ok")), 0)
	// registering twice on the same registry must fail
	require.Panics(t, func() { metrics.NewMetrics(reg) })
}
