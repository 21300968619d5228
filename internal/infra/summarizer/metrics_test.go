package summarizer

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusSummaryMetrics(t *testing.T) {
	metrics := NewPrometheusSummaryMetrics()

	require.NotNil(t, metrics)
	assert.NotNil(t, metrics.lengthHistogram)
	assert.NotNil(t, metrics.exceededCounter)
	assert.NotNil(t, metrics.complianceGauge)
	assert.NotNil(t, metrics.durationHistogram)
}

func TestNewPrometheusSummaryMetrics_Singleton(t *testing.T) {
	assert.Same(t, NewPrometheusSummaryMetrics(), NewPrometheusSummaryMetrics())
}

func TestPrometheusSummaryMetrics_RecordLimitExceeded(t *testing.T) {
	metrics := NewPrometheusSummaryMetrics()
	before := testutil.ToFloat64(metrics.exceededCounter)

	metrics.RecordLimitExceeded()

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.exceededCounter))
}

func TestPrometheusSummaryMetrics_RecordCompliance(t *testing.T) {
	metrics := NewPrometheusSummaryMetrics()

	metrics.RecordCompliance(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.complianceGauge))

	metrics.RecordCompliance(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.complianceGauge))
}

func TestPrometheusSummaryMetrics_ConcurrentAccess(t *testing.T) {
	metrics := NewPrometheusSummaryMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			metrics.RecordLength(n * 10)
			metrics.RecordDuration(time.Duration(n) * time.Millisecond)
			metrics.RecordCompliance(n%2 == 0)
		}(i)
	}
	wg.Wait()
}

func TestGetOrCreateCounter_ReturnsExisting(t *testing.T) {
	c1 := getOrCreateCounter(prometheusCounterOpts("aggregator_test_get_or_create_total"))
	c2 := getOrCreateCounter(prometheusCounterOpts("aggregator_test_get_or_create_total"))

	c1.Inc()
	assert.Equal(t, testutil.ToFloat64(c1), testutil.ToFloat64(c2))
}

func prometheusCounterOpts(name string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Name: name, Help: "test counter"}
}
