package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/vetting/applications", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/vetting/applications", "GET", 200, 5*time.Millisecond)

	got := testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/vetting/applications", "200"))
	assert.Equal(t, float64(2), got)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "NOT_FOUND")
		m.RecordEvent("application_submitted")
	})
	assert.Nil(t, m.Registry())
}

func TestMetricsRecordEvent(t *testing.T) {
	m := NewMetrics()
	m.RecordEvent("task_updated")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.domainEvents.WithLabelValues("task_updated")))
}
