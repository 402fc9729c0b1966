package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueOf(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return 0
}

func TestMetrics_HoldLifecycle(t *testing.T) {
	m := NewWithRegistry("appointment-test", prometheus.NewRegistry())

	m.RecordHoldPlaced(OutcomeGranted)
	m.RecordHoldPlaced(OutcomeGranted)
	m.RecordHoldPlaced(OutcomeBusy)
	m.RecordHoldReleased(ReasonExpired)

	assert.Equal(t, 2.0, valueOf(t, m.HoldsPlaced.WithLabelValues(OutcomeGranted)))
	assert.Equal(t, 1.0, valueOf(t, m.HoldsPlaced.WithLabelValues(OutcomeBusy)))
	assert.Equal(t, 1.0, valueOf(t, m.ActiveHolds.WithLabelValues()))
}

func TestMetrics_DBErrorsCounted(t *testing.T) {
	m := NewWithRegistry("appointment-test", prometheus.NewRegistry())

	m.RecordDBQuery("exec", 0.01, nil)
	m.RecordDBQuery("exec", 0.02, errors.New("boom"))

	assert.Equal(t, 1.0, valueOf(t, m.DBQueryErrors.WithLabelValues("exec")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/", "200", 0.1)
		m.RecordHoldPlaced(OutcomeGranted)
		m.RecordHoldReleased(ReasonConfirmed)
		m.RecordViolation("email_empty")
		m.ObserveSlotLockWait(0.001)
	})
}
