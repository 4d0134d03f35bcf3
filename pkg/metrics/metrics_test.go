package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.RecordDBQuery("select", time.Millisecond, nil)
		m.RecordTransition("accept", "ok")
		m.RecordTxRetry()
		m.RecordNotification("kafka", errors.New("boom"))
		m.RecordNotificationDropped()
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "pg-booking")

	m.RecordTransition("reject", "ok")
	m.RecordTransition("reject", "ok")
	m.RecordTransition("reject", "invalid_state")
	m.RecordTxRetry()
	m.RecordNotification("inbox", nil)
	m.RecordNotification("inbox", errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingTransitions.WithLabelValues("pg-booking", "reject", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingTransitions.WithLabelValues("pg-booking", "reject", "invalid_state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txRetries.WithLabelValues("pg-booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("pg-booking", "inbox", "error")))
}
