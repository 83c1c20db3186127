package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("court-booking")

	m.IncReservation(ResultCreated)
	m.IncReservation(ResultCreated)
	m.IncReservation(ResultConflict)
	m.IncNotification("whatsapp", NotificationFailed)
	m.ObserveDBQuery("reservation.create", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues(ResultCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues(ResultConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("whatsapp", NotificationFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("reservation.create")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncReservation(ResultCreated)
		m.IncTxRetry()
		m.IncNotification("email", NotificationSent)
		m.ObserveHTTPRequest("GET", "/x", "200", time.Millisecond)
		m.ObserveDBQuery("q", time.Millisecond, nil)
		m.SetDBPoolStats(1, 1, 0)
	})
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("a")
		New("a")
	})
}
