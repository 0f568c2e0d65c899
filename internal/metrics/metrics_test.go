package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestKioskMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewKioskMetrics(reg)

	m.ObserveBooking("Cardiologist", 700)
	m.ObserveBooking("Cardiologist", 650)
	m.ObserveTimeout("idle")
	m.ObservePersistenceFailure("appointment")
	m.ObserveEmergency()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("Cardiologist")))
	assert.Equal(t, 1350.0, testutil.ToFloat64(m.bookingFees.WithLabelValues("Cardiologist")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.timeouts.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistenceFailures.WithLabelValues("appointment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emergencies))
}

func TestKioskMetricsNilSafe(t *testing.T) {
	var m *KioskMetrics
	m.ObserveStep("welcome")
	m.ObserveIdentity("known")
	m.ObserveBooking("Orthopedic", 550)
	m.ObserveTimeout("payment")
	m.ObservePersistenceFailure("patient")
	m.ObserveEmergency()
	m.ObserveRecordsView("ok")
	m.ObserveHTTP("/kiosk/state", "200", 0.01)
}
