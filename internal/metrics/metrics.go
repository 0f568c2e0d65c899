package metrics

import "github.com/prometheus/client_golang/prometheus"

// KioskMetrics exposes counters for the booking flow. A nil *KioskMetrics is
// valid and records nothing.
type KioskMetrics struct {
	stepEntries         *prometheus.CounterVec
	identityOutcomes    *prometheus.CounterVec
	bookings            *prometheus.CounterVec
	bookingFees         *prometheus.CounterVec
	timeouts            *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	emergencies         prometheus.Counter
	recordsViews        *prometheus.CounterVec
	httpLatency         *prometheus.HistogramVec
}

func NewKioskMetrics(reg prometheus.Registerer) *KioskMetrics {
	m := &KioskMetrics{
		stepEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "flow",
			Name:      "step_entries_total",
			Help:      "Screens entered, after precondition redirects",
		}, []string{"step"}),
		identityOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "identity",
			Name:      "resolutions_total",
			Help:      "Identity number resolutions by outcome",
		}, []string{"outcome"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "booking",
			Name:      "finalized_total",
			Help:      "Appointments finalized",
		}, []string{"department"}),
		bookingFees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "booking",
			Name:      "fees_rupees_total",
			Help:      "Consultation fees collected",
		}, []string{"department"}),
		timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "flow",
			Name:      "timeouts_total",
			Help:      "Forced returns by timer kind",
		}, []string{"kind"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "store",
			Name:      "write_failures_total",
			Help:      "Writes that failed and were tolerated",
		}, []string{"record"}),
		emergencies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "flow",
			Name:      "emergency_alerts_total",
			Help:      "SOS button presses",
		}),
		recordsViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "records",
			Name:      "views_total",
			Help:      "Companion records page lookups by result",
		}, []string{"result"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kiosk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of kiosk API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.stepEntries,
		m.identityOutcomes,
		m.bookings,
		m.bookingFees,
		m.timeouts,
		m.persistenceFailures,
		m.emergencies,
		m.recordsViews,
		m.httpLatency,
	)
	return m
}

func (m *KioskMetrics) ObserveStep(step string) {
	if m == nil {
		return
	}
	m.stepEntries.WithLabelValues(step).Inc()
}

func (m *KioskMetrics) ObserveIdentity(outcome string) {
	if m == nil {
		return
	}
	m.identityOutcomes.WithLabelValues(outcome).Inc()
}

func (m *KioskMetrics) ObserveBooking(department string, fee int) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(department).Inc()
	m.bookingFees.WithLabelValues(department).Add(float64(fee))
}

func (m *KioskMetrics) ObserveTimeout(kind string) {
	if m == nil {
		return
	}
	m.timeouts.WithLabelValues(kind).Inc()
}

func (m *KioskMetrics) ObservePersistenceFailure(record string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(record).Inc()
}

func (m *KioskMetrics) ObserveEmergency() {
	if m == nil {
		return
	}
	m.emergencies.Inc()
}

func (m *KioskMetrics) ObserveRecordsView(result string) {
	if m == nil {
		return
	}
	m.recordsViews.WithLabelValues(result).Inc()
}

func (m *KioskMetrics) ObserveHTTP(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(route, status).Observe(seconds)
}
