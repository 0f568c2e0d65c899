package kiosk

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-kiosk/internal/metrics"
)

// Finalizer turns a completed booking into an appointment. It performs no
// deduplication: every call allocates a fresh ID and consumes a token.
type Finalizer struct {
	store   AppointmentStore
	clock   Clock
	loc     *time.Location
	prefix  string
	logger  zerolog.Logger
	metrics *metrics.KioskMetrics

	rngMu sync.Mutex
	rng   *rand.Rand
}

type FinalizerConfig struct {
	Store    AppointmentStore
	Clock    Clock
	Location *time.Location // zone for the printed visit date
	Prefix   string         // 2-letter ID prefix
	Rand     *rand.Rand
	Logger   zerolog.Logger
	Metrics  *metrics.KioskMetrics
}

func NewFinalizer(cfg FinalizerConfig) *Finalizer {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "SC"
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Finalizer{
		store:   cfg.Store,
		clock:   cfg.Clock,
		loc:     cfg.Location,
		prefix:  cfg.Prefix,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		rng:     cfg.Rand,
	}
}

// Finalize reads the booking from s, allocates an ID and the next queue
// token and persists the appointment. It does not write the appointment
// back into s; the caller does that once it knows the session is still the
// one the booking was made in.
//
// A persistence failure is logged and swallowed. The token is already
// allocated and the printed slip is the patient's proof, so the booking
// goes ahead and the backing record is left for manual reconciliation.
func (f *Finalizer) Finalize(ctx context.Context, s *Session) (*Appointment, error) {
	snap := s.Snapshot()
	if snap.Patient == nil || snap.SelectedDoctor == nil || snap.SelectedSlot == "" {
		return nil, ErrIncompleteBooking
	}

	now := f.clock.Now()
	appt := Appointment{
		AppointmentID: f.NewAppointmentID(now),
		PatientID:     snap.Patient.ID,
		PatientName:   snap.Patient.Name,
		DoctorID:      snap.SelectedDoctor.ID,
		DoctorName:    snap.SelectedDoctor.Name,
		Slot:          snap.SelectedSlot,
		Date:          FormatVisitDate(now.In(f.loc)),
		Fee:           snap.SelectedDoctor.Fee,
		PaymentStatus: PaymentStatusPaid,
		TokenNumber:   s.NextToken(),
		CreatedAt:     now,
	}
	if snap.SelectedDept != nil {
		appt.Department = snap.SelectedDept.DisplayName(LocaleEnglish)
	}

	if err := f.store.CreateAppointment(ctx, appt); err != nil {
		f.metrics.ObservePersistenceFailure("appointment")
		f.logger.Warn().
			Err(err).
			Str("appointment_id", appt.AppointmentID).
			Int("token", appt.TokenNumber).
			Msg("could not save appointment, continuing with printed slip")
	}
	f.metrics.ObserveBooking(appt.Department, appt.Fee)

	return &appt, nil
}

// NewAppointmentID returns prefix + yyMMdd (UTC) + 4 random digits. It is a
// short display identifier and may collide.
func (f *Finalizer) NewAppointmentID(at time.Time) string {
	f.rngMu.Lock()
	n := 1000 + f.rng.Intn(9000)
	f.rngMu.Unlock()
	return fmt.Sprintf("%s%s%04d", f.prefix, at.UTC().Format("060102"), n)
}

// FormatVisitDate renders t as d/m/yyyy, the way the slip prints dates.
func FormatVisitDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
