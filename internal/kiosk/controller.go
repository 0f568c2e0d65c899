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

const (
	DefaultIdleTimeout   = 20 * time.Second
	DefaultPaymentWindow = 300 * time.Second
	DefaultSlipReturn    = 12 * time.Second
)

// ControllerConfig wires a Controller. Store is required; everything else
// has a working default.
type ControllerConfig struct {
	Store     Repository
	Doctors   DoctorDirectory // defaults to Store
	Registry  IdentityRegistry
	Session   *Session
	Clock     Clock
	Announcer Announcer
	Logger    zerolog.Logger
	Metrics   *metrics.KioskMetrics
	Rand      *rand.Rand

	IdleTimeout     time.Duration
	PaymentWindow   time.Duration
	SlipReturn      time.Duration
	RecordsTokenTTL time.Duration

	Location          *time.Location
	AppointmentPrefix string
	RecordsBaseURL    string
	UPIPayee          string
	UPIPayeeName      string
}

// Controller is the booking flow for one kiosk. Methods serialize on a
// single mutex; store I/O runs with the mutex released while the current
// step is marked busy. A step change during that I/O discards the result
// with ErrInterrupted.
type Controller struct {
	cfg       ControllerConfig
	store     Repository
	doctors   DoctorDirectory
	session   *Session
	clock     Clock
	announcer Announcer
	logger    zerolog.Logger
	metrics   *metrics.KioskMetrics

	resolver  *Resolver
	finalizer *Finalizer
	issuer    *TokenIssuer
	idle      *IdleMonitor

	mu              sync.Mutex
	step            Step
	epoch           uint64
	busy            bool
	closed          bool
	trail           trail
	draft           *RegistrationDraft
	doctorList      []Doctor
	recordsToken    string
	paymentTimer    Timer
	paymentDeadline time.Time
	slipTimer       Timer
	slipDeadline    time.Time
}

// State is the kiosk as the front-end renders it.
type State struct {
	Step             Step               `json:"step"`
	Trail            []Step             `json:"trail"`
	Busy             bool               `json:"busy"`
	Session          SessionSnapshot    `json:"session"`
	Draft            *RegistrationDraft `json:"draft,omitempty"`
	IdleEnabled      bool               `json:"idleEnabled"`
	PaymentRemaining int                `json:"paymentRemainingSeconds,omitempty"`
	SlipRemaining    int                `json:"slipRemainingSeconds,omitempty"`
}

// NewController builds a controller and enters the welcome screen.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Doctors == nil {
		cfg.Doctors = cfg.Store
	}
	if cfg.Session == nil {
		cfg.Session = NewSession()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Announcer == nil {
		cfg.Announcer = nopAnnouncer{}
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.PaymentWindow <= 0 {
		cfg.PaymentWindow = DefaultPaymentWindow
	}
	if cfg.SlipReturn <= 0 {
		cfg.SlipReturn = DefaultSlipReturn
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	c := &Controller{
		cfg:       cfg,
		store:     cfg.Store,
		doctors:   cfg.Doctors,
		session:   cfg.Session,
		clock:     cfg.Clock,
		announcer: cfg.Announcer,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		resolver:  NewResolver(cfg.Store, cfg.Registry),
		finalizer: NewFinalizer(FinalizerConfig{
			Store:    cfg.Store,
			Clock:    cfg.Clock,
			Location: cfg.Location,
			Prefix:   cfg.AppointmentPrefix,
			Rand:     cfg.Rand,
			Logger:   cfg.Logger,
			Metrics:  cfg.Metrics,
		}),
		issuer: NewTokenIssuer(cfg.Store, cfg.Clock, cfg.RecordsTokenTTL),
	}
	c.idle = NewIdleMonitor(cfg.Clock, cfg.IdleTimeout, c.onIdle)

	c.mu.Lock()
	c.enterLocked(StepWelcome)
	c.mu.Unlock()
	return c
}

// Session exposes the session store for read-only callers.
func (c *Controller) Session() *Session { return c.session }

// State returns the current screen and session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Activity records a qualifying input (tap, key press, pointer move). It
// never leaves the attract screen; use Wake for that.
func (c *Controller) Activity() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	return c.stateLocked()
}

// Wake leaves the attract loop for the welcome screen.
func (c *Controller) Wake() (State, error) {
	return c.fire("wake", EventTouch)
}

func (c *Controller) StartNew() (State, error) {
	return c.fire("start new patient", EventStartNew)
}

func (c *Controller) StartExisting() (State, error) {
	return c.fire("start existing patient", EventStartExisting)
}

// Home abandons the current booking and returns to the welcome screen.
func (c *Controller) Home() (State, error) {
	return c.fire("home", EventHome)
}

// SubmitIdentity resolves a 12-digit identity number. A known patient is
// set on the session and the kiosk moves to history; otherwise the
// registration draft is prepared.
func (c *Controller) SubmitIdentity(ctx context.Context, number string) (IdentityResolution, error) {
	epoch, err := c.begin("submit identity", StepIdentityEntry, func() error {
		return ValidateIdentityNumber(number)
	})
	if err != nil {
		return IdentityResolution{}, err
	}

	res, err := c.resolver.Resolve(ctx, number)

	c.mu.Lock()
	defer c.mu.Unlock()
	if serr := c.settleLocked(epoch); serr != nil {
		return IdentityResolution{}, serr
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("identity lookup failed")
		return IdentityResolution{}, err
	}
	c.metrics.ObserveIdentity(string(res.Outcome))

	switch res.Outcome {
	case IdentityKnown:
		c.session.SetPatient(res.Patient)
		c.announceLocked(CuePatientKnown, res.Patient.Name)
		c.transitionLocked(EventKnownPatient)
	case IdentityPrefillable:
		c.draft = res.Draft
		c.announceLocked(CueIdentityPrefilled, res.Draft.Name)
		c.transitionLocked(EventDraftReady)
	default:
		c.draft = res.Draft
		c.announceLocked(CueIdentityUnknown)
		c.transitionLocked(EventDraftReady)
	}
	return res, nil
}

// Register validates the confirmed form, persists the new patient and moves
// to department selection. The identity number always comes from the
// pending draft.
func (c *Controller) Register(ctx context.Context, form RegistrationDraft) (*Patient, error) {
	var candidate Patient
	epoch, err := c.begin("register", StepRegistration, func() error {
		form.Aadhaar = c.draft.Aadhaar
		p, err := ValidateRegistration(form)
		candidate = p
		return err
	})
	if err != nil {
		return nil, err
	}

	candidate.CreatedAt = c.clock.Now()
	created, err := c.store.CreatePatient(ctx, candidate)

	c.mu.Lock()
	defer c.mu.Unlock()
	if serr := c.settleLocked(epoch); serr != nil {
		return nil, serr
	}
	if err != nil {
		c.metrics.ObservePersistenceFailure("patient")
		c.logger.Warn().Err(err).Msg("could not register patient")
		return nil, unavailable("create patient", err)
	}

	c.session.SetPatient(created)
	c.draft = nil
	c.announceLocked(CueRegistered, created.Name)
	c.transitionLocked(EventRegistered)
	return created, nil
}

func (c *Controller) SearchByPhone(ctx context.Context, phone string) (*Patient, error) {
	return c.Search(ctx, SearchPhone, phone)
}

func (c *Controller) SearchByName(ctx context.Context, prefix string) (*Patient, error) {
	return c.Search(ctx, SearchName, prefix)
}

// Search looks up an existing patient. A match is set on the session and
// the kiosk moves to history; no match returns ErrPatientNotFound and stays.
func (c *Controller) Search(ctx context.Context, mode SearchMode, query string) (*Patient, error) {
	epoch, err := c.begin("search patient", StepPatientSearch, func() error {
		return validateSearch(mode, query)
	})
	if err != nil {
		return nil, err
	}

	p, err := findPatient(ctx, c.store, mode, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if serr := c.settleLocked(epoch); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}

	c.session.SetPatient(p)
	c.announceLocked(CuePatientFound, p.Name)
	c.transitionLocked(EventPatientFound)
	return p, nil
}

// History lists the current patient's visits, newest first. A store error
// yields an empty list.
func (c *Controller) History(ctx context.Context) ([]HistoryEntry, error) {
	var p *Patient
	epoch, err := c.begin("history", StepHistory, func() error {
		p = c.session.Snapshot().Patient
		return nil
	})
	if err != nil {
		return nil, err
	}

	appts, err := c.store.ListAppointmentsByPatient(ctx, p.ID)
	if err != nil {
		c.logger.Warn().Err(err).Str("patient_id", p.ID).Msg("could not fetch history")
		appts = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if serr := c.settleLocked(epoch); serr != nil {
		return nil, serr
	}
	return BuildHistory(p, appts), nil
}

// BookNew starts another booking for the current patient.
func (c *Controller) BookNew() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked("book new", StepHistory); err != nil {
		return c.stateLocked(), err
	}
	c.touchLocked()
	c.session.ResetFlow()
	c.transitionLocked(EventBookNew)
	return c.stateLocked(), nil
}

// Departments returns the department catalog.
func (c *Controller) Departments() []Department {
	out := make([]Department, len(Departments))
	copy(out, Departments)
	return out
}

// SelectDepartment chooses a department. Choosing a different department
// drops the doctor and slot picked for the previous one.
func (c *Controller) SelectDepartment(id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if err := c.checkLocked("select department", StepDepartmentSelect); err != nil {
		return c.stateLocked(), err
	}
	dept, ok := FindDepartment(id)
	if !ok {
		return c.stateLocked(), fmt.Errorf("%w: %s", ErrDepartmentNotFound, id)
	}

	if cur := c.session.Snapshot().SelectedDept; cur == nil || cur.ID != dept.ID {
		c.session.SetSelectedDoctor(nil)
		c.session.SetSelectedSlot("")
		c.doctorList = nil
	}
	c.session.SetSelectedDept(dept)
	c.announceLocked(CueDepartmentChosen, dept.DisplayName(c.session.Locale()))
	c.transitionLocked(EventDepartmentChosen)
	return c.stateLocked(), nil
}

// Doctors lists doctors for the selected department. An empty or failed
// directory lookup falls back to the built-in roster.
func (c *Controller) Doctors(ctx context.Context) ([]Doctor, error) {
	var dept *Department
	epoch, err := c.begin("list doctors", StepDoctorSelect, func() error {
		dept = c.session.Snapshot().SelectedDept
		return nil
	})
	if err != nil {
		return nil, err
	}

	list, err := c.doctors.ListDoctorsByDepartment(ctx, dept.ID)
	if err != nil {
		c.logger.Warn().Err(err).Str("department", dept.ID).Msg("doctor directory unavailable, using built-in roster")
	}
	if err != nil || len(list) == 0 {
		list = defaultDoctorsFor(dept.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if serr := c.settleLocked(epoch); serr != nil {
		return nil, serr
	}
	c.doctorList = list
	c.announceLocked(CueDoctorsShown, dept.DisplayName(c.session.Locale()))

	out := make([]Doctor, len(list))
	copy(out, list)
	return out, nil
}

// SelectDoctor sets the doctor and slot together and moves to payment. The
// doctor must come from the last Doctors listing.
func (c *Controller) SelectDoctor(doctorID, slot string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if err := c.checkLocked("select doctor", StepDoctorSelect); err != nil {
		return c.stateLocked(), err
	}

	dept := c.session.Snapshot().SelectedDept
	var doc *Doctor
	for i := range c.doctorList {
		if c.doctorList[i].ID == doctorID && c.doctorList[i].Department == dept.ID {
			d := c.doctorList[i]
			doc = &d
			break
		}
	}
	if doc == nil {
		return c.stateLocked(), fmt.Errorf("%w: %s", ErrDoctorNotFound, doctorID)
	}
	if !doc.HasSlot(slot) {
		return c.stateLocked(), invalid("slot", "Please choose one of the available time slots")
	}

	c.session.SetSelectedDoctor(doc)
	c.session.SetSelectedSlot(slot)
	c.announceLocked(CueDoctorChosen, doc.Name, slot)
	c.transitionLocked(EventDoctorChosen)
	return c.stateLocked(), nil
}

// Payment describes the open payment window.
func (c *Controller) Payment() (PaymentQuote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return PaymentQuote{}, ErrClosed
	}
	if c.step != StepPayment {
		return PaymentQuote{}, fmt.Errorf("payment: %w (on %s)", ErrWrongStep, c.step)
	}
	snap := c.session.Snapshot()
	doc := *snap.SelectedDoctor
	return PaymentQuote{
		Doctor:           doc,
		Slot:             snap.SelectedSlot,
		Fee:              doc.Fee,
		UPIIntent:        UPIIntent(c.cfg.UPIPayee, c.cfg.UPIPayeeName, doc.Fee, "Consultation "+doc.Name),
		RemainingSeconds: remainingSeconds(c.clock.Now(), c.paymentDeadline),
	}, nil
}

// ConfirmPayment is the "I have paid" action. It closes the payment window,
// finalizes the appointment, issues a records token and moves to
// confirmation.
func (c *Controller) ConfirmPayment(ctx context.Context) (*Appointment, error) {
	var deadline time.Time
	epoch, err := c.begin("confirm payment", StepPayment, func() error {
		deadline = c.paymentDeadline
		c.stopPaymentLocked()
		return nil
	})
	if err != nil {
		return nil, err
	}

	appt, err := c.finalizer.Finalize(ctx, c.session)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if serr := c.settleLocked(epoch); serr != nil {
			return nil, serr
		}
		c.resumePaymentLocked(deadline)
		return nil, err
	}

	tokenID := ""
	if tok, err := c.issuer.Issue(ctx, appt.PatientID); err != nil {
		c.metrics.ObservePersistenceFailure("access_token")
		c.logger.Warn().Err(err).Str("appointment_id", appt.AppointmentID).Msg("could not issue records token")
	} else {
		tokenID = tok.TokenID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if serr := c.settleLocked(epoch); serr != nil {
		return nil, serr
	}
	c.session.SetAppointment(appt)
	c.recordsToken = tokenID
	c.announceLocked(CuePaymentConfirmed, appt.AppointmentID, appt.TokenNumber)
	c.transitionLocked(EventPaid)
	return appt, nil
}

// Slip returns the confirmation slip for the finalized appointment.
func (c *Controller) Slip() (Slip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Slip{}, ErrClosed
	}
	if c.step != StepConfirmation {
		return Slip{}, fmt.Errorf("slip: %w (on %s)", ErrWrongStep, c.step)
	}
	snap := c.session.Snapshot()
	phone := ""
	if snap.Patient != nil {
		phone = snap.Patient.Phone
	}
	return Slip{
		Appointment:  *snap.Appointment,
		Patient:      snap.Patient,
		RecordsToken: c.recordsToken,
		RecordsURL:   RecordsURL(c.cfg.RecordsBaseURL, c.recordsToken),
		WhatsAppURL:  WhatsAppShareURL(*snap.Appointment, phone),
	}, nil
}

// Back returns to the previously visited screen, keeping the session as
// is. It is not available on the attract, welcome and confirmation screens.
func (c *Controller) Back() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.stateLocked(), ErrClosed
	}
	c.touchLocked()
	switch c.step {
	case StepAttract, StepWelcome, StepConfirmation:
		return c.stateLocked(), fmt.Errorf("back: %w (on %s)", ErrWrongStep, c.step)
	}
	prev, ok := c.trail.back()
	if !ok {
		prev = StepWelcome
	}
	c.enterLocked(prev)
	return c.stateLocked(), nil
}

// Navigate jumps to step. Entry preconditions apply, so the kiosk may land
// on an earlier step instead.
func (c *Controller) Navigate(step Step) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.stateLocked(), ErrClosed
	}
	c.touchLocked()
	// Timed steps keep their running countdown.
	if step == c.step && (step == StepPayment || step == StepConfirmation) {
		return c.stateLocked(), nil
	}
	c.enterLocked(step)
	return c.stateLocked(), nil
}

func (c *Controller) SetLocale(l Locale) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if l != LocaleEnglish && l != LocaleTamil {
		return c.stateLocked(), invalid("locale", "Supported languages are en and ta")
	}
	c.session.SetLocale(l)
	return c.stateLocked(), nil
}

func (c *Controller) ToggleTheme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	return c.session.ToggleTheme()
}

// Emergency raises the SOS alert. It works on every screen and leaves the
// flow where it is.
func (c *Controller) Emergency() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	c.metrics.ObserveEmergency()
	c.logger.Warn().Str("step", string(c.step)).Msg("emergency assistance requested")
	c.announceLocked(CueEmergency)
	return c.stateLocked()
}

// Close stops every timer. In-flight requests finish with ErrInterrupted and
// later calls fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.busy = false
	c.idle.Stop()
	c.stopPaymentLocked()
	c.stopSlipLocked()
}

func (c *Controller) fire(op string, ev Event) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.stateLocked(), ErrClosed
	}
	c.touchLocked()
	if _, wild := wildcards[ev]; c.busy && !wild {
		return c.stateLocked(), fmt.Errorf("%s: %w", op, ErrBusy)
	}
	if _, err := Transition(c.step, ev); err != nil {
		return c.stateLocked(), fmt.Errorf("%s: %w (on %s)", op, ErrWrongStep, c.step)
	}
	c.transitionLocked(ev)
	return c.stateLocked(), nil
}

func (c *Controller) checkLocked(op string, step Step) error {
	if c.closed {
		return ErrClosed
	}
	if c.step != step {
		return fmt.Errorf("%s: %w (on %s)", op, ErrWrongStep, c.step)
	}
	if c.busy {
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}
	return nil
}

// begin validates the call against the current step, runs validate under
// the lock and marks the step busy. The returned epoch must be passed to
// settleLocked once the I/O is done.
func (c *Controller) begin(op string, step Step, validate func() error) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if err := c.checkLocked(op, step); err != nil {
		return 0, err
	}
	if validate != nil {
		if err := validate(); err != nil {
			return 0, err
		}
	}
	c.busy = true
	return c.epoch, nil
}

func (c *Controller) settleLocked(epoch uint64) error {
	if c.closed || c.epoch != epoch {
		return ErrInterrupted
	}
	c.busy = false
	return nil
}

// transitionLocked applies ev from the current step. Callers have already
// checked that the transition exists.
func (c *Controller) transitionLocked(ev Event) {
	to, err := Transition(c.step, ev)
	if err != nil {
		c.logger.Error().Err(err).Msg("transition rejected")
		return
	}
	c.enterLocked(to)
}

// enterLocked moves to target, following precondition redirects, and runs
// the entry actions of the step it lands on.
func (c *Controller) enterLocked(target Step) {
	step := guard(target, guardState{
		session:      c.session.Snapshot(),
		pendingDraft: c.draft != nil,
	})
	from := c.step

	c.stopPaymentLocked()
	c.stopSlipLocked()
	c.step = step
	c.epoch++
	c.busy = false
	epoch := c.epoch

	switch step {
	case StepAttract:
		c.idle.Stop()
		c.trail.reset(step)
	case StepWelcome:
		c.session.ResetAll()
		c.draft = nil
		c.doctorList = nil
		c.recordsToken = ""
		c.trail.reset(step)
		c.idle.Start()
	default:
		c.trail.push(step)
		c.idle.Start()
	}

	switch step {
	case StepWelcome:
		c.announceLocked(CueWelcome)
	case StepIdentityEntry:
		c.announceLocked(CueIdentityPrompt)
	case StepPatientSearch:
		c.announceLocked(CueExistingPatient)
	case StepHistory:
		c.announceLocked(CueHistory, c.session.Snapshot().Patient.Name)
	case StepDepartmentSelect:
		c.announceLocked(CueDepartmentPrompt)
	case StepPayment:
		c.paymentDeadline = c.clock.Now().Add(c.cfg.PaymentWindow)
		c.paymentTimer = c.clock.AfterFunc(c.cfg.PaymentWindow, func() { c.onPaymentExpired(epoch) })
		fee := c.session.Snapshot().SelectedDoctor.Fee
		c.announceLocked(CuePaymentPrompt, fee, int(c.cfg.PaymentWindow/time.Minute))
	case StepConfirmation:
		c.slipDeadline = c.clock.Now().Add(c.cfg.SlipReturn)
		c.slipTimer = c.clock.AfterFunc(c.cfg.SlipReturn, func() { c.onSlipTimeout(epoch) })
		appt := c.session.Snapshot().Appointment
		c.announceLocked(CueSlip, appt.AppointmentID, appt.TokenNumber)
	}

	c.metrics.ObserveStep(string(step))
	ev := c.logger.Debug().Str("from", string(from)).Str("to", string(step))
	if step != target {
		ev = ev.Str("requested", string(target))
	}
	ev.Msg("step entered")
}

func (c *Controller) stopPaymentLocked() {
	if c.paymentTimer != nil {
		c.paymentTimer.Stop()
		c.paymentTimer = nil
	}
	c.paymentDeadline = time.Time{}
}

func (c *Controller) stopSlipLocked() {
	if c.slipTimer != nil {
		c.slipTimer.Stop()
		c.slipTimer = nil
	}
	c.slipDeadline = time.Time{}
}

func (c *Controller) touchLocked() {
	if c.step != StepAttract {
		c.idle.Touch()
	}
}

func (c *Controller) onIdle(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.step == StepAttract || !c.idle.Current(gen) {
		return
	}
	c.metrics.ObserveTimeout("idle")
	c.logger.Info().Str("step", string(c.step)).Msg("idle timeout, returning to attract loop")
	c.transitionLocked(EventIdle)
}

// resumePaymentLocked restarts the payment timer against the deadline set
// when the payment step was entered. The window never grows back.
func (c *Controller) resumePaymentLocked(deadline time.Time) {
	remaining := deadline.Sub(c.clock.Now())
	if deadline.IsZero() || remaining <= 0 {
		c.expirePaymentLocked()
		return
	}
	epoch := c.epoch
	c.paymentDeadline = deadline
	c.paymentTimer = c.clock.AfterFunc(remaining, func() { c.onPaymentExpired(epoch) })
}

func (c *Controller) onPaymentExpired(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.epoch != epoch || c.step != StepPayment || c.paymentDeadline.IsZero() {
		return
	}
	c.expirePaymentLocked()
}

func (c *Controller) expirePaymentLocked() {
	c.paymentTimer = nil
	c.metrics.ObserveTimeout("payment")
	c.logger.Info().Msg("payment window expired, resetting session")
	c.announceLocked(CuePaymentExpired)
	c.session.ResetAll()
	c.transitionLocked(EventPaymentExpired)
}

func (c *Controller) onSlipTimeout(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.epoch != epoch || c.step != StepConfirmation {
		return
	}
	c.slipTimer = nil
	c.metrics.ObserveTimeout("slip")
	c.transitionLocked(EventSlipTimeout)
}

func (c *Controller) announceLocked(cue Cue, args ...any) {
	loc := c.session.Locale()
	c.announcer.Announce(Announcement{Cue: cue, Locale: loc, Text: Phrase(cue, loc, args...)})
}

func (c *Controller) stateLocked() State {
	now := c.clock.Now()
	st := State{
		Step:        c.step,
		Trail:       c.trail.snapshot(),
		Busy:        c.busy,
		Session:     c.session.Snapshot(),
		IdleEnabled: c.idle.Enabled(),
	}
	if c.draft != nil {
		d := *c.draft
		st.Draft = &d
	}
	if !c.paymentDeadline.IsZero() {
		st.PaymentRemaining = remainingSeconds(now, c.paymentDeadline)
	}
	if !c.slipDeadline.IsZero() {
		st.SlipRemaining = remainingSeconds(now, c.slipDeadline)
	}
	return st
}

func remainingSeconds(now, deadline time.Time) int {
	if deadline.IsZero() || !now.Before(deadline) {
		return 0
	}
	d := deadline.Sub(now)
	return int((d + time.Second - 1) / time.Second)
}
