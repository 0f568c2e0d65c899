package kiosk_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	"github.com/hackgods/hospital-kiosk/internal/kiosk/kiosktest"
	"github.com/hackgods/hospital-kiosk/internal/registry"
)

type harness struct {
	t       *testing.T
	ctx     context.Context
	c       *kiosk.Controller
	session *kiosk.Session
	clock   *kiosktest.Clock
	store   *kiosktest.Store
	ann     *kiosktest.Announcer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	h := &harness{
		t:       t,
		ctx:     context.Background(),
		session: kiosk.NewSession(),
		clock:   kiosktest.NewClock(epoch),
		store:   kiosktest.NewStore(),
		ann:     &kiosktest.Announcer{},
	}
	h.c = kiosk.NewController(kiosk.ControllerConfig{
		Store:             h.store,
		Session:           h.session,
		Registry:          registry.MustDefault(),
		Clock:             h.clock,
		Announcer:         h.ann,
		Logger:            zerolog.Nop(),
		Rand:              rand.New(rand.NewSource(42)),
		Location:          ist,
		AppointmentPrefix: "SC",
		RecordsBaseURL:    "https://care.example/records",
		RecordsTokenTTL:   24 * time.Hour,
		UPIPayee:          "smartcare.hospital@upi",
		UPIPayeeName:      "SmartCare Hospital",
	})
	t.Cleanup(h.c.Close)
	return h
}

func (h *harness) must(_ kiosk.State, err error) {
	h.t.Helper()
	require.NoError(h.t, err)
}

func (h *harness) step() kiosk.Step {
	return h.c.State().Step
}

func (h *harness) putNisha() kiosk.Patient {
	return h.store.PutPatient(kiosk.Patient{
		Aadhaar:   nishaAadhaar,
		Name:      "Nisha Reddy",
		Age:       29,
		Gender:    "Female",
		Phone:     "9123456780",
		CreatedAt: epoch.Add(-48 * time.Hour),
		Visits: []kiosk.Visit{
			{Date: "2025-11-10", Department: "Ophthalmologist", Doctor: "Dr. Sunil Verma", Fee: 450, Token: "A12", Status: "Completed"},
		},
	})
}

// toPayment walks a known patient through to the payment screen with
// Dr. Ramesh Gupta at 8:00 AM.
func (h *harness) toPayment() kiosk.Patient {
	h.t.Helper()
	p := h.putNisha()
	h.must(h.c.StartNew())
	_, err := h.c.SubmitIdentity(h.ctx, nishaAadhaar)
	require.NoError(h.t, err)
	h.must(h.c.BookNew())
	h.must(h.c.SelectDepartment("cardiologist"))
	_, err = h.c.Doctors(h.ctx)
	require.NoError(h.t, err)
	h.must(h.c.SelectDoctor("c1", "8:00 AM"))
	require.Equal(h.t, kiosk.StepPayment, h.step())
	return p
}

func TestControllerStartsOnWelcome(t *testing.T) {
	h := newHarness(t)
	st := h.c.State()
	assert.Equal(t, kiosk.StepWelcome, st.Step)
	assert.True(t, st.IdleEnabled)
	assert.Equal(t, []kiosk.Step{kiosk.StepWelcome}, st.Trail)
	assert.Equal(t, []kiosk.Cue{kiosk.CueWelcome}, h.ann.Cues())
}

func TestKnownPatientGoesStraightToHistory(t *testing.T) {
	h := newHarness(t)
	nisha := h.putNisha()

	h.must(h.c.StartNew())
	res, err := h.c.SubmitIdentity(h.ctx, nishaAadhaar)
	require.NoError(t, err)

	assert.Equal(t, kiosk.IdentityKnown, res.Outcome)
	assert.Equal(t, "Nisha Reddy", res.Patient.Name)
	st := h.c.State()
	assert.Equal(t, kiosk.StepHistory, st.Step)
	assert.Equal(t, nisha.ID, st.Session.Patient.ID)
	assert.Nil(t, st.Session.SelectedDept)

	history, err := h.c.History(h.ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "A12", history[0].AppointmentID)
}

func TestRegistryIdentityPrefillsAndRegisters(t *testing.T) {
	h := newHarness(t)

	h.must(h.c.StartNew())
	res, err := h.c.SubmitIdentity(h.ctx, arjunAadhaar)
	require.NoError(t, err)
	require.Equal(t, kiosk.IdentityPrefillable, res.Outcome)

	st := h.c.State()
	require.Equal(t, kiosk.StepRegistration, st.Step)
	require.NotNil(t, st.Draft)
	assert.Equal(t, "Arjun Sharma", st.Draft.Name)
	assert.Equal(t, "34", st.Draft.Age)
	assert.Equal(t, "Male", st.Draft.Gender)
	assert.Equal(t, "9876543210", st.Draft.Phone)
	assert.Nil(t, st.Session.Patient, "the draft is not a patient until confirmed")

	p, err := h.c.Register(h.ctx, *st.Draft)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, kiosk.StepDepartmentSelect, h.step())

	stored, err := h.store.FindPatientByAadhaar(h.ctx, arjunAadhaar)
	require.NoError(t, err)
	assert.Equal(t, "Arjun Sharma", stored.Name)
	assert.Equal(t, 34, stored.Age)
	assert.Equal(t, "Male", stored.Gender)
	assert.Equal(t, "9876543210", stored.Phone)
	assert.Equal(t, epoch, stored.CreatedAt)
}

func TestRegisterUsesDraftIdentityNumber(t *testing.T) {
	h := newHarness(t)
	h.must(h.c.StartNew())
	_, err := h.c.SubmitIdentity(h.ctx, "999988887777")
	require.NoError(t, err)
	assert.Equal(t, kiosk.DefaultGender, h.c.State().Draft.Gender)

	p, err := h.c.Register(h.ctx, kiosk.RegistrationDraft{Aadhaar: "000000000000", Name: "Ravi", Phone: "9000000001"})
	require.NoError(t, err)
	assert.Equal(t, "999988887777", p.Aadhaar)
	assert.Equal(t, kiosk.DefaultGender, p.Gender)
}

func TestRegisterValidationAndStoreFailure(t *testing.T) {
	h := newHarness(t)
	h.must(h.c.StartNew())
	_, err := h.c.SubmitIdentity(h.ctx, "999988887777")
	require.NoError(t, err)

	_, err = h.c.Register(h.ctx, kiosk.RegistrationDraft{Name: "Ravi"})
	assert.True(t, kiosk.IsValidation(err))
	assert.Zero(t, h.store.Calls("CreatePatient"))

	h.store.FailOn("CreatePatient", errors.New("unavailable"))
	_, err = h.c.Register(h.ctx, kiosk.RegistrationDraft{Name: "Ravi", Phone: "9000000001"})
	assert.ErrorIs(t, err, kiosk.ErrStoreUnavailable)

	st := h.c.State()
	assert.Equal(t, kiosk.StepRegistration, st.Step)
	assert.NotNil(t, st.Draft)
	assert.False(t, st.Busy)
	assert.Nil(t, st.Session.Patient)
}

func TestBookingCardiologyAppointment(t *testing.T) {
	h := newHarness(t)
	nisha := h.toPayment()

	quote, err := h.c.Payment()
	require.NoError(t, err)
	assert.Equal(t, 700, quote.Fee)
	assert.Equal(t, 300, quote.RemainingSeconds)
	assert.True(t, strings.HasPrefix(quote.UPIIntent, "upi://pay?"))

	before := h.c.Session().PeekToken()
	appt, err := h.c.ConfirmPayment(h.ctx)
	require.NoError(t, err)

	assert.Equal(t, "Cardiologist", appt.Department)
	assert.Equal(t, "Dr. Ramesh Gupta", appt.DoctorName)
	assert.Equal(t, "8:00 AM", appt.Slot)
	assert.Equal(t, 700, appt.Fee)
	assert.Equal(t, kiosk.PaymentStatusPaid, appt.PaymentStatus)
	assert.Equal(t, before, appt.TokenNumber)
	assert.Equal(t, before+1, h.c.Session().PeekToken())
	assert.Equal(t, nisha.ID, appt.PatientID)
	assert.Regexp(t, appointmentIDPattern, appt.AppointmentID)
	assert.Equal(t, kiosk.StepConfirmation, h.step())
	assert.Len(t, h.store.Appointments(), 1)

	slip, err := h.c.Slip()
	require.NoError(t, err)
	assert.Equal(t, *appt, slip.Appointment)
	assert.NotEmpty(t, slip.RecordsToken)
	assert.Equal(t, "https://care.example/records/"+slip.RecordsToken, slip.RecordsURL)
	assert.True(t, strings.HasPrefix(slip.WhatsAppURL, "https://wa.me/919123456780?"))

	tok, err := h.store.GetAccessToken(h.ctx, slip.RecordsToken)
	require.NoError(t, err)
	assert.Equal(t, nisha.ID, tok.PatientID)
	assert.True(t, tok.IsActive)
}

func TestConfirmationReturnsToWelcome(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	_, err := h.c.ConfirmPayment(h.ctx)
	require.NoError(t, err)

	h.clock.Advance(11 * time.Second)
	assert.Equal(t, kiosk.StepConfirmation, h.step())
	assert.Equal(t, 1, h.c.State().SlipRemaining)

	h.clock.Advance(time.Second)
	st := h.c.State()
	assert.Equal(t, kiosk.StepWelcome, st.Step)
	assert.Nil(t, st.Session.Patient)
	assert.Nil(t, st.Session.Appointment)
	assert.Equal(t, 2, st.Session.TokenNumber)
}

func TestPaymentWindowExpiryResetsSession(t *testing.T) {
	h := newHarness(t)
	h.toPayment()

	// Keep the kiosk active so only the payment window can expire.
	for i := 0; i < 19; i++ {
		h.clock.Advance(15 * time.Second)
		h.c.Activity()
	}
	st := h.c.State()
	require.Equal(t, kiosk.StepPayment, st.Step)
	assert.Equal(t, 15, st.PaymentRemaining)

	h.clock.Advance(15 * time.Second)

	st = h.c.State()
	assert.Equal(t, kiosk.StepWelcome, st.Step)
	assert.Nil(t, st.Session.Patient)
	assert.Nil(t, st.Session.SelectedDept)
	assert.Nil(t, st.Session.SelectedDoctor)
	assert.Empty(t, st.Session.SelectedSlot)
	assert.Nil(t, st.Session.Appointment)
	assert.Zero(t, h.store.Calls("CreateAppointment"))
	assert.Empty(t, h.store.Appointments())
	assert.Equal(t, 1, st.Session.TokenNumber)
	assert.Contains(t, h.ann.Cues(), kiosk.CuePaymentExpired)

	_, err := h.c.ConfirmPayment(h.ctx)
	assert.ErrorIs(t, err, kiosk.ErrWrongStep)
}

func TestConfirmStopsPaymentWindow(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	_, err := h.c.ConfirmPayment(h.ctx)
	require.NoError(t, err)

	h.clock.Advance(5 * time.Second)
	h.c.Activity()
	assert.Equal(t, kiosk.StepConfirmation, h.step())
	assert.Zero(t, h.c.State().PaymentRemaining)
}

func TestAppointmentPersistenceFailureStillConfirms(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	h.store.FailOn("CreateAppointment", errors.New("write conflict"))
	h.store.FailOn("IssueAccessToken", errors.New("write conflict"))

	appt, err := h.c.ConfirmPayment(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, kiosk.StepConfirmation, h.step())
	assert.Empty(t, h.store.Appointments())

	slip, err := h.c.Slip()
	require.NoError(t, err)
	assert.Equal(t, appt.AppointmentID, slip.Appointment.AppointmentID)
	assert.Empty(t, slip.RecordsURL)
}

func TestIdleReturnsToAttractWithoutClearingPatient(t *testing.T) {
	h := newHarness(t)
	h.putNisha()
	h.must(h.c.StartNew())
	_, err := h.c.SubmitIdentity(h.ctx, nishaAadhaar)
	require.NoError(t, err)

	h.clock.Advance(19*time.Second + 900*time.Millisecond)
	h.c.Activity()
	h.clock.Advance(100 * time.Millisecond)
	assert.Equal(t, kiosk.StepHistory, h.step())

	h.clock.Advance(20 * time.Second)
	st := h.c.State()
	assert.Equal(t, kiosk.StepAttract, st.Step)
	assert.False(t, st.IdleEnabled)
	assert.NotNil(t, st.Session.Patient)

	h.clock.Advance(time.Hour)
	assert.Equal(t, kiosk.StepAttract, h.step())

	h.must(h.c.Wake())
	st = h.c.State()
	assert.Equal(t, kiosk.StepWelcome, st.Step)
	assert.True(t, st.IdleEnabled)
	assert.Nil(t, st.Session.Patient)
}

func TestIdleAbandonsPayment(t *testing.T) {
	h := newHarness(t)
	h.toPayment()

	h.clock.Advance(20 * time.Second)
	assert.Equal(t, kiosk.StepAttract, h.step())

	h.clock.Advance(10 * time.Minute)
	assert.Equal(t, kiosk.StepAttract, h.step(), "payment timer must not fire after leaving payment")
	assert.Zero(t, h.clock.Pending())
}

func TestGuardRedirects(t *testing.T) {
	h := newHarness(t)

	h.must(h.c.Navigate(kiosk.StepDoctorSelect))
	assert.Equal(t, kiosk.StepIdentityEntry, h.step(), "no patient and no department chains back to identity entry")

	h.must(h.c.Navigate(kiosk.StepHistory))
	assert.Equal(t, kiosk.StepPatientSearch, h.step())

	h.must(h.c.Navigate(kiosk.StepRegistration))
	assert.Equal(t, kiosk.StepIdentityEntry, h.step())

	h.must(h.c.Navigate(kiosk.StepConfirmation))
	assert.Equal(t, kiosk.StepWelcome, h.step())

	h.c.Session().SetPatient(&kiosk.Patient{ID: "p-1", Name: "Nisha Reddy"})
	h.must(h.c.Navigate(kiosk.StepDoctorSelect))
	assert.Equal(t, kiosk.StepDepartmentSelect, h.step())

	h.must(h.c.SelectDepartment("orthopedic"))
	h.must(h.c.Navigate(kiosk.StepPayment))
	assert.Equal(t, kiosk.StepDoctorSelect, h.step())
}

func TestBackKeepsSelections(t *testing.T) {
	h := newHarness(t)
	h.toPayment()

	h.must(h.c.Back())
	st := h.c.State()
	assert.Equal(t, kiosk.StepDoctorSelect, st.Step)
	require.NotNil(t, st.Session.SelectedDept)
	assert.Equal(t, "cardiologist", st.Session.SelectedDept.ID)
	assert.Equal(t, "c1", st.Session.SelectedDoctor.ID)
	assert.Zero(t, st.PaymentRemaining)

	h.must(h.c.Back())
	assert.Equal(t, kiosk.StepDepartmentSelect, h.step())

	h.must(h.c.SelectDepartment("cardiologist"))
	assert.Equal(t, "c1", h.c.State().Session.SelectedDoctor.ID, "same department keeps the doctor")

	h.must(h.c.Back())
	h.must(h.c.SelectDepartment("neurologist"))
	st = h.c.State()
	assert.Equal(t, "neurologist", st.Session.SelectedDept.ID)
	assert.Nil(t, st.Session.SelectedDoctor)
	assert.Empty(t, st.Session.SelectedSlot)
}

func TestBackToWelcomeResets(t *testing.T) {
	h := newHarness(t)
	h.must(h.c.StartNew())
	_, err := h.c.SubmitIdentity(h.ctx, arjunAadhaar)
	require.NoError(t, err)

	h.must(h.c.Back())
	assert.Equal(t, kiosk.StepIdentityEntry, h.step())
	h.must(h.c.Back())
	assert.Equal(t, kiosk.StepWelcome, h.step())

	_, err = h.c.Back()
	assert.ErrorIs(t, err, kiosk.ErrWrongStep)
}

func TestActionsOnWrongStep(t *testing.T) {
	h := newHarness(t)

	_, err := h.c.SubmitIdentity(h.ctx, arjunAadhaar)
	assert.ErrorIs(t, err, kiosk.ErrWrongStep)
	_, err = h.c.ConfirmPayment(h.ctx)
	assert.ErrorIs(t, err, kiosk.ErrWrongStep)
	_, err = h.c.Wake()
	assert.ErrorIs(t, err, kiosk.ErrWrongStep)
	_, err = h.c.Slip()
	assert.ErrorIs(t, err, kiosk.ErrWrongStep)
	assert.Equal(t, kiosk.StepWelcome, h.step())
}

func TestIdentityValidationStaysOnScreen(t *testing.T) {
	h := newHarness(t)
	h.must(h.c.StartNew())

	_, err := h.c.SubmitIdentity(h.ctx, "12345")
	assert.True(t, kiosk.IsValidation(err))
	assert.Equal(t, kiosk.StepIdentityEntry, h.step())
	assert.Zero(t, h.store.Calls("FindPatientByAadhaar"))
}

func TestIdentityStoreFailureLeavesStateUnchanged(t *testing.T) {
	h := newHarness(t)
	h.must(h.c.StartNew())
	h.store.FailOn("FindPatientByAadhaar", errors.New("timeout"))

	_, err := h.c.SubmitIdentity(h.ctx, arjunAadhaar)
	assert.ErrorIs(t, err, kiosk.ErrStoreUnavailable)
	st := h.c.State()
	assert.Equal(t, kiosk.StepIdentityEntry, st.Step)
	assert.False(t, st.Busy)
	assert.Nil(t, st.Draft)

	h.store.FailOn("FindPatientByAadhaar", nil)
	_, err = h.c.SubmitIdentity(h.ctx, arjunAadhaar)
	require.NoError(t, err)
	assert.Equal(t, kiosk.StepRegistration, h.step())
}

func TestIdleDuringLookupDiscardsResult(t *testing.T) {
	h := newHarness(t)
	h.putNisha()
	h.must(h.c.StartNew())
	h.store.OnCall("FindPatientByAadhaar", func() { h.clock.Advance(20 * time.Second) })

	_, err := h.c.SubmitIdentity(h.ctx, nishaAadhaar)
	assert.ErrorIs(t, err, kiosk.ErrInterrupted)
	st := h.c.State()
	assert.Equal(t, kiosk.StepAttract, st.Step)
	assert.Nil(t, st.Session.Patient)
	assert.False(t, st.Busy)
}

func TestSecondRequestWhileBusy(t *testing.T) {
	h := newHarness(t)
	h.must(h.c.StartNew())

	var inner error
	h.store.OnCall("FindPatientByAadhaar", func() {
		_, inner = h.c.SubmitIdentity(h.ctx, arjunAadhaar)
		assert.True(t, h.c.State().Busy)
	})

	_, err := h.c.SubmitIdentity(h.ctx, arjunAadhaar)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, kiosk.ErrBusy)
	assert.Equal(t, 1, h.store.Calls("FindPatientByAadhaar"))
}

func TestHomeDuringLookupWins(t *testing.T) {
	h := newHarness(t)
	h.must(h.c.StartNew())
	h.store.OnCall("FindPatientByAadhaar", func() { h.must(h.c.Home()) })

	_, err := h.c.SubmitIdentity(h.ctx, arjunAadhaar)
	assert.ErrorIs(t, err, kiosk.ErrInterrupted)
	assert.Equal(t, kiosk.StepWelcome, h.step())
	assert.Nil(t, h.c.State().Draft)
}

func TestHomeDuringAppointmentSaveWins(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	h.store.OnCall("CreateAppointment", func() { h.must(h.c.Home()) })

	_, err := h.c.ConfirmPayment(h.ctx)
	assert.ErrorIs(t, err, kiosk.ErrInterrupted)

	st := h.c.State()
	assert.Equal(t, kiosk.StepWelcome, st.Step)
	assert.Nil(t, st.Session.Patient)
	assert.Nil(t, st.Session.Appointment)

	st, err = h.c.Navigate(kiosk.StepConfirmation)
	require.NoError(t, err)
	assert.NotEqual(t, kiosk.StepConfirmation, st.Step)
	_, err = h.c.Slip()
	assert.ErrorIs(t, err, kiosk.ErrWrongStep)
}

func TestIdleDuringAppointmentSaveLeavesNoAppointment(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	h.store.OnCall("CreateAppointment", func() { h.clock.Advance(kiosk.DefaultIdleTimeout) })

	_, err := h.c.ConfirmPayment(h.ctx)
	assert.ErrorIs(t, err, kiosk.ErrInterrupted)

	st := h.c.State()
	assert.Equal(t, kiosk.StepAttract, st.Step)
	assert.Nil(t, st.Session.Appointment)
}

func TestFailedConfirmKeepsPaymentDeadline(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	for i := 0; i < 6; i++ {
		h.clock.Advance(15 * time.Second)
		h.c.Activity()
	}

	h.session.SetSelectedSlot("")
	_, err := h.c.ConfirmPayment(h.ctx)
	assert.ErrorIs(t, err, kiosk.ErrIncompleteBooking)

	st := h.c.State()
	require.Equal(t, kiosk.StepPayment, st.Step)
	assert.Equal(t, 210, st.PaymentRemaining)

	for i := 0; i < 13; i++ {
		h.clock.Advance(15 * time.Second)
		h.c.Activity()
	}
	require.Equal(t, kiosk.StepPayment, h.step())
	h.clock.Advance(15 * time.Second)
	assert.Equal(t, kiosk.StepWelcome, h.step())
}

func TestNavigateToPaymentKeepsDeadline(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	h.clock.Advance(15 * time.Second)
	h.c.Activity()
	h.clock.Advance(15 * time.Second)

	st, err := h.c.Navigate(kiosk.StepPayment)
	require.NoError(t, err)
	assert.Equal(t, kiosk.StepPayment, st.Step)
	assert.Equal(t, 270, st.PaymentRemaining)
}

func TestExistingPatientSearch(t *testing.T) {
	h := newHarness(t)
	nisha := h.putNisha()
	h.must(h.c.StartExisting())
	assert.Equal(t, kiosk.StepPatientSearch, h.step())

	_, err := h.c.SearchByPhone(h.ctx, "91234")
	assert.True(t, kiosk.IsValidation(err))
	_, err = h.c.SearchByName(h.ctx, "Ni")
	assert.True(t, kiosk.IsValidation(err))

	_, err = h.c.SearchByPhone(h.ctx, "9000000000")
	assert.ErrorIs(t, err, kiosk.ErrPatientNotFound)
	assert.Equal(t, kiosk.StepPatientSearch, h.step())

	p, err := h.c.SearchByName(h.ctx, "Nis")
	require.NoError(t, err)
	assert.Equal(t, nisha.ID, p.ID)
	assert.Equal(t, kiosk.StepHistory, h.step())

	h.must(h.c.Home())
	h.must(h.c.StartExisting())
	p, err = h.c.SearchByPhone(h.ctx, "9123456780")
	require.NoError(t, err)
	assert.Equal(t, nisha.ID, p.ID)
}

func TestHistoryStoreFailureIsEmpty(t *testing.T) {
	h := newHarness(t)
	h.c.Session().SetPatient(&kiosk.Patient{ID: "p-9", Name: "Meera"})
	h.must(h.c.Navigate(kiosk.StepHistory))
	h.store.FailOn("ListAppointmentsByPatient", errors.New("down"))

	entries, err := h.c.History(h.ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBookNewClearsPreviousSelections(t *testing.T) {
	h := newHarness(t)
	h.putNisha()
	h.must(h.c.StartNew())
	_, err := h.c.SubmitIdentity(h.ctx, nishaAadhaar)
	require.NoError(t, err)

	dept, _ := kiosk.FindDepartment("orthopedic")
	h.c.Session().SetSelectedDept(dept)
	h.must(h.c.BookNew())

	st := h.c.State()
	assert.Equal(t, kiosk.StepDepartmentSelect, st.Step)
	assert.NotNil(t, st.Session.Patient)
	assert.Nil(t, st.Session.SelectedDept)
}

func TestDoctorsFallBackToBuiltInRoster(t *testing.T) {
	h := newHarness(t)
	h.c.Session().SetPatient(&kiosk.Patient{ID: "p-1", Name: "Nisha Reddy"})
	h.must(h.c.Navigate(kiosk.StepDepartmentSelect))
	h.must(h.c.SelectDepartment("pediatrician"))
	h.store.FailOn("ListDoctorsByDepartment", errors.New("down"))

	docs, err := h.c.Doctors(h.ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Dr. Kavitha Nair", docs[0].Name)
}

func TestDoctorsFromDirectory(t *testing.T) {
	h := newHarness(t)
	h.store.PutDoctors(kiosk.Doctor{ID: "c9", Name: "Dr. Test", Department: "cardiologist", Fee: 900, AvailableSlots: []string{"6:00 PM"}})
	h.c.Session().SetPatient(&kiosk.Patient{ID: "p-1"})
	h.must(h.c.Navigate(kiosk.StepDepartmentSelect))
	h.must(h.c.SelectDepartment("cardiologist"))

	docs, err := h.c.Doctors(h.ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	_, err = h.c.SelectDoctor("c1", "8:00 AM")
	assert.ErrorIs(t, err, kiosk.ErrDoctorNotFound)
	_, err = h.c.SelectDoctor("c9", "8:00 AM")
	assert.True(t, kiosk.IsValidation(err))
	h.must(h.c.SelectDoctor("c9", "6:00 PM"))

	quote, err := h.c.Payment()
	require.NoError(t, err)
	assert.Equal(t, 900, quote.Fee)
}

func TestUnknownDepartment(t *testing.T) {
	h := newHarness(t)
	h.c.Session().SetPatient(&kiosk.Patient{ID: "p-1"})
	h.must(h.c.Navigate(kiosk.StepDepartmentSelect))

	_, err := h.c.SelectDepartment("dermatology")
	assert.ErrorIs(t, err, kiosk.ErrDepartmentNotFound)
	assert.Equal(t, kiosk.StepDepartmentSelect, h.step())
}

func TestLocaleThemeAndEmergency(t *testing.T) {
	h := newHarness(t)

	_, err := h.c.SetLocale("fr")
	assert.True(t, kiosk.IsValidation(err))

	h.must(h.c.SetLocale(kiosk.LocaleTamil))
	assert.Equal(t, kiosk.ThemeDark, h.c.ToggleTheme())

	h.must(h.c.StartNew())
	last, ok := h.ann.Last()
	require.True(t, ok)
	assert.Equal(t, kiosk.CueIdentityPrompt, last.Cue)
	assert.Equal(t, kiosk.LocaleTamil, last.Locale)
	assert.Equal(t, kiosk.Phrase(kiosk.CueIdentityPrompt, kiosk.LocaleTamil), last.Text)

	st := h.c.Emergency()
	assert.Equal(t, kiosk.StepIdentityEntry, st.Step)
	last, _ = h.ann.Last()
	assert.Equal(t, kiosk.CueEmergency, last.Cue)
}

func TestCloseStopsEverything(t *testing.T) {
	h := newHarness(t)
	h.toPayment()
	h.c.Close()

	assert.Zero(t, h.clock.Pending())
	_, err := h.c.ConfirmPayment(h.ctx)
	assert.ErrorIs(t, err, kiosk.ErrClosed)
	_, err = h.c.Home()
	assert.ErrorIs(t, err, kiosk.ErrClosed)

	h.clock.Advance(time.Hour)
	assert.Equal(t, kiosk.StepPayment, h.step())
}
