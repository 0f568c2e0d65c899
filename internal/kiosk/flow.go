package kiosk

import "fmt"

// Step is a kiosk screen.
type Step string

const (
	StepAttract          Step = "attract"
	StepWelcome          Step = "welcome"
	StepIdentityEntry    Step = "identity_entry"
	StepRegistration     Step = "registration"
	StepPatientSearch    Step = "patient_search"
	StepHistory          Step = "history"
	StepDepartmentSelect Step = "department_select"
	StepDoctorSelect     Step = "doctor_select"
	StepPayment          Step = "payment"
	StepConfirmation     Step = "confirmation"
)

// Steps lists every screen in flow order.
var Steps = []Step{
	StepAttract,
	StepWelcome,
	StepIdentityEntry,
	StepRegistration,
	StepPatientSearch,
	StepHistory,
	StepDepartmentSelect,
	StepDoctorSelect,
	StepPayment,
	StepConfirmation,
}

// ParseStep converts a wire name into a Step.
func ParseStep(s string) (Step, error) {
	for _, st := range Steps {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown step %q", ErrInvalidTransition, s)
}

// Event is an input that moves the flow from one step to another.
type Event string

const (
	EventTouch            Event = "touch"
	EventStartNew         Event = "start-new"
	EventStartExisting    Event = "start-existing"
	EventKnownPatient     Event = "known-patient"
	EventDraftReady       Event = "draft-ready"
	EventRegistered       Event = "registered"
	EventPatientFound     Event = "patient-found"
	EventBookNew          Event = "book-new"
	EventDepartmentChosen Event = "department-chosen"
	EventDoctorChosen     Event = "doctor-chosen"
	EventPaid             Event = "paid"
	EventPaymentExpired   Event = "payment-expired"
	EventSlipTimeout      Event = "slip-timeout"
	EventHome             Event = "home"
	EventIdle             Event = "idle"
)

type transitionKey struct {
	from  Step
	event Event
}

var transitions = map[transitionKey]Step{
	{StepAttract, EventTouch}:                     StepWelcome,
	{StepWelcome, EventStartNew}:                  StepIdentityEntry,
	{StepWelcome, EventStartExisting}:             StepPatientSearch,
	{StepIdentityEntry, EventKnownPatient}:        StepHistory,
	{StepIdentityEntry, EventDraftReady}:          StepRegistration,
	{StepRegistration, EventRegistered}:           StepDepartmentSelect,
	{StepPatientSearch, EventPatientFound}:        StepHistory,
	{StepHistory, EventBookNew}:                   StepDepartmentSelect,
	{StepDepartmentSelect, EventDepartmentChosen}: StepDoctorSelect,
	{StepDoctorSelect, EventDoctorChosen}:         StepPayment,
	{StepPayment, EventPaid}:                      StepConfirmation,
	{StepPayment, EventPaymentExpired}:            StepWelcome,
	{StepConfirmation, EventSlipTimeout}:          StepWelcome,
}

// wildcard events apply from every step.
var wildcards = map[Event]Step{
	EventHome: StepWelcome,
	EventIdle: StepAttract,
}

// Transition looks up the step that event leads to from from.
func Transition(from Step, event Event) (Step, error) {
	if to, ok := wildcards[event]; ok {
		return to, nil
	}
	if to, ok := transitions[transitionKey{from, event}]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
}

// guardState is what step preconditions are checked against.
type guardState struct {
	session      SessionSnapshot
	pendingDraft bool
}

// redirect returns where step must send the user when its precondition is
// unmet, or step itself when the precondition holds.
func redirect(step Step, g guardState) Step {
	s := g.session
	switch step {
	case StepRegistration:
		if !g.pendingDraft {
			return StepIdentityEntry
		}
	case StepHistory:
		if s.Patient == nil {
			return StepPatientSearch
		}
	case StepDepartmentSelect:
		if s.Patient == nil {
			return StepIdentityEntry
		}
	case StepDoctorSelect:
		if s.SelectedDept == nil {
			return StepDepartmentSelect
		}
	case StepPayment:
		if s.SelectedDoctor == nil || s.SelectedSlot == "" {
			return StepDoctorSelect
		}
		if s.Patient == nil {
			return StepIdentityEntry
		}
	case StepConfirmation:
		if s.Appointment == nil {
			return StepWelcome
		}
	}
	return step
}

// guard follows redirects from step until it reaches a step whose
// precondition holds.
func guard(step Step, g guardState) Step {
	for i := 0; i < len(Steps); i++ {
		next := redirect(step, g)
		if next == step {
			return step
		}
		step = next
	}
	return StepWelcome
}

// trail is the visited-step history used for back navigation.
type trail struct {
	steps []Step
}

func (t *trail) push(s Step) {
	if n := len(t.steps); n > 0 && t.steps[n-1] == s {
		return
	}
	t.steps = append(t.steps, s)
}

func (t *trail) reset(s Step) {
	t.steps = append(t.steps[:0], s)
}

// back drops the current step and returns the one before it.
func (t *trail) back() (Step, bool) {
	if len(t.steps) < 2 {
		return "", false
	}
	t.steps = t.steps[:len(t.steps)-1]
	return t.steps[len(t.steps)-1], true
}

func (t *trail) snapshot() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}
