package kiosk

import "sync"

// Session holds the state of the single active kiosk session. Every method is
// total: nothing here validates shape or ordering, that is the controller's
// job. The token counter lives only in memory and restarts at 1 with the
// process.
type Session struct {
	mu sync.Mutex

	patient        *Patient
	selectedDept   *Department
	selectedDoctor *Doctor
	selectedSlot   string
	appointment    *Appointment

	tokenNumber int
	locale      Locale
	theme       Theme
}

// SessionSnapshot is a copy of the session at one instant.
type SessionSnapshot struct {
	Patient        *Patient     `json:"patient"`
	SelectedDept   *Department  `json:"selectedDept"`
	SelectedDoctor *Doctor      `json:"selectedDoctor"`
	SelectedSlot   string       `json:"selectedSlot,omitempty"`
	Appointment    *Appointment `json:"appointment"`
	TokenNumber    int          `json:"tokenNumber"`
	Locale         Locale       `json:"locale"`
	Theme          Theme        `json:"theme"`
}

func NewSession() *Session {
	return &Session{
		tokenNumber: 1,
		locale:      LocaleEnglish,
		theme:       ThemeLight,
	}
}

func (s *Session) SetPatient(p *Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patient = p
}

func (s *Session) SetSelectedDept(d *Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDept = d
}

func (s *Session) SetSelectedDoctor(d *Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDoctor = d
}

func (s *Session) SetSelectedSlot(slot string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSlot = slot
}

func (s *Session) SetAppointment(a *Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointment = a
}

// NextToken returns the current queue token and advances the counter by one.
// Each call consumes a value, so callers must call it once per appointment.
func (s *Session) NextToken() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tokenNumber
	s.tokenNumber++
	return t
}

// PeekToken returns the token the next NextToken call will hand out.
func (s *Session) PeekToken() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenNumber
}

// ResetFlow clears the booking selections and keeps the patient, for a
// returning patient starting another booking.
func (s *Session) ResetFlow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetFlowLocked()
}

// ResetAll clears the patient and everything ResetFlow clears.
func (s *Session) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patient = nil
	s.resetFlowLocked()
}

func (s *Session) resetFlowLocked() {
	s.selectedDept = nil
	s.selectedDoctor = nil
	s.selectedSlot = ""
	s.appointment = nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Session) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	return s.theme
}

func (s *Session) SetLocale(l Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = l
}

func (s *Session) Locale() Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		Patient:        s.patient,
		SelectedDept:   s.selectedDept,
		SelectedDoctor: s.selectedDoctor,
		SelectedSlot:   s.selectedSlot,
		Appointment:    s.appointment,
		TokenNumber:    s.tokenNumber,
		Locale:         s.locale,
		Theme:          s.theme,
	}
}
