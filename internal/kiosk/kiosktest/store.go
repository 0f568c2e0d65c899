package kiosktest

import (
	"context"
	"sync"
	"time"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
)

// Store is a MemoryRepository with per-method error injection and call
// hooks. Method names are the kiosk.Repository method names.
type Store struct {
	*kiosk.MemoryRepository

	mu    sync.Mutex
	errs  map[string]error
	hooks map[string]func()
	calls map[string]int
}

func NewStore() *Store {
	return &Store{
		MemoryRepository: kiosk.NewMemoryRepository(),
		errs:             map[string]error{},
		hooks:            map[string]func(){},
		calls:            map[string]int{},
	}
}

// FailOn makes method return err until cleared with a nil err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, method)
		return
	}
	s.errs[method] = err
}

// OnCall runs f at the start of every call to method, before any injected
// error is returned.
func (s *Store) OnCall(method string, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[method] = f
}

// Calls reports how many times method was invoked.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Store) before(method string) error {
	s.mu.Lock()
	s.calls[method]++
	hook := s.hooks[method]
	err := s.errs[method]
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (s *Store) FindPatientByAadhaar(ctx context.Context, aadhaar string) (*kiosk.Patient, error) {
	if err := s.before("FindPatientByAadhaar"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.FindPatientByAadhaar(ctx, aadhaar)
}

func (s *Store) FindPatientByPhone(ctx context.Context, phone string) (*kiosk.Patient, error) {
	if err := s.before("FindPatientByPhone"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.FindPatientByPhone(ctx, phone)
}

func (s *Store) FindPatientByNamePrefix(ctx context.Context, prefix string) (*kiosk.Patient, error) {
	if err := s.before("FindPatientByNamePrefix"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.FindPatientByNamePrefix(ctx, prefix)
}

func (s *Store) GetPatientByID(ctx context.Context, id string) (*kiosk.Patient, error) {
	if err := s.before("GetPatientByID"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.GetPatientByID(ctx, id)
}

func (s *Store) CreatePatient(ctx context.Context, p kiosk.Patient) (*kiosk.Patient, error) {
	if err := s.before("CreatePatient"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.CreatePatient(ctx, p)
}

func (s *Store) ListDoctorsByDepartment(ctx context.Context, departmentID string) ([]kiosk.Doctor, error) {
	if err := s.before("ListDoctorsByDepartment"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.ListDoctorsByDepartment(ctx, departmentID)
}

func (s *Store) CreateAppointment(ctx context.Context, a kiosk.Appointment) error {
	if err := s.before("CreateAppointment"); err != nil {
		return err
	}
	return s.MemoryRepository.CreateAppointment(ctx, a)
}

func (s *Store) ListAppointmentsByPatient(ctx context.Context, patientID string) ([]kiosk.Appointment, error) {
	if err := s.before("ListAppointmentsByPatient"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.ListAppointmentsByPatient(ctx, patientID)
}

func (s *Store) GetAccessToken(ctx context.Context, tokenID string) (*kiosk.AccessToken, error) {
	if err := s.before("GetAccessToken"); err != nil {
		return nil, err
	}
	return s.MemoryRepository.GetAccessToken(ctx, tokenID)
}

func (s *Store) IssueAccessToken(ctx context.Context, t kiosk.AccessToken) error {
	if err := s.before("IssueAccessToken"); err != nil {
		return err
	}
	return s.MemoryRepository.IssueAccessToken(ctx, t)
}

func (s *Store) DeactivateExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	if err := s.before("DeactivateExpiredTokens"); err != nil {
		return 0, err
	}
	return s.MemoryRepository.DeactivateExpiredTokens(ctx, now)
}

// Announcer records announcements in order.
type Announcer struct {
	mu  sync.Mutex
	got []kiosk.Announcement
}

func (a *Announcer) Announce(ann kiosk.Announcement) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, ann)
}

// Cues returns the cues announced so far.
func (a *Announcer) Cues() []kiosk.Cue {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]kiosk.Cue, len(a.got))
	for i, ann := range a.got {
		out[i] = ann.Cue
	}
	return out
}

// Last returns the latest announcement.
func (a *Announcer) Last() (kiosk.Announcement, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.got) == 0 {
		return kiosk.Announcement{}, false
	}
	return a.got[len(a.got)-1], true
}
