package kiosk

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository for development and tests.
// Doctors fall back to the built-in roster when none are loaded.
type MemoryRepository struct {
	mu           sync.RWMutex
	patients     map[string]Patient
	doctors      map[string][]Doctor
	appointments []Appointment
	tokens       map[string]AccessToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		patients: make(map[string]Patient),
		doctors:  make(map[string][]Doctor),
		tokens:   make(map[string]AccessToken),
	}
}

// PutDoctors replaces the doctors listed for their departments.
func (r *MemoryRepository) PutDoctors(docs ...Doctor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	for _, d := range docs {
		if !seen[d.Department] {
			r.doctors[d.Department] = nil
			seen[d.Department] = true
		}
		r.doctors[d.Department] = append(r.doctors[d.Department], d)
	}
}

// UpsertDoctor writes d, replacing any doctor with the same ID.
func (r *MemoryRepository) UpsertDoctor(_ context.Context, d Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dept, docs := range r.doctors {
		for i := range docs {
			if docs[i].ID == d.ID {
				r.doctors[dept] = append(docs[:i:i], docs[i+1:]...)
				break
			}
		}
	}
	r.doctors[d.Department] = append(r.doctors[d.Department], d)
	return nil
}

// PutPatient stores p as is, assigning an ID when it has none.
func (r *MemoryRepository) PutPatient(p Patient) Patient {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.patients[p.ID] = p
	return p
}

func (r *MemoryRepository) FindPatientByAadhaar(_ context.Context, aadhaar string) (*Patient, error) {
	return r.findPatient(func(p Patient) bool { return p.Aadhaar == aadhaar })
}

func (r *MemoryRepository) FindPatientByPhone(_ context.Context, phone string) (*Patient, error) {
	return r.findPatient(func(p Patient) bool { return p.Phone == phone })
}

func (r *MemoryRepository) FindPatientByNamePrefix(_ context.Context, prefix string) (*Patient, error) {
	return r.findPatient(func(p Patient) bool { return strings.HasPrefix(p.Name, prefix) })
}

func (r *MemoryRepository) GetPatientByID(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return clonePatient(p), nil
}

func (r *MemoryRepository) CreatePatient(_ context.Context, p Patient) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.patients[p.ID] = p
	return clonePatient(p), nil
}

// findPatient returns the oldest matching patient so results are stable.
func (r *MemoryRepository) findPatient(match func(Patient) bool) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var hits []Patient
	for _, p := range r.patients {
		if match(p) {
			hits = append(hits, p)
		}
	}
	if len(hits) == 0 {
		return nil, ErrPatientNotFound
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].ID < hits[j].ID
		}
		return hits[i].CreatedAt.Before(hits[j].CreatedAt)
	})
	return clonePatient(hits[0]), nil
}

func (r *MemoryRepository) ListDoctorsByDepartment(_ context.Context, departmentID string) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs, ok := r.doctors[departmentID]
	if !ok {
		return defaultDoctorsFor(departmentID), nil
	}
	out := make([]Doctor, len(docs))
	copy(out, docs)
	return out, nil
}

func (r *MemoryRepository) CreateAppointment(_ context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments = append(r.appointments, a)
	return nil
}

func (r *MemoryRepository) ListAppointmentsByPatient(_ context.Context, patientID string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Appointments returns every stored appointment in insertion order.
func (r *MemoryRepository) Appointments() []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Appointment, len(r.appointments))
	copy(out, r.appointments)
	return out
}

func (r *MemoryRepository) GetAccessToken(_ context.Context, tokenID string) (*AccessToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[tokenID]
	if !ok {
		return nil, ErrAccessTokenNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) IssueAccessToken(_ context.Context, t AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.TokenID] = t
	return nil
}

func (r *MemoryRepository) DeactivateExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tokens {
		if t.IsActive && t.ExpiresAt != nil && !now.Before(*t.ExpiresAt) {
			t.IsActive = false
			r.tokens[id] = t
			n++
		}
	}
	return n, nil
}

func clonePatient(p Patient) *Patient {
	if p.Visits != nil {
		p.Visits = append([]Visit(nil), p.Visits...)
	}
	return &p
}
