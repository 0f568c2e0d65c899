package kiosk

import (
	"context"
	"time"
)

// PatientStore is the durable owner of patient records. Lookups that match
// nothing return ErrPatientNotFound.
type PatientStore interface {
	FindPatientByAadhaar(ctx context.Context, aadhaar string) (*Patient, error)
	FindPatientByPhone(ctx context.Context, phone string) (*Patient, error)
	FindPatientByNamePrefix(ctx context.Context, prefix string) (*Patient, error)
	GetPatientByID(ctx context.Context, id string) (*Patient, error)

	// CreatePatient persists p and returns it with its storage key set.
	CreatePatient(ctx context.Context, p Patient) (*Patient, error)
}

// DoctorDirectory supplies the doctor catalog for a department.
type DoctorDirectory interface {
	ListDoctorsByDepartment(ctx context.Context, departmentID string) ([]Doctor, error)
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a Appointment) error
	ListAppointmentsByPatient(ctx context.Context, patientID string) ([]Appointment, error)
}

// AccessTokenStore backs the companion records page.
type AccessTokenStore interface {
	GetAccessToken(ctx context.Context, tokenID string) (*AccessToken, error)
	IssueAccessToken(ctx context.Context, t AccessToken) error
	DeactivateExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Repository is everything the kiosk needs from the records store.
type Repository interface {
	PatientStore
	DoctorDirectory
	AppointmentStore
	AccessTokenStore
}
