package kiosk

import (
	"errors"
	"fmt"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrAccessTokenNotFound = errors.New("access token not found")

	// ErrStoreUnavailable marks a transient I/O failure. The user may retry.
	ErrStoreUnavailable = errors.New("records store unavailable, please try again")

	ErrClosed              = errors.New("kiosk controller is closed")
	ErrWrongStep           = errors.New("action not available on the current screen")
	ErrBusy                = errors.New("a request for this screen is still in progress")
	ErrInterrupted         = errors.New("screen changed while the request was in progress")
	ErrInvalidTransition   = errors.New("invalid step transition")
	ErrIncompleteBooking   = errors.New("booking is missing patient, doctor or slot")
	ErrAccessTokenInvalid  = errors.New("QR code is invalid or has expired")
	ErrAccessTokenInactive = errors.New("this QR code is no longer active")
	ErrNoPatientLinked     = errors.New("no patient is associated with this QR code")
)

// ValidationError is an inline form error. It never reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
