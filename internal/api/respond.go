package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("could not parse JSON: %w", err)
	}
	return nil
}

// writeKioskError maps controller errors onto HTTP statuses.
func writeKioskError(w http.ResponseWriter, err error) {
	var ve *kiosk.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Details: ve.Message,
			Field:   ve.Field,
		})
	case errors.Is(err, kiosk.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, kiosk.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, kiosk.ErrDepartmentNotFound):
		writeError(w, http.StatusNotFound, "department_not_found", err.Error())
	case errors.Is(err, kiosk.ErrAccessTokenInvalid):
		writeError(w, http.StatusNotFound, "access_token_invalid", err.Error())
	case errors.Is(err, kiosk.ErrNoPatientLinked):
		writeError(w, http.StatusNotFound, "no_patient_linked", err.Error())
	case errors.Is(err, kiosk.ErrAccessTokenInactive):
		writeError(w, http.StatusGone, "access_token_inactive", err.Error())
	case errors.Is(err, kiosk.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "invalid_step", err.Error())
	case errors.Is(err, kiosk.ErrWrongStep):
		writeError(w, http.StatusConflict, "wrong_step", err.Error())
	case errors.Is(err, kiosk.ErrBusy):
		writeError(w, http.StatusConflict, "busy", err.Error())
	case errors.Is(err, kiosk.ErrInterrupted):
		writeError(w, http.StatusConflict, "interrupted", err.Error())
	case errors.Is(err, kiosk.ErrIncompleteBooking):
		writeError(w, http.StatusConflict, "incomplete_booking", err.Error())
	case errors.Is(err, kiosk.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", kiosk.ErrStoreUnavailable.Error())
	case errors.Is(err, kiosk.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "kiosk_closed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
