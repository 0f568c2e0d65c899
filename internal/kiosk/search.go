package kiosk

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// MinNameQueryLength is the shortest name prefix the search accepts.
const MinNameQueryLength = 3

type SearchMode string

const (
	SearchPhone SearchMode = "phone"
	SearchName  SearchMode = "name"
)

// ParseSearchMode accepts "phone" or "name".
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case SearchPhone, SearchName:
		return SearchMode(s), nil
	}
	return "", invalid("mode", "Search by phone or name")
}

func validateSearch(mode SearchMode, query string) error {
	switch mode {
	case SearchPhone:
		return ValidatePhone(query)
	case SearchName:
		if len([]rune(query)) < MinNameQueryLength {
			return invalid("name", "Please enter at least 3 characters")
		}
		return nil
	}
	return invalid("mode", "Search by phone or name")
}

// findPatient runs an existing-patient search. No match is
// ErrPatientNotFound; any other store error is ErrStoreUnavailable.
func findPatient(ctx context.Context, store PatientStore, mode SearchMode, query string) (*Patient, error) {
	var (
		p   *Patient
		err error
	)
	switch mode {
	case SearchPhone:
		p, err = store.FindPatientByPhone(ctx, query)
	default:
		p, err = store.FindPatientByNamePrefix(ctx, query)
	}
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, ErrPatientNotFound):
		return nil, ErrPatientNotFound
	default:
		return nil, unavailable("search patient by "+string(mode), err)
	}
}

// BuildHistory merges kiosk appointments with the legacy visits embedded in
// the patient document, newest first.
func BuildHistory(p *Patient, appts []Appointment) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(appts)+len(p.Visits))
	for _, a := range appts {
		out = append(out, HistoryEntry{
			AppointmentID: a.AppointmentID,
			DoctorName:    a.DoctorName,
			Department:    a.Department,
			Date:          a.Date,
			Slot:          a.Slot,
			Fee:           a.Fee,
			PaymentStatus: a.PaymentStatus,
			TokenNumber:   a.TokenNumber,
			CreatedAt:     a.CreatedAt,
		})
	}
	for _, v := range p.Visits {
		out = append(out, HistoryEntry{
			AppointmentID: v.Token,
			DoctorName:    v.Doctor,
			Department:    v.Department,
			Date:          v.Date,
			Fee:           v.Fee,
			PaymentStatus: v.Status,
			Prescription:  v.Prescription,
			LabResult:     v.LabResult,
			Legacy:        true,
			CreatedAt:     parseVisitDate(v.Date),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// parseVisitDate reads the seeded visit date formats. Unparseable dates
// sort last.
func parseVisitDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2/1/2006", "02/01/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
