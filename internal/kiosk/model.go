package kiosk

import (
	"time"
)

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleTamil   Locale = "ta"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const PaymentStatusPaid = "Paid"

// Patient is a registered person. ID is the storage key assigned by the store
// on first persistence and is empty on a draft.
type Patient struct {
	ID        string    `json:"id"`
	Aadhaar   string    `json:"aadhaar"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	Visits    []Visit   `json:"visits,omitempty"`
}

// Visit is a historical encounter embedded in the patient document by the
// seeder, predating appointments booked through the kiosk.
type Visit struct {
	Date         string `json:"date"`
	Department   string `json:"department"`
	Doctor       string `json:"doctor"`
	Fee          int    `json:"fee"`
	Token        string `json:"token"`
	Status       string `json:"status"`
	Prescription string `json:"prescription,omitempty"`
	LabResult    string `json:"labResult,omitempty"`
}

type Department struct {
	ID       string            `json:"id"`
	Label    map[Locale]string `json:"label"`
	Icon     string            `json:"icon"`
	Color    string            `json:"color"`
	ImageURL string            `json:"imageUrl"`
}

// DisplayName returns the label for loc, falling back to English.
func (d Department) DisplayName(loc Locale) string {
	if v, ok := d.Label[loc]; ok && v != "" {
		return v
	}
	return d.Label[LocaleEnglish]
}

type Doctor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Department     string   `json:"department"`
	Qualification  string   `json:"qualification"`
	Experience     string   `json:"experience"`
	Fee            int      `json:"fee"`
	AvailableSlots []string `json:"availableSlots"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Education      string   `json:"education,omitempty"`
	Languages      []string `json:"languages,omitempty"`
}

// HasSlot reports whether label is one of the doctor's listed slots.
func (d Doctor) HasSlot(label string) bool {
	for _, s := range d.AvailableSlots {
		if s == label {
			return true
		}
	}
	return false
}

type Appointment struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	PatientName   string    `json:"patientName"`
	DoctorID      string    `json:"doctorId"`
	DoctorName    string    `json:"doctorName"`
	Department    string    `json:"department"`
	Slot          string    `json:"slot"`
	Date          string    `json:"date"`
	Fee           int       `json:"fee"`
	PaymentStatus string    `json:"paymentStatus"`
	TokenNumber   int       `json:"tokenNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AccessToken grants read-only access to a patient's records through the
// companion QR page.
type AccessToken struct {
	TokenID   string     `json:"tokenId"`
	PatientID string     `json:"patientId"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Usable reports whether the token is active and not past its expiry at now.
func (t AccessToken) Usable(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	return t.ExpiresAt == nil || now.Before(*t.ExpiresAt)
}

// RegistrationDraft is the form shown on the registration step, pre-filled
// from the reference registry when possible.
type RegistrationDraft struct {
	Aadhaar string `json:"aadhaar"`
	Name    string `json:"name"`
	Age     string `json:"age"`
	Gender  string `json:"gender"`
	Phone   string `json:"phone"`
}

// HistoryEntry is one row of the patient history: a kiosk appointment or a
// legacy visit flattened into the same shape.
type HistoryEntry struct {
	AppointmentID string    `json:"appointmentId"`
	DoctorName    string    `json:"doctorName"`
	Department    string    `json:"department"`
	Date          string    `json:"date"`
	Slot          string    `json:"slot"`
	Fee           int       `json:"fee"`
	PaymentStatus string    `json:"paymentStatus"`
	TokenNumber   int       `json:"tokenNumber,omitempty"`
	Prescription  string    `json:"prescription,omitempty"`
	LabResult     string    `json:"labResult,omitempty"`
	Legacy        bool      `json:"legacy"`
	CreatedAt     time.Time `json:"createdAt"`
}
