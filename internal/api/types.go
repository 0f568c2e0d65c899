package api

import (
	"github.com/hackgods/hospital-kiosk/internal/kiosk"
)

type StartRequest struct {
	Mode string `json:"mode"` // "new" or "existing"
}

type NavigateRequest struct {
	Step string `json:"step"`
}

type IdentityRequest struct {
	Number string `json:"number"`
}

type RegisterRequest struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Phone  string `json:"phone"`
}

type SearchRequest struct {
	Mode  string `json:"mode"` // "phone" or "name"
	Query string `json:"query"`
}

type DepartmentRequest struct {
	ID string `json:"id"`
}

type DoctorRequest struct {
	DoctorID string `json:"doctorId"`
	Slot     string `json:"slot"`
}

type LocaleRequest struct {
	Locale string `json:"locale"`
}

// StateResponse is the kiosk state plus the line most recently spoken.
type StateResponse struct {
	kiosk.State
	Announcement *kiosk.Announcement `json:"announcement,omitempty"`
}

// ActionResponse carries an operation's result together with the state it
// left the kiosk in.
type ActionResponse struct {
	Result any           `json:"result,omitempty"`
	State  StateResponse `json:"state"`
}

type ThemeResponse struct {
	Theme kiosk.Theme `json:"theme"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}
