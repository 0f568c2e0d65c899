package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
)

type kioskHandler struct {
	kiosk         *kiosk.Controller
	announcements *kiosk.RecentAnnouncements
}

func (h *kioskHandler) stateResponse(st kiosk.State) StateResponse {
	resp := StateResponse{State: st}
	if h.announcements != nil {
		if a, ok := h.announcements.Last(); ok {
			resp.Announcement = &a
		}
	}
	return resp
}

// writeState answers a screen action with the resulting state, or the error
// mapped to a status.
func (h *kioskHandler) writeState(w http.ResponseWriter, st kiosk.State, err error) {
	if err != nil {
		writeKioskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse(st))
}

// writeResult answers a data action with its result and the current state.
func (h *kioskHandler) writeResult(w http.ResponseWriter, result any, err error) {
	if err != nil {
		writeKioskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Result: result, State: h.stateResponse(h.kiosk.State())})
}

func (h *kioskHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stateResponse(h.kiosk.State()))
}

func (h *kioskHandler) activity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stateResponse(h.kiosk.Activity()))
}

func (h *kioskHandler) wake(w http.ResponseWriter, r *http.Request) {
	st, err := h.kiosk.Wake()
	h.writeState(w, st, err)
}

func (h *kioskHandler) start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	var st kiosk.State
	var err error
	switch req.Mode {
	case "new":
		st, err = h.kiosk.StartNew()
	case "existing":
		st, err = h.kiosk.StartExisting()
	default:
		writeError(w, http.StatusBadRequest, "invalid_mode", `mode must be "new" or "existing"`)
		return
	}
	h.writeState(w, st, err)
}

func (h *kioskHandler) home(w http.ResponseWriter, r *http.Request) {
	st, err := h.kiosk.Home()
	h.writeState(w, st, err)
}

func (h *kioskHandler) back(w http.ResponseWriter, r *http.Request) {
	st, err := h.kiosk.Back()
	h.writeState(w, st, err)
}

func (h *kioskHandler) navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	step, err := kiosk.ParseStep(req.Step)
	if err != nil {
		writeKioskError(w, err)
		return
	}
	st, err := h.kiosk.Navigate(step)
	h.writeState(w, st, err)
}

func (h *kioskHandler) submitIdentity(w http.ResponseWriter, r *http.Request) {
	var req IdentityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	res, err := h.kiosk.SubmitIdentity(r.Context(), req.Number)
	h.writeResult(w, res, err)
}

func (h *kioskHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	p, err := h.kiosk.Register(r.Context(), kiosk.RegistrationDraft{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Phone:  req.Phone,
	})
	h.writeResult(w, p, err)
}

func (h *kioskHandler) search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	mode, err := kiosk.ParseSearchMode(req.Mode)
	if err != nil {
		writeKioskError(w, err)
		return
	}
	p, err := h.kiosk.Search(r.Context(), mode, req.Query)
	h.writeResult(w, p, err)
}

func (h *kioskHandler) history(w http.ResponseWriter, r *http.Request) {
	entries, err := h.kiosk.History(r.Context())
	h.writeResult(w, entries, err)
}

func (h *kioskHandler) bookNew(w http.ResponseWriter, r *http.Request) {
	st, err := h.kiosk.BookNew()
	h.writeState(w, st, err)
}

func (h *kioskHandler) departments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.kiosk.Departments())
}

func (h *kioskHandler) selectDepartment(w http.ResponseWriter, r *http.Request) {
	var req DepartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	st, err := h.kiosk.SelectDepartment(req.ID)
	h.writeState(w, st, err)
}

func (h *kioskHandler) doctors(w http.ResponseWriter, r *http.Request) {
	docs, err := h.kiosk.Doctors(r.Context())
	h.writeResult(w, docs, err)
}

func (h *kioskHandler) selectDoctor(w http.ResponseWriter, r *http.Request) {
	var req DoctorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	st, err := h.kiosk.SelectDoctor(req.DoctorID, req.Slot)
	h.writeState(w, st, err)
}

func (h *kioskHandler) payment(w http.ResponseWriter, r *http.Request) {
	quote, err := h.kiosk.Payment()
	h.writeResult(w, quote, err)
}

func (h *kioskHandler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.kiosk.ConfirmPayment(r.Context())
	h.writeResult(w, appt, err)
}

func (h *kioskHandler) slip(w http.ResponseWriter, r *http.Request) {
	s, err := h.kiosk.Slip()
	h.writeResult(w, s, err)
}

func (h *kioskHandler) setLocale(w http.ResponseWriter, r *http.Request) {
	var req LocaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}
	st, err := h.kiosk.SetLocale(kiosk.Locale(req.Locale))
	h.writeState(w, st, err)
}

func (h *kioskHandler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: h.kiosk.ToggleTheme()})
}

func (h *kioskHandler) emergency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stateResponse(h.kiosk.Emergency()))
}

func recordsHandler(v *kiosk.RecordsViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := v.View(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			writeKioskError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
