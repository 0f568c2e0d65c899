package kiosk

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-kiosk/internal/metrics"
)

// PatientRecords is the read-only view served to the companion QR page.
type PatientRecords struct {
	Patient *Patient       `json:"patient"`
	History []HistoryEntry `json:"history"`
}

// RecordsViewer serves the companion records page. It never touches the
// kiosk session.
type RecordsViewer struct {
	store   Repository
	clock   Clock
	logger  zerolog.Logger
	metrics *metrics.KioskMetrics
}

func NewRecordsViewer(store Repository, clock Clock, logger zerolog.Logger, m *metrics.KioskMetrics) *RecordsViewer {
	if clock == nil {
		clock = SystemClock()
	}
	return &RecordsViewer{store: store, clock: clock, logger: logger, metrics: m}
}

// View resolves an access token into the linked patient and their history.
func (v *RecordsViewer) View(ctx context.Context, tokenID string) (*PatientRecords, error) {
	rec, err := v.view(ctx, tokenID)
	v.metrics.ObserveRecordsView(recordsResult(err))
	return rec, err
}

func (v *RecordsViewer) view(ctx context.Context, tokenID string) (*PatientRecords, error) {
	if tokenID == "" {
		return nil, ErrAccessTokenInvalid
	}

	tok, err := v.store.GetAccessToken(ctx, tokenID)
	switch {
	case errors.Is(err, ErrAccessTokenNotFound):
		return nil, ErrAccessTokenInvalid
	case err != nil:
		return nil, unavailable("get access token", err)
	}
	if !tok.Usable(v.clock.Now()) {
		return nil, ErrAccessTokenInactive
	}
	if tok.PatientID == "" {
		return nil, ErrNoPatientLinked
	}

	p, err := v.store.GetPatientByID(ctx, tok.PatientID)
	switch {
	case errors.Is(err, ErrPatientNotFound):
		return nil, ErrPatientNotFound
	case err != nil:
		return nil, unavailable("get patient", err)
	}

	appts, err := v.store.ListAppointmentsByPatient(ctx, p.ID)
	if err != nil {
		v.logger.Warn().Err(err).Str("patient_id", p.ID).Msg("could not load appointments for records page")
		appts = nil
	}

	return &PatientRecords{Patient: p, History: BuildHistory(p, appts)}, nil
}

func recordsResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAccessTokenInvalid):
		return "invalid"
	case errors.Is(err, ErrAccessTokenInactive):
		return "inactive"
	case errors.Is(err, ErrNoPatientLinked), errors.Is(err, ErrPatientNotFound):
		return "no_patient"
	default:
		return "error"
	}
}

// TokenWriter is the write half of AccessTokenStore.
type TokenWriter interface {
	IssueAccessToken(ctx context.Context, t AccessToken) error
}

// TokenIssuer mints access tokens for the slip QR code.
type TokenIssuer struct {
	store TokenWriter
	clock Clock
	ttl   time.Duration
}

func NewTokenIssuer(store TokenWriter, clock Clock, ttl time.Duration) *TokenIssuer {
	if clock == nil {
		clock = SystemClock()
	}
	return &TokenIssuer{store: store, clock: clock, ttl: ttl}
}

// Issue creates an active token for patientID. A zero ttl issues a token
// that never expires.
func (i *TokenIssuer) Issue(ctx context.Context, patientID string) (AccessToken, error) {
	now := i.clock.Now()
	tok := AccessToken{
		TokenID:   uuid.NewString(),
		PatientID: patientID,
		IsActive:  true,
		CreatedAt: now,
	}
	if i.ttl > 0 {
		exp := now.Add(i.ttl)
		tok.ExpiresAt = &exp
	}
	if err := i.store.IssueAccessToken(ctx, tok); err != nil {
		return AccessToken{}, err
	}
	return tok, nil
}
