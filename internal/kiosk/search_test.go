package kiosk_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
)

func TestBuildHistoryMergesLegacyVisitsNewestFirst(t *testing.T) {
	p := &kiosk.Patient{
		ID:   "p-1",
		Name: "Nisha Reddy",
		Visits: []kiosk.Visit{
			{Date: "2025-10-05", Department: "Cardiologist", Doctor: "Dr. Ramesh Gupta", Fee: 700, Token: "C07", Status: "Completed", Prescription: "Atorvastatin 20mg"},
			{Date: "2026-02-01", Department: "Orthopedic", Doctor: "Dr. Vikram Singh", Fee: 550, Token: "D11", Status: "Completed"},
		},
	}
	appts := []kiosk.Appointment{
		{AppointmentID: "SC2603141234", DoctorName: "Dr. Meena Iyer", Department: "Cardiologist", Date: "14/3/2026", Slot: "10:00 AM", Fee: 650, PaymentStatus: "Paid", TokenNumber: 3, CreatedAt: time.Date(2026, 3, 14, 4, 30, 0, 0, time.UTC)},
	}

	h := kiosk.BuildHistory(p, appts)
	require.Len(t, h, 3)
	assert.Equal(t, "SC2603141234", h[0].AppointmentID)
	assert.False(t, h[0].Legacy)
	assert.Equal(t, "D11", h[1].AppointmentID)
	assert.True(t, h[1].Legacy)
	assert.Equal(t, "C07", h[2].AppointmentID)
	assert.Equal(t, "Atorvastatin 20mg", h[2].Prescription)
}

func TestBuildHistoryEmpty(t *testing.T) {
	h := kiosk.BuildHistory(&kiosk.Patient{ID: "p-2"}, nil)
	assert.NotNil(t, h)
	assert.Empty(t, h)
}

func TestParseSearchMode(t *testing.T) {
	m, err := kiosk.ParseSearchMode("phone")
	require.NoError(t, err)
	assert.Equal(t, kiosk.SearchPhone, m)

	_, err = kiosk.ParseSearchMode("aadhaar")
	assert.True(t, kiosk.IsValidation(err))
}
