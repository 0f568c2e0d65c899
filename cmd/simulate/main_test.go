package main

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-kiosk/internal/api"
	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	"github.com/hackgods/hospital-kiosk/internal/kiosk/kiosktest"
	"github.com/hackgods/hospital-kiosk/internal/registry"
)

func newKioskServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := kiosk.NewMemoryRepository()
	store.PutDoctors(kiosk.DefaultDoctors...)

	ctrl := kiosk.NewController(kiosk.ControllerConfig{
		Store:             store,
		Registry:          registry.MustDefault(),
		Clock:             kiosktest.NewClock(time.Date(2026, 3, 14, 4, 30, 0, 0, time.UTC)),
		Logger:            zerolog.Nop(),
		Rand:              rand.New(rand.NewSource(3)),
		Location:          time.UTC,
		AppointmentPrefix: "SC",
		RecordsBaseURL:    "http://kiosk.local/records",
		UPIPayee:          "smartcare.hospital@upi",
		UPIPayeeName:      "SmartCare Hospital",
	})
	t.Cleanup(ctrl.Close)

	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{Kiosk: ctrl, Logger: zerolog.Nop(), Env: "test"}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSimulatorJourneys(t *testing.T) {
	srv := newKioskServer(t)
	cfg := SimConfig{
		APIBaseURL:     srv.URL,
		Journeys:       12,
		ExistingRatio:  0.3,
		AbandonRatio:   0.2,
		RegistryRatio:  0.5,
		Seed:           11,
		RequestTimeout: 5 * time.Second,
	}
	require.NoError(t, validateConfig(cfg))

	sim := NewSimulator(cfg, srv.Client(), zerolog.Nop())
	sim.Run(context.Background())

	assert.Zero(t, sim.result.Failed)
	assert.Equal(t, int64(cfg.Journeys), sim.result.Completed+sim.result.Abandoned)

	confirm := sim.metrics.op("confirm")
	assert.Equal(t, sim.result.Completed, confirm.Total)
	assert.Equal(t, confirm.Total, confirm.Success)
}

func TestSimulatorRecoversAfterFailedStep(t *testing.T) {
	srv := newKioskServer(t)
	sim := NewSimulator(SimConfig{APIBaseURL: srv.URL, Journeys: 1, Seed: 5}, srv.Client(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, sim.wakeAndStart(ctx, "new"))
	err := sim.client.call(ctx, "identity", "POST", "/kiosk/identity", api.IdentityRequest{Number: "123"}, nil)
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "validation_failed", apiErr.Code)

	// A journey started from any step goes home first.
	require.NoError(t, sim.newPatientJourney(ctx))
	assert.Equal(t, int64(1), sim.result.Completed)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SimConfig
		wantErr bool
	}{
		{"defaults", loadConfig(), false},
		{"no journeys", SimConfig{Journeys: 0}, true},
		{"ratio above one", SimConfig{Journeys: 1, AbandonRatio: 1.5}, true},
		{"ratios overlap", SimConfig{Journeys: 1, ExistingRatio: 0.6, AbandonRatio: 0.6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
