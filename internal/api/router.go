package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	"github.com/hackgods/hospital-kiosk/internal/metrics"
)

type RouterConfig struct {
	Kiosk         *kiosk.Controller
	Records       *kiosk.RecordsViewer
	Announcements *kiosk.RecentAnnouncements // optional, adds the last spoken line to state
	Logger        zerolog.Logger
	Metrics       *metrics.KioskMetrics
	Gatherer      prometheus.Gatherer // nil disables /metrics
	Postgres      Pinger
	Redis         Pinger
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(MetricsMiddleware(cfg.Metrics))

	// Health endpoints
	health := NewHealthHandler(cfg.Postgres, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Kiosk endpoints
	h := &kioskHandler{kiosk: cfg.Kiosk, announcements: cfg.Announcements}
	r.Route("/kiosk", func(r chi.Router) {
		r.Get("/state", h.state)
		r.Post("/activity", h.activity)
		r.Post("/wake", h.wake)
		r.Post("/start", h.start)
		r.Post("/home", h.home)
		r.Post("/back", h.back)
		r.Post("/navigate", h.navigate)
		r.Post("/identity", h.submitIdentity)
		r.Post("/register", h.register)
		r.Post("/search", h.search)
		r.Get("/history", h.history)
		r.Post("/book-new", h.bookNew)
		r.Get("/departments", h.departments)
		r.Post("/department", h.selectDepartment)
		r.Get("/doctors", h.doctors)
		r.Post("/doctor", h.selectDoctor)
		r.Get("/payment", h.payment)
		r.Post("/payment/confirm", h.confirmPayment)
		r.Get("/slip", h.slip)
		r.Post("/locale", h.setLocale)
		r.Post("/theme", h.toggleTheme)
		r.Post("/emergency", h.emergency)
	})

	// Companion records page
	if cfg.Records != nil {
		r.Get("/records/{token}", recordsHandler(cfg.Records))
	}

	return r
}
