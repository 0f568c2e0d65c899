package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-kiosk/internal/api"
	"github.com/hackgods/hospital-kiosk/internal/config"
	"github.com/hackgods/hospital-kiosk/internal/db"
	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	"github.com/hackgods/hospital-kiosk/internal/logging"
	"github.com/hackgods/hospital-kiosk/internal/metrics"
	redisclient "github.com/hackgods/hospital-kiosk/internal/redis"
	"github.com/hackgods/hospital-kiosk/internal/registry"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.Init("api-server", "dev", "info")
		boot.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.Init("api-server", cfg.Env, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("store", cfg.StoreBackend).
		Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store     kiosk.Repository
		pgPinger  api.Pinger
		redisPing api.Pinger
		doctors   kiosk.DoctorDirectory
	)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		// Connect Postgres
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection error")
		}
		defer pgPool.Close()
		logger.Info().Msg("connected to Postgres")

		repo := kiosk.NewPgRepository(pgPool)
		store = repo
		pgPinger = repo
	default:
		mem := kiosk.NewMemoryRepository()
		mem.PutDoctors(kiosk.DefaultDoctors...)
		store = mem
		logger.Warn().Msg("using in-memory store, records are lost on restart")
	}
	doctors = store

	// Connect Redis
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, doctor cache disabled")
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					logger.Error().Err(err).Msg("error closing redis")
				}
			}()
			cache := redisclient.NewDoctorCache(rdb, store, cfg.DoctorCacheTTL, logger)
			doctors = cache
			redisPing = cache
			logger.Info().Msg("connected to Redis")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewKioskMetrics(reg)

	announcements := kiosk.NewRecentAnnouncements(kiosk.LogAnnouncer{
		Logger: logger.With().Str("component", "narration").Logger(),
	})

	ctrl := kiosk.NewController(kiosk.ControllerConfig{
		Store:             store,
		Doctors:           doctors,
		Registry:          registry.MustDefault(),
		Announcer:         announcements,
		Logger:            logger.With().Str("component", "kiosk").Logger(),
		Metrics:           m,
		IdleTimeout:       cfg.IdleTimeout,
		PaymentWindow:     cfg.PaymentWindow,
		SlipReturn:        cfg.SlipReturn,
		RecordsTokenTTL:   cfg.RecordsTokenTTL,
		Location:          cfg.Timezone,
		AppointmentPrefix: cfg.AppointmentPrefix,
		RecordsBaseURL:    cfg.RecordsBaseURL,
		UPIPayee:          cfg.UPIPayee,
		UPIPayeeName:      cfg.UPIPayeeName,
	})
	defer ctrl.Close()

	router := api.NewRouter(api.RouterConfig{
		Kiosk:         ctrl,
		Records:       kiosk.NewRecordsViewer(store, nil, logger.With().Str("component", "records").Logger(), m),
		Announcements: announcements,
		Logger:        logger,
		Metrics:       m,
		Gatherer:      reg,
		Postgres:      pgPinger,
		Redis:         redisPing,
		Env:           cfg.Env,
		Version:       version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()

	logger.Info().Msg("shutting down api-server")
	shutdown(srv, cfg.ShutdownTimeout, logger)
}

func shutdown(srv *http.Server, timeout time.Duration, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
