package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/hospital-kiosk/internal/config"
	"github.com/hackgods/hospital-kiosk/internal/db"
	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	"github.com/hackgods/hospital-kiosk/internal/logging"
	redisclient "github.com/hackgods/hospital-kiosk/internal/redis"
	"github.com/hackgods/hospital-kiosk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.Init("expiry-worker", "dev", "info")
		boot.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.Init("expiry-worker", cfg.Env, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Msg("expiry worker starting up")

	if cfg.StoreBackend != config.BackendPostgres {
		logger.Fatal().Str("store", cfg.StoreBackend).Msg("expiry worker needs STORE_BACKEND=postgres")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	var locker redisclient.Locker = redisclient.LocalLocker{}
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection error")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing redis")
			}
		}()
		locker = redisclient.NewRedisJobLocker(rdb, cfg.LockTTL)
		logger.Info().Msg("connected to Redis")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, run a single expiry worker only")
	}

	job := worker.NewTokenExpiry(kiosk.NewPgRepository(pgPool), locker, nil, logger)
	job.Run(rootCtx, cfg.WorkerInterval)
}
