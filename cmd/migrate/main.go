package main

import (
	"database/sql"
	"errors"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hackgods/hospital-kiosk/internal/config"
	"github.com/hackgods/hospital-kiosk/internal/logging"
	"github.com/hackgods/hospital-kiosk/migrations"
)

// Usage: migrate [up | down | version | force <version>]
func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.Init("migrate", "dev", "info")
		boot.Fatal().Err(err).Msg("config load failed")
	}
	logger := logging.Init("migrate", cfg.Env, cfg.LogLevel)

	if cfg.StoreBackend != config.BackendPostgres {
		logger.Fatal().Str("backend", cfg.StoreBackend).Msg("migrate needs STORE_BACKEND=postgres")
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db")
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("ping db")
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("db driver")
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Fatal().Err(err).Msg("source driver")
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		logger.Fatal().Err(err).Msg("create migrator")
	}
	defer func() { _, _ = m.Close() }()

	cmd := "up"
	if len(os.Args) >= 2 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal().Err(err).Msg("migrate up")
		}
	case "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal().Err(err).Msg("migrate down")
		}
	case "force":
		if len(os.Args) < 3 {
			logger.Fatal().Msg("force needs a version")
		}
		version, err := strconv.Atoi(os.Args[2])
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid version")
		}
		if err := m.Force(version); err != nil {
			logger.Fatal().Err(err).Msg("force version")
		}
		logger.Info().Int("version", version).Msg("forced version")
		return
	case "version":
	default:
		logger.Fatal().Str("command", cmd).Msg("unknown command")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Fatal().Err(err).Msg("read version")
	}
	logger.Info().Str("command", cmd).Uint("version", version).Bool("dirty", dirty).Msg("migrations complete")
}
