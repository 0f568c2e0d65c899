package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/hospital-kiosk/internal/config"
	"github.com/hackgods/hospital-kiosk/internal/db"
	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	"github.com/hackgods/hospital-kiosk/internal/logging"
	redisclient "github.com/hackgods/hospital-kiosk/internal/redis"
)

// seedStore is the part of the repository the seeder writes through.
type seedStore interface {
	UpsertDoctor(ctx context.Context, d kiosk.Doctor) error
	FindPatientByAadhaar(ctx context.Context, aadhaar string) (*kiosk.Patient, error)
	CreatePatient(ctx context.Context, p kiosk.Patient) (*kiosk.Patient, error)
	IssueAccessToken(ctx context.Context, t kiosk.AccessToken) error
}

// doctorCache is the doctor list cache the api-server reads through. Lists
// for reseeded departments are dropped so the new roster shows up at once.
type doctorCache interface {
	Invalidate(ctx context.Context, departmentID string) error
}

type seedOptions struct {
	Cache          doctorCache
	FakePatients   int
	FakeSeed       int64
	IssueTokens    bool
	TokenTTL       time.Duration
	RecordsBaseURL string
}

type seedReport struct {
	Doctors     int
	Invalidated int
	Patients    int
	Skipped     int
	Links       []string
}

func main() {
	var opts seedOptions

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the doctor roster and sample patients into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}
			if cfg.StoreBackend != config.BackendPostgres {
				return errors.New("seed writes to Postgres, set STORE_BACKEND=postgres")
			}
			logger := logging.Init("seed", cfg.Env, cfg.LogLevel)
			if opts.RecordsBaseURL == "" {
				opts.RecordsBaseURL = cfg.RecordsBaseURL
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()
			repo := kiosk.NewPgRepository(pool)

			if cfg.RedisAddr != "" {
				rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
				if err != nil {
					logger.Warn().Err(err).Msg("redis unavailable, cached doctor lists stay until they expire")
				} else {
					defer rdb.Close()
					opts.Cache = redisclient.NewDoctorCache(rdb, repo, cfg.DoctorCacheTTL, logger)
				}
			}

			report, err := seed(ctx, repo, opts, logger)
			if err != nil {
				return err
			}
			for _, link := range report.Links {
				fmt.Println(link)
			}
			logger.Info().
				Int("doctors", report.Doctors).
				Int("cache_invalidated", report.Invalidated).
				Int("patients", report.Patients).
				Int("skipped", report.Skipped).
				Msg("seed complete")
			return nil
		},
	}
	rootCmd.Flags().IntVar(&opts.FakePatients, "fake-patients", 0, "Extra generated patients without history")
	rootCmd.Flags().Int64Var(&opts.FakeSeed, "fake-seed", 0, "Seed for generated patients (0 picks one from the clock)")
	rootCmd.Flags().BoolVar(&opts.IssueTokens, "tokens", false, "Issue a records token per sample patient and print its link")
	rootCmd.Flags().DurationVar(&opts.TokenTTL, "token-ttl", 24*time.Hour, "Lifetime of issued records tokens (0 never expires)")
	rootCmd.Flags().StringVar(&opts.RecordsBaseURL, "records-base-url", "", "Records page prefix, defaults to RECORDS_BASE_URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// seed is idempotent for doctors and sample patients: doctors are upserted
// by ID and patients whose identity number already exists are skipped.
func seed(ctx context.Context, store seedStore, opts seedOptions, logger zerolog.Logger) (seedReport, error) {
	var report seedReport

	logger.Info().Int("count", len(kiosk.DefaultDoctors)).Msg("seeding doctors")
	for _, d := range kiosk.DefaultDoctors {
		if err := store.UpsertDoctor(ctx, d); err != nil {
			return report, fmt.Errorf("seed doctor %s: %w", d.ID, err)
		}
		report.Doctors++
	}
	if opts.Cache != nil {
		seen := map[string]bool{}
		for _, d := range kiosk.DefaultDoctors {
			if seen[d.Department] {
				continue
			}
			seen[d.Department] = true
			if err := opts.Cache.Invalidate(ctx, d.Department); err != nil {
				logger.Warn().Err(err).Str("department", d.Department).Msg("could not drop cached doctor list")
				continue
			}
			report.Invalidated++
		}
	}

	patients := append([]kiosk.Patient(nil), samplePatients...)
	if opts.FakePatients > 0 {
		patients = append(patients, fakePatients(opts.FakePatients, opts.FakeSeed)...)
	}

	issuer := kiosk.NewTokenIssuer(store, nil, opts.TokenTTL)
	for i, p := range patients {
		existing, err := store.FindPatientByAadhaar(ctx, p.Aadhaar)
		switch {
		case err == nil:
			logger.Debug().Str("name", existing.Name).Msg("patient exists, skipping")
			report.Skipped++
			continue
		case !errors.Is(err, kiosk.ErrPatientNotFound):
			return report, fmt.Errorf("look up patient %s: %w", p.Name, err)
		}

		p.CreatedAt = time.Now()
		created, err := store.CreatePatient(ctx, p)
		if err != nil {
			return report, fmt.Errorf("seed patient %s: %w", p.Name, err)
		}
		report.Patients++
		logger.Info().Str("name", created.Name).Str("id", created.ID).Msg("patient seeded")

		if opts.IssueTokens && i < len(samplePatients) {
			tok, err := issuer.Issue(ctx, created.ID)
			if err != nil {
				return report, fmt.Errorf("issue token for %s: %w", created.Name, err)
			}
			report.Links = append(report.Links, created.Name+": "+kiosk.RecordsURL(opts.RecordsBaseURL, tok.TokenID))
		}
	}

	return report, nil
}

func fakePatients(count int, seed int64) []kiosk.Patient {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(uint64(seed))

	out := make([]kiosk.Patient, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, kiosk.Patient{
			Aadhaar: faker.Numerify("############"),
			Name:    faker.FirstName() + " " + faker.LastName(),
			Age:     faker.Number(1, 90),
			Gender:  titleCase(faker.Gender()),
			Phone:   faker.Numerify("9#########"),
		})
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
