package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	redisclient "github.com/hackgods/hospital-kiosk/internal/redis"
)

// TokenExpiryLockName is the job lock shared by every expiry worker.
const TokenExpiryLockName = "token-expiry"

// TokenExpiry deactivates records access tokens whose lifetime has passed.
type TokenExpiry struct {
	store   kiosk.AccessTokenStore
	locker  redisclient.Locker
	clock   kiosk.Clock
	logger  zerolog.Logger
	timeout time.Duration
}

func NewTokenExpiry(store kiosk.AccessTokenStore, locker redisclient.Locker, clock kiosk.Clock, logger zerolog.Logger) *TokenExpiry {
	if locker == nil {
		locker = redisclient.LocalLocker{}
	}
	if clock == nil {
		clock = kiosk.SystemClock()
	}
	return &TokenExpiry{
		store:   store,
		locker:  locker,
		clock:   clock,
		logger:  logger,
		timeout: 20 * time.Second,
	}
}

// RunOnce performs one sweep. A sweep already held by another worker is
// skipped and reported as zero tokens.
func (j *TokenExpiry) RunOnce(ctx context.Context) (int64, error) {
	runCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	var n int64
	err := j.locker.WithLock(runCtx, TokenExpiryLockName, func(lockCtx context.Context) error {
		var err error
		n, err = j.store.DeactivateExpiredTokens(lockCtx, j.clock.Now())
		return err
	})
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		j.logger.Debug().Msg("expiry sweep held by another worker, skipping")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("token expiry sweep: %w", err)
	}
	return n, nil
}

// Run sweeps at startup and then every interval until ctx is done.
func (j *TokenExpiry) Run(ctx context.Context, interval time.Duration) {
	j.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("shutdown signal received, stopping expiry worker")
			return
		case <-ticker.C:
			j.runLogged(ctx)
		}
	}
}

func (j *TokenExpiry) runLogged(ctx context.Context) {
	start := time.Now()
	n, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("expiry run error")
		return
	}
	j.logger.Info().
		Int64("deactivated", n).
		Dur("duration", time.Since(start)).
		Msg("expiry run complete")
}
