package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
)

// DoctorCache is a read-through cache in front of a kiosk.DoctorDirectory.
// Redis errors are logged and the directory is queried directly.
type DoctorCache struct {
	client *redis.Client
	next   kiosk.DoctorDirectory
	ttl    time.Duration
	logger zerolog.Logger
}

func NewDoctorCache(client *redis.Client, next kiosk.DoctorDirectory, ttl time.Duration, logger zerolog.Logger) *DoctorCache {
	return &DoctorCache{client: client, next: next, ttl: ttl, logger: logger}
}

func doctorsKey(departmentID string) string {
	return fmt.Sprintf("kiosk:doctors:%s", departmentID)
}

func (c *DoctorCache) ListDoctorsByDepartment(ctx context.Context, departmentID string) ([]kiosk.Doctor, error) {
	key := doctorsKey(departmentID)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var docs []kiosk.Doctor
		if err := json.Unmarshal(raw, &docs); err == nil {
			return docs, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable doctor cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("doctor cache read failed")
	}

	docs, err := c.next.ListDoctorsByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	payload, err := json.Marshal(docs)
	if err != nil {
		return docs, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("doctor cache write failed")
	}
	return docs, nil
}

// Invalidate drops the cached list for departmentID.
func (c *DoctorCache) Invalidate(ctx context.Context, departmentID string) error {
	return c.client.Del(ctx, doctorsKey(departmentID)).Err()
}

// Ping reports whether redis is reachable, for readiness probes.
func (c *DoctorCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
