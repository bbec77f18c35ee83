// Package cache keeps the read-through lead-list cache and the
// per-user UI preference store in redis. Cached values are JSON; a
// redis.Nil read is a miss. Every lead mutation invalidates the list
// so readers never see a stale board for longer than one fetch.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"zapcrm/internal/models"
)

const leadListKey = "leads:all"

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

type LeadCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewLeadCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *LeadCache {
	return &LeadCache{rdb: rdb, ttl: ttl, log: log}
}

// Get returns the cached lead list and whether it was present. Cache
// errors degrade to a miss, never to a request failure.
func (c *LeadCache) Get(ctx context.Context) ([]models.Lead, bool) {
	str, err := c.rdb.Get(ctx, leadListKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("lead cache read failed")
		}
		return nil, false
	}
	var leads []models.Lead
	if err := json.Unmarshal([]byte(str), &leads); err != nil {
		c.log.Warn().Err(err).Msg("lead cache decode failed")
		return nil, false
	}
	return leads, true
}

func (c *LeadCache) Set(ctx context.Context, leads []models.Lead) {
	b, err := json.Marshal(leads)
	if err != nil {
		c.log.Warn().Err(err).Msg("lead cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, leadListKey, b, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("lead cache write failed")
	}
}

// Invalidate drops the cached list. Called after every lead mutation,
// including failed status moves, so the next read goes to the store.
func (c *LeadCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, leadListKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("lead cache invalidate failed")
	}
}
