package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/tally-lab/tally/internal/core/aggregation"
)

const (
	keyPrefix = "tally:stats:"
	genPrefix = "tally:stats-gen:"

	// Generation keys outlive every body written under them.
	minGenerationTTL = 24 * time.Hour
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis caches stats bodies in Redis with a fixed TTL.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	genTTL  time.Duration
	timeout time.Duration
}

var _ StatsCache = (*Redis)(nil)

// NewRedis connects and pings Redis.
func NewRedis(opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	slog.Info("[Cache] Redis stats cache enabled", "addr", opts.Addr, "ttl", ttl)
	genTTL := minGenerationTTL
	if genTTL < 2*ttl {
		genTTL = 2 * ttl
	}
	return &Redis{
		client:  client,
		ttl:     ttl,
		genTTL:  genTTL,
		timeout: 250 * time.Millisecond,
	}, nil
}

// Key returns the Redis key of a body for a site, scope (YYYY-MM-DD or
// "all") and generation.
func Key(siteID, scope string, gen int64) string {
	return keyPrefix + siteID + ":" + scope + ":g" + strconv.FormatInt(gen, 10)
}

// GenerationKey returns the Redis key holding the current generation of a
// site and scope. A missing key is generation 0.
func GenerationKey(siteID, scope string) string {
	return genPrefix + siteID + ":" + scope
}

func (r *Redis) Get(ctx context.Context, siteID, scope string) ([]byte, int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	gen, err := r.client.Get(ctx, GenerationKey(siteID, scope)).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		r.logError("get generation", err)
		return nil, NoGeneration, false
	}

	body, err := r.client.Get(ctx, Key(siteID, scope, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false
	}
	if err != nil {
		r.logError("get", err)
		return nil, NoGeneration, false
	}
	return body, gen, true
}

func (r *Redis) Set(ctx context.Context, siteID, scope string, gen int64, body []byte) {
	if gen < 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, Key(siteID, scope, gen), body, r.ttl).Err(); err != nil {
		r.logError("set", err)
	}
}

// Invalidate bumps the generation of every stale scope. Bodies under the old
// generation are left to expire.
func (r *Redis) Invalidate(ctx context.Context, keys []aggregation.GroupKey) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for site, scopes := range staleScopes(keys) {
			for _, scope := range scopes {
				genKey := GenerationKey(site, scope)
				pipe.Incr(ctx, genKey)
				pipe.Expire(ctx, genKey, r.genTTL)
			}
		}
		return nil
	})
	if err != nil {
		r.logError("invalidate", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) logError(op string, err error) {
	slog.Warn("[Cache] Redis error, treating as miss", "op", op, "error", err)
}
