// internal/service/stats/stats.go
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crm-service/internal/domain/stats"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type StatsRepository interface {
	Dashboard(ctx context.Context, userID int64) (*stats.Dashboard, error)
}

// Cache is a byte-blob cache with TTL. Backed by Redis in production.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type StatsService struct {
	statsRepo StatsRepository
	cache     Cache
	ttl       time.Duration
	logger    *zap.Logger
}

func NewStatsService(statsRepo StatsRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// Dashboard returns the rollups for a user's dashboard, served from cache when
// a fresh copy exists. Dashboard counts may lag real time by up to the TTL
// plus one worker interval.
func (s *StatsService) Dashboard(ctx context.Context, userID int64) (*stats.Dashboard, error) {
	key := fmt.Sprintf("stats:dashboard:%d", userID)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var d stats.Dashboard
		if err := json.Unmarshal(cached, &d); err == nil {
			return &d, nil
		}
		s.logger.Warn("discarding unreadable cached dashboard", zap.String("key", key))
	}

	d, err := s.statsRepo.Dashboard(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	if payload, err := json.Marshal(d); err == nil {
		s.cache.Set(ctx, key, payload, s.ttl)
	}

	return d, nil
}

// RedisCache adapts a Redis client to the Cache interface. Cache failures are
// treated as misses; the dashboard is always reproducible from Postgres.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
