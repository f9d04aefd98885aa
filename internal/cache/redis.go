package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"todo-api/internal/config"
	"todo-api/internal/models"
	"todo-api/internal/store"
	"todo-api/pkg/logger"
)

const itemsCacheKey = "todos:all"

// NewClient builds the Redis client from config and pings it.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	return client, nil
}

// Store caches the full item list in Redis in front of another store.
// Writes go to the wrapped store first and then drop the cached list.
// Cache errors are logged and never fail a request.
type Store struct {
	next   store.Store
	client *redis.Client
	ttl    time.Duration
}

var _ store.Store = (*Store)(nil)

// Wrap returns next behind a list cache. A nil client disables caching.
func Wrap(next store.Store, client *redis.Client, ttl time.Duration) *Store {
	return &Store{next: next, client: client, ttl: ttl}
}

func (s *Store) Put(ctx context.Context, item models.Item) error {
	if err := s.next.Put(ctx, item); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// ScanAll serves the list from Redis, falling back to the wrapped store on a miss.
func (s *Store) ScanAll(ctx context.Context) ([]models.Item, error) {
	if items, ok := s.get(ctx); ok {
		return items, nil
	}
	items, err := s.next.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, items)
	return items, nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, u store.Update) (models.Item, error) {
	it, err := s.next.UpdateFields(ctx, id, u)
	if err != nil {
		return models.Item{}, err
	}
	s.Invalidate(ctx)
	return it, nil
}

// Invalidate deletes the cached list so the next read goes to the store.
func (s *Store) Invalidate(ctx context.Context) {
	if s.client == nil {
		return
	}
	if err := s.client.Del(ctx, itemsCacheKey).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate todos failed", "error", err)
	}
}

func (s *Store) get(ctx context.Context) ([]models.Item, bool) {
	if s.client == nil {
		return nil, false
	}
	b, err := s.client.Get(ctx, itemsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	var items []models.Item
	if err := json.Unmarshal(b, &items); err != nil {
		logger.Debug(ctx, "Redis unmarshal todos failed", "error", err)
		return nil, false
	}
	return items, true
}

func (s *Store) set(ctx context.Context, items []models.Item) {
	if s.client == nil {
		return
	}
	b, err := json.Marshal(items)
	if err != nil {
		logger.Debug(ctx, "Marshal todos for cache failed", "error", err)
		return
	}
	if err := s.client.Set(ctx, itemsCacheKey, b, s.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}
