package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/lostfound/internal/store"
)

// Store is the key/value backend holding session records.
type Store interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SettingsStore keeps session records in the database settings table.
type SettingsStore struct {
	DB *sql.DB
}

// NewSettingsStore returns a Store backed by the settings table.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{DB: db}
}

func (s *SettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	return store.GetSetting(ctx, s.DB, key)
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	return store.PutSetting(ctx, s.DB, key, value)
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	return store.DeleteSetting(ctx, s.DB, key)
}

// Close is a no-op; the database is owned by the caller.
func (s *SettingsStore) Close() error { return nil }

// RedisStore keeps session records in Redis. Records have no TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
