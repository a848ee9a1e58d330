package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "fitplanner:"

// RedisStorage implements Storage interface on top of a Redis server
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage connects to Redis and verifies the connection
func NewRedisStorage(cfg StorageConfig) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStorage{client: client}, nil
}

// NewRedisStorageWithClient wraps an existing client
func NewRedisStorageWithClient(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func redisKey(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return redisKeyPrefix + cleaned, nil
}

// Put stores a value without expiry
func (s *RedisStorage) Put(ctx context.Context, key string, data []byte) error {
	storageKey, err := redisKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, storageKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write to redis: %w", err)
	}
	return nil
}

// Get retrieves a value from Redis
func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	storageKey, err := redisKey(key)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, storageKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}
	return data, nil
}

// Delete removes a value from Redis
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	storageKey, err := redisKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, storageKey).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
