package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/trainbooking/config"
	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrStale is returned by SetTrains when the list was invalidated after its
// version was read.
var ErrStale = errors.New("cache: stale train list")

type RedisCache struct {
	client    *redis.Client
	trainsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, trainsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), trainsTTL)
}

func NewRedisCacheWithClient(client *redis.Client, trainsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, trainsTTL: trainsTTL}
}

// GetTrains returns nil, nil on a cache miss.
func (c *RedisCache) GetTrains(ctx context.Context) ([]domain.Train, error) {
	data, err := c.client.Get(ctx, trainsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var trains []domain.Train
	if err := json.Unmarshal(data, &trains); err != nil {
		return nil, err
	}
	return trains, nil
}

// TrainsVersion returns the invalidation counter of the train list. Read it
// before loading the list from the database and pass it to SetTrains.
func (c *RedisCache) TrainsVersion(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, trainsVersionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// SetTrains stores the list only while the version is still current.
func (c *RedisCache) SetTrains(ctx context.Context, trains []domain.Train, version int64) error {
	payload, err := json.Marshal(trains)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, trainsVersionKey()).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, trainsKey(), payload, c.trainsTTL)
			return nil
		})
		return err
	}, trainsVersionKey())

	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	if err != nil && !errors.Is(err, ErrStale) {
		return fmt.Errorf("set trains: %w", err)
	}
	return err
}

// InvalidateTrains drops the list and bumps its version.
func (c *RedisCache) InvalidateTrains(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, trainsVersionKey())
		pipe.Del(ctx, trainsKey())
		return nil
	})
	return err
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func trainsKey() string {
	return "cache:trains"
}

func trainsVersionKey() string {
	return "cache:trains:version"
}
