package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const followersCountKeyPrefix = "social:followers:"

// RedisCountStore implements CountStore backed by Redis.
type RedisCountStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCountStore creates a new Redis-backed count store.
func NewRedisCountStore(address, password string, db int, ttl time.Duration) (*RedisCountStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCountStore{client: client, ttl: ttl}, nil
}

func followersCountKey(userID uint) string {
	return followersCountKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// GetFollowersCount returns the cached followers count for a user.
// Returns (count, true, nil) on hit, (0, false, nil) on miss.
func (s *RedisCountStore) GetFollowersCount(ctx context.Context, userID uint) (int64, bool, error) {
	val, err := s.client.Get(ctx, followersCountKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis get followers count: %w", err)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse followers count: %w", err)
	}
	return count, true, nil
}

// SetFollowersCount sets the followers count for a user in Redis.
func (s *RedisCountStore) SetFollowersCount(ctx context.Context, userID uint, count int64) error {
	err := s.client.Set(ctx, followersCountKey(userID), count, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("redis set followers count: %w", err)
	}
	return nil
}

// Invalidate drops the cached counts for the given users.
func (s *RedisCountStore) Invalidate(ctx context.Context, userIDs ...uint) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, followersCountKey(id))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis invalidate followers counts: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (s *RedisCountStore) Close() error {
	return s.client.Close()
}

// Ensure interface is satisfied at compile time.
var _ CountStore = (*RedisCountStore)(nil)
