package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

/* Redis implementation of audit.Sink
 * One list per calendar day: audit:{day}, RPUSH preserves append order.
 * Useful when gateway instances are ephemeral and a local log directory
 * would not survive a redeploy.
 */

const (
	keyPrefix = "audit" // List naming: audit:{day}

	// retention keeps a day's list around long enough for retrospective
	// analysis without growing unbounded
	retention = 14 * 24 * time.Hour
)

type Store struct {
	client *redis.Client
}

// NewStore creates a Redis-backed audit store
func NewStore(addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Append pushes one record line onto the day's list
func (s *Store) Append(ctx context.Context, day string, line []byte) error {
	key := dayKey(day)

	if err := s.client.RPush(ctx, key, line).Err(); err != nil {
		return fmt.Errorf("appending audit record: %w", err)
	}

	// Refreshing the TTL on every append keeps active days alive and
	// lets idle days expire
	if err := s.client.Expire(ctx, key, retention).Err(); err != nil {
		return fmt.Errorf("setting audit retention: %w", err)
	}
	return nil
}

// ReadDay returns every line of the given day's list, in append order
func (s *Store) ReadDay(ctx context.Context, day string) ([][]byte, error) {
	values, err := s.client.LRange(ctx, dayKey(day), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading audit records for %s: %w", day, err)
	}

	lines := make([][]byte, len(values))
	for i, value := range values {
		lines[i] = []byte(value)
	}
	return lines, nil
}

// Close closes the underlying Redis client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Close()
}

func dayKey(day string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, day)
}
