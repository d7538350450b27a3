package idcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps any Redis transport or server failure.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Record is the cached snapshot of one user. It deliberately mirrors the
// store's user shape without importing it, so this package has no sibling
// dependency.
type Record struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Roles        []string  `json:"roles"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Cache reads and writes identity records in Redis. A Cache is immutable and
// safe for concurrent use.
type Cache struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a Cache backed by the given Redis client. prefix sets the Redis
// key namespace.
func New(client redis.UniversalClient, prefix string) *Cache {
	return &Cache{
		redis:  client,
		prefix: prefix,
	}
}

// Key returns the namespaced Redis key for one lookup alias. Exposed so
// operational tooling can inspect or evict entries directly.
func (c *Cache) Key(alias string) string {
	return c.prefix + ":user:" + alias
}

// Get returns the record cached under the given alias, or (nil, nil) on a
// miss. A corrupt entry is deleted and reported as a miss.
func (c *Cache) Get(ctx context.Context, alias string) (*Record, error) {
	data, err := c.redis.Get(ctx, c.Key(alias)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = c.redis.Del(ctx, c.Key(alias)).Err()
		return nil, nil
	}

	return &rec, nil
}

// Set writes the record under both of its aliases (id and email) with one
// shared TTL, so the two entries expire together.
func (c *Cache) Set(ctx context.Context, rec *Record, ttl time.Duration) error {
	if rec == nil {
		return errors.New("nil record")
	}
	if ttl <= 0 {
		return errors.New("non-positive ttl")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	idKey := c.Key(rec.ID)
	emailKey := c.Key(rec.Email)

	_, err = c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, idKey, data, ttl)
		pipe.Set(ctx, emailKey, data, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Delete evicts the entries for the given aliases. Deleting an absent alias
// is not an error.
func (c *Cache) Delete(ctx context.Context, aliases ...string) error {
	if len(aliases) == 0 {
		return nil
	}

	keys := make([]string, len(aliases))
	for i, alias := range aliases {
		keys[i] = c.Key(alias)
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Ping verifies Redis connectivity and reports the round-trip time.
func (c *Cache) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
