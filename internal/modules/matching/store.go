// README: Match idempotency store backed by Redis strings.
package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "matching:idempotency:%s"
	pendingMarker        = "pending"
)

// Store remembers match results per idempotency key. A key is first reserved
// with a pending marker, then overwritten with the result JSON.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

// Load returns the stored result for key. found is false when the key is
// absent or only reserved.
func (s *Store) Load(ctx context.Context, key string) (*Result, bool, error) {
	val, err := s.redis.Get(ctx, idempotencyKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if val == pendingMarker {
		return nil, false, nil
	}
	var res Result
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, false, fmt.Errorf("decode stored match result: %w", err)
	}
	return &res, true, nil
}

// Reserve claims key for one in-flight match. It reports false when another
// request holds or has completed it.
func (s *Store) Reserve(ctx context.Context, key string) (bool, error) {
	return s.redis.SetNX(ctx, idempotencyKey(key), pendingMarker, s.ttl).Result()
}

func (s *Store) Save(ctx context.Context, key string, res *Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, idempotencyKey(key), b, s.ttl).Err()
}

// Release drops a reservation after a failed attempt so the client may retry.
func (s *Store) Release(ctx context.Context, key string) error {
	return s.redis.Del(ctx, idempotencyKey(key)).Err()
}

func idempotencyKey(key string) string {
	return fmt.Sprintf(idempotencyKeyPrefix, key)
}
