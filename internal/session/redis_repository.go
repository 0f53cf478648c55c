package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/solargrid/solargrid-web/pkg/logger"
)

// RedisRepository implements Repository using Redis as the backing store.
// Sessions are stored as JSON under key "<prefix><contextID>". A zero ttl keeps
// them until logout; a positive ttl is a sliding retention window, refreshed on
// every read, that only reclaims abandoned browser contexts.
type RedisRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-based session repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisRepository {
	if prefix == "" {
		prefix = "solargrid:session:"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepository) Name() string { return "redis" }

func (r *RedisRepository) key(id string) string {
	return r.prefix + id
}

// Put overwrites the whole record with a single SET.
func (r *RedisRepository) Put(ctx context.Context, id string, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(id), b, r.ttl).Err()
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key(id), r.ttl).Err(); err != nil {
			logger.Warnf("session: failed to refresh retention of %s: %v", id, err)
		}
	}
	return &s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
