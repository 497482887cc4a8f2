package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps the identity in a Redis hash so several shells on
// different hosts can share one sign-in.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(redisURL, key string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, key, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client. A zero ttl keeps the
// identity until logout.
func NewRedisStoreWithClient(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context) (Identity, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Identity{}, fmt.Errorf("failed to load session: %w", err)
	}
	if fields["uid"] == "" {
		return Identity{}, ErrNoSession
	}
	return Identity{
		UID:         fields["uid"],
		DisplayName: fields["display_name"],
		Email:       fields["email"],
	}, nil
}

func (r *RedisStore) Save(ctx context.Context, id Identity) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key)
	pipe.HSet(ctx, r.key, map[string]interface{}{
		"uid":          id.UID,
		"display_name": id.DisplayName,
		"email":        id.Email,
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
