package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"DnsBot/bot/chat"
)

// RedisStore keeps session values as JSON strings in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the expiry of every written value. Zero keeps values forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Default is "dnsbot".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: "dnsbot",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) sessionKey(c chat.ChatKey, key string) string {
	return fmt.Sprintf("%s:session:%s:%s:%s", s.prefix, c.Platform, c.ChatID, key)
}

func (s *RedisStore) Get(ctx context.Context, c chat.ChatKey, key string, out any) (bool, error) {
	data, err := s.client.Get(ctx, s.sessionKey(c, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if err = chat.UnmarshalValue(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, c chat.ChatKey, key string, value any) error {
	data, err := chat.MarshalValue(value)
	if err != nil {
		return err
	}
	if err = s.client.Set(ctx, s.sessionKey(c, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, c chat.ChatKey, key string) error {
	if err := s.client.Del(ctx, s.sessionKey(c, key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Has(ctx context.Context, c chat.ChatKey, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.sessionKey(c, key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
