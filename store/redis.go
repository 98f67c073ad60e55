package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Backend on top of a go-redis/v9 client. KV keys are laid out
// as "{prefix}:{namespace}:{key}", list keys as
// "{prefix}:{namespace}:list:{key}".
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Prefix string        // key prefix, default "romind"
	TTL    time.Duration // TTL for KV entries, 0 = no expiry
}

// NewRedis creates a Backend backed by the given redis client.
func NewRedis(client redis.UniversalClient, config ...RedisConfig) *Redis {
	cfg := RedisConfig{Prefix: "romind"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "romind"
	}
	return &Redis{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

func (r *Redis) kvKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, namespace, key)
}

func (r *Redis) listKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:list:%s", r.prefix, namespace, key)
}

func (r *Redis) Get(namespace, key string) (string, error) {
	val, err := r.client.Get(context.Background(), r.kvKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (r *Redis) Set(namespace, key, value string) error {
	return r.client.Set(context.Background(), r.kvKey(namespace, key), value, r.ttl).Err()
}

func (r *Redis) Delete(namespace, key string) error {
	return r.client.Del(context.Background(), r.kvKey(namespace, key)).Err()
}

func (r *Redis) Append(namespace, key, value string) error {
	return r.client.RPush(context.Background(), r.listKey(namespace, key), value).Err()
}

func (r *Redis) GetList(namespace, key string) ([]string, error) {
	return r.client.LRange(context.Background(), r.listKey(namespace, key), 0, -1).Result()
}

func (r *Redis) TrimList(namespace, key string, maxSize int) error {
	return r.client.LTrim(context.Background(), r.listKey(namespace, key), int64(-maxSize), -1).Err()
}

func (r *Redis) ClearList(namespace, key string) error {
	return r.client.Del(context.Background(), r.listKey(namespace, key)).Err()
}

func (r *Redis) ListLength(namespace, key string) (int, error) {
	n, err := r.client.LLen(context.Background(), r.listKey(namespace, key)).Result()
	return int(n), err
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Backend = (*Redis)(nil)
