package kv

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// go-redis reports missing keys and missing expirations on TTL as the
// raw protocol integers, not scaled to seconds.
const (
	redisKeyMissing = time.Duration(-2)
	redisNoExpiry   = time.Duration(-1)
)

// hsetIfAbsentLua creates the hash at KEYS[1] from the ARGV field/value
// pairs only when the key does not exist. EXISTS and HSET execute as one
// script, which is what makes registration's conditional create atomic.
var hsetIfAbsentLua = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
for i = 1, #ARGV, 2 do
  redis.call('HSET', KEYS[1], ARGV[i], ARGV[i+1])
end
return 1
`)

// Redis adapts a go-redis client to the Store contract. It also
// implements Creator through a Lua script.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis wraps an existing go-redis client. The client's lifecycle
// stays with the caller.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

func (r *Redis) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return r.client.HSet(ctx, key, flattenFields(fields)...).Err()
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return r.client.Del(ctx, keys...).Result()
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.Expire(ctx, key, ttl).Result()
}

func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	d, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}
	switch d {
	case redisKeyMissing:
		return 0, false, nil
	case redisNoExpiry:
		return -1, true, nil
	default:
		return d, true, nil
	}
}

// HSetIfAbsent implements Creator.
func (r *Redis) HSetIfAbsent(ctx context.Context, key string, fields map[string]string) (bool, error) {
	created, err := hsetIfAbsentLua.Run(ctx, r.client, []string{key}, flattenFields(fields)...).Int64()
	if err != nil {
		return false, err
	}
	return created == 1, nil
}

// flattenFields renders a field map as alternating name/value arguments
// in deterministic order.
func flattenFields(fields map[string]string) []interface{} {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]interface{}, 0, len(fields)*2)
	for _, name := range names {
		args = append(args, name, fields[name])
	}
	return args
}
