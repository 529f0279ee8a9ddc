package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/naveenspark/fintrack/pkg/domain"
)

const redisPingTimeout = 2 * time.Second

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Scope    string
}

// RedisStore keeps the entries under <prefix><scope>:token and
// <prefix><scope>:user.
type RedisStore struct {
	client *redis.Client
	prefix string
	scope  string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix, scope string) *RedisStore {
	if prefix == "" {
		prefix = "fintrack:"
	}
	return &RedisStore{client: client, prefix: prefix, scope: scope}
}

// OpenRedis connects to Redis and checks the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewRedisStore(client, opts.Prefix, opts.Scope), nil
}

func (r *RedisStore) key(entry string) string {
	return r.prefix + r.scope + ":" + entry
}

// Load reads both keys in one round trip.
func (r *RedisStore) Load(ctx context.Context) (Record, error) {
	vals, err := r.client.MGet(ctx, r.key(KeyToken), r.key(KeyUser)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("keystore.RedisStore.Load: %w", err)
	}

	var rec Record
	if s, ok := vals[0].(string); ok {
		rec.Token = s
	}
	if s, ok := vals[1].(string); ok {
		var u domain.User
		if err := json.Unmarshal([]byte(s), &u); err != nil {
			return Record{}, fmt.Errorf("keystore.RedisStore.Load: decode user: %w: %w", ErrCorrupt, err)
		}
		rec.User = &u
	}
	return rec, nil
}

// Save writes both keys in one MULTI/EXEC. Absent entries are deleted.
func (r *RedisStore) Save(ctx context.Context, rec Record) error {
	var userData []byte
	if rec.User != nil {
		data, err := json.Marshal(rec.User)
		if err != nil {
			return fmt.Errorf("keystore.RedisStore.Save: encode user: %w", err)
		}
		userData = data
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if rec.Token != "" {
			pipe.Set(ctx, r.key(KeyToken), rec.Token, 0)
		} else {
			pipe.Del(ctx, r.key(KeyToken))
		}
		if userData != nil {
			pipe.Set(ctx, r.key(KeyUser), userData, 0)
		} else {
			pipe.Del(ctx, r.key(KeyUser))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("keystore.RedisStore.Save: %w", err)
	}
	return nil
}

// Clear deletes both keys.
func (r *RedisStore) Clear(ctx context.Context) error {
	err := r.client.Del(ctx, r.key(KeyToken), r.key(KeyUser)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("keystore.RedisStore.Clear: %w", err)
	}
	return nil
}

// Backend returns "redis".
func (r *RedisStore) Backend() string { return "redis" }

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
