// Package keystore persists the two session entries, the bearer token and
// the cached user record, under a named scope.
//
// Every backend writes and clears both entries together, so a reader never
// observes a token from one login next to the user of another.
package keystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/naveenspark/fintrack/internal/log"
	"github.com/naveenspark/fintrack/pkg/domain"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("keystore: unknown backend")

// ErrCorrupt marks a persisted record that exists but cannot be decoded.
var ErrCorrupt = errors.New("keystore: corrupt record")

// Entry keys shared by the key/value backends.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Record is the persisted pair. An absent entry is its zero value.
type Record struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Empty reports whether neither entry is present.
func (r Record) Empty() bool {
	return r.Token == "" && r.User == nil
}

// Store is a scoped token/user store.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
	Backend() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	SessionFile   string
	SQLitePath    string
	Scope         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	Logger        *log.Logger
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentKeystore)

	scope := opts.Scope
	if scope == "" {
		scope = "default"
	}

	switch opts.Backend {
	case "file", "":
		return NewFileStore(opts.SessionFile), nil
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		s, err := OpenSQLite(ctx, opts.SQLitePath, scope)
		if err != nil {
			return nil, fmt.Errorf("keystore.Open: %w", err)
		}
		logger.Debug("sqlite store ready", log.FieldScope, scope)
		return s, nil
	case "redis":
		s, err := OpenRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
			Scope:    scope,
		})
		if err != nil {
			return nil, fmt.Errorf("keystore.Open: %w", err)
		}
		logger.Debug("redis store ready", log.FieldScope, scope)
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
