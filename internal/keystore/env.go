package keystore

import (
	"context"
	"os"
)

// TokenEnv overrides the persisted token when set.
const TokenEnv = "FINTRACK_TOKEN"

// EnvOverride wraps a Store so that a token in the environment takes
// precedence over the persisted one. Writes pass through unchanged.
type EnvOverride struct {
	Store
	lookup func(string) string
}

// WithEnvOverride wraps s with the FINTRACK_TOKEN override.
func WithEnvOverride(s Store) *EnvOverride {
	return &EnvOverride{Store: s, lookup: os.Getenv}
}

// Load returns the persisted record with the environment token applied. The
// cached user is kept only when it was saved for that same token.
func (e *EnvOverride) Load(ctx context.Context) (Record, error) {
	rec, err := e.Store.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	token := e.lookup(TokenEnv)
	if token == "" || token == rec.Token {
		return rec, nil
	}
	return Record{Token: token}, nil
}

// Backend names the wrapped backend.
func (e *EnvOverride) Backend() string {
	return e.Store.Backend() + "+env"
}
