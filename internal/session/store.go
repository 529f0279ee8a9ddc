// Package session holds the client-side authentication state: the bearer
// token and the cached profile of the logged-in user.
//
// A Store is the single source of truth for who is logged in. Memory state
// and the persisted copy are updated under one lock, so they never diverge,
// and the user record is only ever present together with a token.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/naveenspark/fintrack/internal/keystore"
	"github.com/naveenspark/fintrack/internal/log"
	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

var (
	// ErrUnauthenticated is returned by operations that need a session.
	ErrUnauthenticated = errors.New("session: not logged in")
	// ErrEmptyToken is returned by Login for an empty token.
	ErrEmptyToken = errors.New("session: empty token")
	// ErrNoFetcher is returned by Reconcile when no ProfileFetcher is set.
	ErrNoFetcher = errors.New("session: no profile fetcher")
)

// State is the login state.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// Persister is the durable copy of the session.
type Persister interface {
	Load(ctx context.Context) (keystore.Record, error)
	Save(ctx context.Context, rec keystore.Record) error
	Clear(ctx context.Context) error
}

// ProfileFetcher fetches the profile that belongs to a token.
type ProfileFetcher interface {
	GetMeWithToken(ctx context.Context, token string) (*domain.User, error)
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	ProfileFetcher
	Login(ctx context.Context, username, password string) (*domain.LoginResponse, error)
}

// Store is the session store.
type Store struct {
	mu      sync.Mutex
	sess    domain.Session
	gen     uint64 // bumped on every login and logout
	persist Persister
	fetcher ProfileFetcher
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentSession) }
}

// WithProfileFetcher sets the source Reconcile refreshes the profile from.
func WithProfileFetcher(f ProfileFetcher) Option {
	return func(s *Store) { s.fetcher = f }
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a logged-out Store backed by p.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persist: p,
		logger:  log.Discard().WithComponent(log.ComponentSession),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetProfileFetcher sets the fetcher after construction. The API client
// needs the Store for its headers, so the two are wired in two steps.
func (s *Store) SetProfileFetcher(f ProfileFetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetcher = f
}

// Load reads the persisted entries. A token makes the session LoggedIn with
// the cached profile; a user without a token is cleared, as is a token
// whose exp claim has passed or a record that cannot be decoded.
func (s *Store) Load(ctx context.Context) error {
	rec, err := s.persist.Load(ctx)
	if errors.Is(err, keystore.ErrCorrupt) {
		s.logger.Warn("clearing unreadable persisted session", log.FieldError, err)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logoutLocked(ctx)
		return nil
	}
	if err != nil {
		s.logger.Warn("load persisted session failed", log.FieldError, err)
		return fmt.Errorf("session.Load: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case rec.Token == "" && rec.User == nil:
		s.resetLocked()
	case rec.Token == "":
		s.logger.Info("clearing orphaned user record", log.FieldReason, "no token")
		s.logoutLocked(ctx)
	default:
		exp := TokenExpiry(rec.Token)
		if !exp.IsZero() && !s.now().Before(exp) {
			s.logger.Info("persisted token expired", log.FieldReason, "expired")
			s.logoutLocked(ctx)
			return nil
		}
		s.sess = domain.Session{Token: rec.Token, User: copyUser(rec.User), ExpiresAt: exp}
		s.gen++
	}
	return nil
}

// Reconcile refreshes the profile with the current token. Any failure logs
// the session out and is returned. A result that arrives after the session
// changed is discarded.
func (s *Store) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	if s.sess.Token == "" {
		s.mu.Unlock()
		return ErrUnauthenticated
	}
	if s.fetcher == nil {
		s.mu.Unlock()
		return ErrNoFetcher
	}
	token, gen, fetcher := s.sess.Token, s.gen, s.fetcher
	s.mu.Unlock()

	u, err := fetcher.GetMeWithToken(ctx, token)
	switch {
	case err != nil:
	case u == nil:
		err = errors.New("empty profile")
	default:
		err = u.Validate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		s.logger.Debug("discarding stale profile refresh")
		return nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("session.Reconcile: %w", err)
		}
		s.logger.Warn("profile refresh failed, logging out", log.FieldError, err)
		s.logoutLocked(ctx)
		return fmt.Errorf("session.Reconcile: %w", err)
	}

	s.sess.User = copyUser(u)
	s.saveLocked(ctx)
	return nil
}

// Restore loads the persisted session and, when logged in, reconciles it.
func (s *Store) Restore(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return nil
	}
	return s.Reconcile(ctx)
}

// Login makes token (and user, which may be nil) the current session and
// persists both entries together. A persistence failure is logged only.
func (s *Store) Login(ctx context.Context, token string, user *domain.User) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = domain.Session{Token: token, User: copyUser(user), ExpiresAt: TokenExpiry(token)}
	s.gen++
	s.saveLocked(ctx)

	fields := log.NewFields().WithOperation(log.OpLogin)
	if user != nil {
		fields = fields.WithUser(user.ID)
	}
	s.logger.WithFields(fields).Info("logged in")
	return nil
}

// SignIn logs in with credentials. The profile comes from the profile
// endpoint, or from the login response when that call fails.
func (s *Store) SignIn(ctx context.Context, auth Authenticator, username, password string) error {
	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("session.SignIn: %w", err)
	}
	token := resp.BearerToken()

	user, err := auth.GetMeWithToken(ctx, token)
	if err != nil {
		s.logger.Warn("profile fetch after login failed, using login response", log.FieldError, err)
		profile := resp.Profile(username)
		user = &profile
	}
	return s.Login(ctx, token, user)
}

// Logout clears memory and both persisted entries. It is idempotent and
// reports whether a session was present.
func (s *Store) Logout(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.sess.Token != ""
	s.logoutLocked(ctx)
	if was {
		s.logger.Info("logged out", log.FieldOperation, log.OpLogout)
	}
	return was
}

// UpdateProfile shallow-merges patch into the cached profile and persists
// it with the token.
func (s *Store) UpdateProfile(ctx context.Context, patch domain.UserPatch) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.Token == "" {
		return domain.User{}, ErrUnauthenticated
	}
	var current domain.User
	if s.sess.User != nil {
		current = *s.sess.User
	}
	merged := patch.Apply(current)
	s.sess.User = &merged
	s.saveLocked(ctx)
	return merged, nil
}

// ReplaceProfile stores u as the profile, typically the server's answer to
// a profile update.
func (s *Store) ReplaceProfile(ctx context.Context, u domain.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("session.ReplaceProfile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.Token == "" {
		return ErrUnauthenticated
	}
	s.sess.User = &u
	s.saveLocked(ctx)
	return nil
}

// AuthHeaders returns the headers for an authenticated call. It is safe to
// call when logged out; the bearer value is then empty.
func (s *Store) AuthHeaders() http.Header {
	s.mu.Lock()
	token := s.sess.Token
	s.mu.Unlock()

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+token)
	return h
}

// HandleAuthRejection logs out when err is a 401 or 403 and reports whether
// it did.
func (s *Store) HandleAuthRejection(err error) bool {
	if !client.IsAuthRejection(err) {
		return false
	}
	s.logger.Info("credentials rejected by server", log.FieldError, err)
	s.Logout(context.Background())
	return true
}

// Snapshot returns a copy of the session.
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.sess
	snap.User = copyUser(s.sess.User)
	return snap
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.State() == LoggedIn
}

// State returns LoggedIn when a token is present.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.Token == "" {
		return LoggedOut
	}
	return LoggedIn
}

// Token returns the bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Token
}

// User returns the cached profile.
func (s *Store) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.User == nil {
		return domain.User{}, false
	}
	return *s.sess.User, true
}

func (s *Store) resetLocked() {
	if s.sess.Token != "" || s.sess.User != nil {
		s.gen++
	}
	s.sess = domain.Session{}
}

func (s *Store) logoutLocked(ctx context.Context) {
	s.sess = domain.Session{}
	s.gen++
	if err := s.persist.Clear(ctx); err != nil {
		s.logger.Warn("clear persisted session failed", log.FieldError, err)
	}
}

func (s *Store) saveLocked(ctx context.Context) {
	rec := keystore.Record{Token: s.sess.Token, User: copyUser(s.sess.User)}
	if err := s.persist.Save(ctx, rec); err != nil {
		s.logger.Warn("persist session failed", log.FieldError, err)
	}
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
