// Package session holds the authenticated identity of the running client.
//
// Store is the single source of truth for who is logged in. It starts in the
// loading phase, restores a persisted identity in Initialize and afterwards
// serializes every transition (login, register, logout, invalidation) behind
// one writer lock. Readers take a consistent State with Snapshot.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/feedbackhub/internal/client/client"
	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
	"github.com/dmitrijs2005/feedbackhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/feedbackhub/internal/dbx"
	"github.com/dmitrijs2005/feedbackhub/internal/logging"
)

// ErrNotAuthenticated is returned by Require when no identity is set.
var ErrNotAuthenticated = errors.New("not authenticated")

const (
	loginFailed    = "Login failed"
	registerFailed = "Registration failed"
)

// Result is the outcome of Login and Register. Error is a human readable
// message and is empty on success.
type Result struct {
	Success bool
	Error   string
}

// State is a point-in-time copy of the store.
type State struct {
	Loading  bool
	Identity *models.Identity
}

// Authenticated reports whether the state carries an identity and loading
// has finished.
func (s State) Authenticated() bool {
	return !s.Loading && s.Identity != nil
}

// Role returns the role of the current identity, or "" when there is none.
func (s State) Role() models.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.User.Role
}

// Option configures a Store.
type Option func(*Store)

// WithDB enables durable persistence of the identity in db. Without it the
// store keeps the identity in memory only.
func WithDB(db *sql.DB) Option {
	return func(s *Store) { s.db = db }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces the clock used to check token expiry and to estimate
// the server clock offset.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithServerOffset registers fn to receive server time minus local time each
// time an auth response carries a Date header.
func WithServerOffset(fn func(time.Duration)) Option {
	return func(s *Store) { s.onOffset = fn }
}

// Store is safe for concurrent use.
type Store struct {
	auth     client.AuthAPI
	db       *sql.DB
	log      logging.Logger
	now      func() time.Time
	onOffset func(time.Duration)

	// writeMu serializes transitions end to end, including the network call.
	writeMu sync.Mutex

	mu       sync.RWMutex
	loading  bool
	identity *models.Identity

	obsMu     sync.Mutex
	observers map[int]func(State)
	nextObs   int
}

// NewStore returns a store in the loading phase. Call Initialize to restore
// persisted state and finish loading.
func NewStore(auth client.AuthAPI, opts ...Option) *Store {
	s := &Store{
		auth:      auth,
		log:       logging.NewNoop(),
		now:       time.Now,
		loading:   true,
		observers: make(map[int]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize restores the persisted identity, if any, and moves the store to
// the ready phase. A malformed blob, or a token past its exp claim, is
// discarded. The store becomes ready even when reading storage fails.
func (s *Store) Initialize(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.isLoading() {
		return nil
	}

	id, err := s.restore(ctx)

	s.mu.Lock()
	s.identity = id
	s.loading = false
	s.mu.Unlock()
	s.notify()

	if id != nil {
		s.log.Info(ctx, "session restored", "user", id.User.Email, "role", id.User.Role)
	}
	return err
}

func (s *Store) restore(ctx context.Context) (*models.Identity, error) {
	if s.db == nil {
		return nil, nil
	}

	blob, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeySession)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if blob == nil {
		return nil, nil
	}

	var id models.Identity
	if err := json.Unmarshal(blob, &id); err != nil || !id.Complete() || !tokenUsable(id.Token, s.now()) {
		s.log.Info(ctx, "discarding persisted session")
		if derr := s.clearPersisted(ctx); derr != nil {
			return nil, derr
		}
		return nil, nil
	}
	return &id, nil
}

// tokenUsable rejects a token only when it is a JWT whose exp claim has
// passed. The signature is not verified, and opaque tokens are left for the
// server to judge.
func tokenUsable(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Before(exp.Time)
}

// Login authenticates against the backend. On failure the previous state is
// left untouched.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	return s.authenticate(ctx, loginFailed, func() (*client.AuthResult, error) {
		return s.auth.Login(ctx, email, password)
	})
}

// Register creates an account and logs it in.
func (s *Store) Register(ctx context.Context, name, email, password string) Result {
	return s.authenticate(ctx, registerFailed, func() (*client.AuthResult, error) {
		return s.auth.Register(ctx, name, email, password)
	})
}

func (s *Store) authenticate(ctx context.Context, fallback string, call func() (*client.AuthResult, error)) Result {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := call()
	if err != nil {
		s.log.Warn(ctx, fallback, "error", err)
		return Result{Error: client.MessageOf(err, fallback)}
	}

	id := &models.Identity{User: res.User, Token: res.Token}
	if !id.Complete() {
		s.log.Warn(ctx, fallback, "error", "incomplete identity in auth response")
		return Result{Error: fallback}
	}

	if err := s.persist(ctx, id); err != nil {
		s.log.Error(ctx, "persist session", "error", err)
		return Result{Error: fallback}
	}

	if !res.ServerTime.IsZero() && s.onOffset != nil {
		s.onOffset(res.ServerTime.Sub(s.now()))
	}

	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
	s.notify()

	s.log.Info(ctx, "logged in", "user", id.User.Email, "role", id.User.Role)
	return Result{Success: true}
}

func (s *Store) persist(ctx context.Context, id *models.Identity) error {
	if s.db == nil {
		return nil
	}
	blob, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeySession, blob)
	})
}

func (s *Store) clearPersisted(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, metadata.KeySession)
	})
}

// Logout clears the identity in memory and in storage. It is idempotent.
// The in-memory identity is cleared even when storage fails; the storage
// error is returned.
func (s *Store) Logout(ctx context.Context) error {
	return s.drop(ctx, "logged out")
}

// Invalidate is Logout for a token the server has rejected.
func (s *Store) Invalidate(ctx context.Context) error {
	return s.drop(ctx, "session invalidated by server")
}

func (s *Store) drop(ctx context.Context, msg string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.clearPersisted(ctx)

	s.mu.Lock()
	had := s.identity != nil
	s.identity = nil
	s.mu.Unlock()

	if had {
		s.notify()
		s.log.Info(ctx, msg)
	}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := State{Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
	}
	return st
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().Authenticated()
}

// Require returns the current identity or ErrNotAuthenticated.
func (s *Store) Require() (models.Identity, error) {
	st := s.Snapshot()
	if !st.Authenticated() {
		return models.Identity{}, ErrNotAuthenticated
	}
	return *st.Identity, nil
}

// Token returns the current bearer token, or "" when logged out. It is the
// token source of the API client.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.Token
}

func (s *Store) isLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers fn to be called with the new state after every
// identity change. The returned function removes the subscription.
// Observers run on the transitioning goroutine and must not call Login,
// Register, Logout or Invalidate.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify() {
	st := s.Snapshot()

	s.obsMu.Lock()
	fns := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
