package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
)

// Session owns one engine. Access to the engine goes through Do so that
// concurrent requests for the same session are applied one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *Engine
	lastUsed time.Time
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(k *Keypad)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(NewKeypad(s.engine))
}

// Snapshot returns the engine state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// StoreOptions configures a Store. Zero values disable the limit and the
// idle expiry.
type StoreOptions struct {
	TTL         time.Duration
	MaxSessions int
	Logger      *zap.Logger
}

// Store keeps the live calculator sessions in memory.
type Store struct {
	opts StoreOptions
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	live     atomic.Int64
}

func NewStore(opts StoreOptions) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session with a fresh engine.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		return nil, ErrSessionLimit
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		engine:    New(),
		lastUsed:  now,
	}
	s.sessions[sess.ID] = sess
	s.live.Inc()

	return sess, nil
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.lastUsed = s.now()
	sess.mu.Unlock()

	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.live.Dec()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return int(s.live.Load())
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.opts.TTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastUsed)
		sess.mu.Unlock()

		if idle > s.opts.TTL {
			delete(s.sessions, id)
			s.live.Dec()
			removed++
		}
	}

	if removed > 0 {
		s.opts.Logger.Info("expired calculator sessions",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.sessions)),
		)
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.Sweep(t)
		}
	}
}
