package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/qaportal/pkg/logger"
	"github.com/okian/qaportal/pkg/metrics"
)

// State is the mutable part of a session.
type State struct {
	Selection    Selection
	SelectorOpen bool
	Drafts       Drafts
}

// Session is one viewer's dashboard state. Access goes through With so
// concurrent requests from the same browser are serialized.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	lastSeen time.Time
	// dropped is set once the manager forgets the session; later changes
	// no longer count toward the open drafts gauge.
	dropped bool
}

// With runs fn with exclusive access to the session state and keeps the
// open drafts gauge in step with any drafts fn opens or closes.
func (s *Session) With(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.state.Drafts.Len()
	fn(&s.state)
	if delta := s.state.Drafts.Len() - before; delta != 0 && !s.dropped {
		metrics.AddOpenDrafts(delta)
	}
}

// Manager keeps sessions in memory keyed by random ids.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl     time.Duration
	now     func() time.Time
	initial func() State
	logger  logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets how long an idle session survives. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl >= 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithInitialState sets the factory for a new session's state.
func WithInitialState(fn func() State) Option {
	return func(m *Manager) {
		if fn != nil {
			m.initial = fn
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates an empty session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      30 * time.Minute,
		now:      time.Now,
		initial:  func() State { return State{} },
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve returns the live session for id, creating a fresh one when id is
// unknown or expired. created reports whether a new session was made.
func (m *Manager) Resolve(ctx context.Context, id string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if s, ok := m.sessions[id]; ok && !m.expired(s, now) {
		s.lastSeen = now
		return s, false
	}
	if s, ok := m.sessions[id]; ok {
		m.drop(s)
	}

	s = &Session{ID: uuid.NewString(), state: m.initial(), lastSeen: now}
	m.sessions[s.ID] = s
	metrics.UpdateActiveSessions(len(m.sessions))
	m.logger.Debug(ctx, "session created", logger.String("session", s.ID))
	return s, true
}

// Lookup returns the live session for id without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || m.expired(s, m.now()) {
		return nil, false
	}
	return s, true
}

// Prune drops every expired session and returns how many were removed.
func (m *Manager) Prune(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for _, s := range m.sessions {
		if m.expired(s, now) {
			m.drop(s)
			n++
		}
	}
	if n > 0 {
		metrics.RecordSessionsPruned(n)
		m.logger.Debug(ctx, "sessions pruned", logger.Int("count", n))
	}
	metrics.UpdateActiveSessions(len(m.sessions))
	return n
}

// Run prunes expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Prune(ctx)
		}
	}
}

// Len returns the number of sessions held, expired or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.lastSeen) > m.ttl
}

// drop removes s; the caller holds m.mu.
func (m *Manager) drop(s *Session) {
	s.mu.Lock()
	if !s.dropped {
		s.dropped = true
		metrics.AddOpenDrafts(-s.state.Drafts.Len())
	}
	s.mu.Unlock()
	delete(m.sessions, s.ID)
}
