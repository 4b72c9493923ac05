// Package session holds per-browser state between requests: identity, the
// serialized round in progress, and one-shot flash messages. Sessions live
// in memory and expire on a TTL; the browser only ever holds a signed
// session ID.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// ErrNotFound indicates a session ID with no live session, typically after
// expiry or a server restart.
var ErrNotFound = errors.New("session: not found")

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind string // "info", "error", or "gameplay"
	Text string
}

// Session is the mutable per-browser state. Callers mutate it through the
// Manager so expiry bookkeeping stays consistent.
type Session struct {
	ID       string
	Username string // empty while anonymous
	SignedIn bool
	Purse    int // cached purse for display; ledger is authoritative

	// Round is the serialized round in progress, nil when no game is
	// running.
	Round []byte

	flashes  []Flash
	lastSeen time.Time
}

// AddFlash queues a one-shot message.
func (s *Session) AddFlash(kind, text string) {
	s.flashes = append(s.flashes, Flash{Kind: kind, Text: text})
}

// TakeFlashes returns queued messages and clears them.
func (s *Session) TakeFlashes() []Flash {
	out := s.flashes
	s.flashes = nil
	return out
}

// InProgress reports whether a round is underway.
func (s *Session) InProgress() bool {
	return s.Round != nil
}

// EndRound discards any round in progress.
func (s *Session) EndRound() {
	s.Round = nil
}

// SignOut clears identity and any round in progress.
func (s *Session) SignOut() {
	s.Username = ""
	s.SignedIn = false
	s.Purse = 0
	s.Round = nil
}

// Manager owns all live sessions. The clock is injected so expiry is
// testable with a mock.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    quartz.Clock
}

// NewManager creates a session manager whose sessions expire after ttl of
// inactivity.
func NewManager(ttl time.Duration, clock quartz.Clock) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clock,
	}
}

// Create starts a new anonymous session.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		lastSeen: m.clock.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the live session for an ID, refreshing its expiry. Expired
// sessions are treated as missing.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := m.clock.Now()
	if now.Sub(s.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}

	s.lastSeen = now
	return s, nil
}

// Destroy removes a session entirely.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sweep drops all expired sessions and returns how many were removed.
// Intended to be called periodically by the server.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
