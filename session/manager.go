package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Manager keeps the live sessions in memory, keyed by id. Sessions not
// looked up for longer than the idle TTL are evicted; a zero TTL keeps them
// until they are deleted.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[string]*entry{},
	}
}

// Add stores s and sweeps out idle sessions.
func (m *Manager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.sessions[s.ID] = &entry{session: s, lastSeen: m.now()}
}

// Get returns the session and marks it as seen. Expired sessions are reported missing.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if m.expired(e, now) {
		m.evictLocked(id, e, now)
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// Delete discards a session. Unknown ids are ignored.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts every idle session and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked()
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Int("live", m.Len()).Msg("swept idle sessions")
			}
		}
	}
}

func (m *Manager) sweepLocked() int {
	if m.ttl <= 0 {
		return 0
	}
	now := m.now()
	n := 0
	for id, e := range m.sessions {
		if m.expired(e, now) {
			m.evictLocked(id, e, now)
			n++
		}
	}
	return n
}

func (m *Manager) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl
}

func (m *Manager) evictLocked(id string, e *entry, now time.Time) {
	delete(m.sessions, id)
	log.Info().Str("session", id).Dur("age", now.Sub(e.session.CreatedAt)).Msg("idle session evicted")
}
