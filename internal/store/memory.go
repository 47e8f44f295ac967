package store

import (
	"sync"
	"time"

	"flight-assistant/internal/chat"
)

// MemoryStore keeps one conversation per session id. Nothing outlives the
// process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
	greeting string
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(greeting string, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*chat.Session),
		greeting: greeting,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session for id, creating a fresh one when it is unknown.
func (m *MemoryStore) Get(sessionID string) *chat.Session {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s
	}
	m.evictLocked()
	s = chat.NewSession(m.greeting)
	m.sessions[sessionID] = s
	return s
}

// Lookup returns the session only if it already exists.
func (m *MemoryStore) Lookup(sessionID string) (*chat.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

func (m *MemoryStore) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// evictLocked drops sessions idle for longer than the TTL. It runs whenever a
// new session is created, so memory stays bounded by recent traffic.
func (m *MemoryStore) evictLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
