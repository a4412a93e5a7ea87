package session

import (
	"sync"
	"time"

	"hrapp/internal/domain/access"
)

// MemoryStore keeps a single session in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	current Session
	expires time.Time
	set     bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// NewMemoryStoreWithClock is used by tests to drive expiry.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{now: now}
}

func (m *MemoryStore) Set(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	m.expires = m.now().Add(TTL)
	m.set = true
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{}
	m.expires = time.Time{}
	m.set = false
}

func (m *MemoryStore) Token() (string, bool) {
	s, ok := m.live()
	if !ok || s.Token == "" {
		return "", false
	}
	return s.Token, true
}

func (m *MemoryStore) Role() (access.Role, bool) {
	s, ok := m.live()
	if !ok || s.Role == access.RoleNone {
		return access.RoleNone, false
	}
	return s.Role, true
}

func (m *MemoryStore) UserID() (string, bool) {
	s, ok := m.live()
	if !ok || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

func (m *MemoryStore) live() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return Session{}, false
	}
	if !m.now().Before(m.expires) {
		m.current = Session{}
		m.set = false
		return Session{}, false
	}
	return m.current, true
}
