package chat

import (
	"context"
	"sync"
	"time"

	"github.com/zhouzirui/calm-corner/backend/internal/model/chat"
)

// Store persists session state for the lifetime of a session.
// Update applies fn atomically: either the mutated session is stored as a whole or nothing changes.
type Store interface {
	Create(ctx context.Context, session chat.Session) error
	Load(ctx context.Context, sessionID string) (chat.Session, error)
	Update(ctx context.Context, sessionID string, fn func(*chat.Session) error) (chat.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	session chat.Session
	touched time.Time
}

// MemoryStore keeps sessions in process memory. Idle sessions expire after ttl;
// expiry is checked lazily on access.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

// NewMemoryStore creates an in-memory store. A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.touched) > s.ttl
}

// lookup returns a live entry, evicting it when idle for too long. Caller holds mu.
func (s *MemoryStore) lookup(sessionID string, now time.Time) (memoryEntry, bool) {
	entry, ok := s.sessions[sessionID]
	if !ok {
		return memoryEntry{}, false
	}
	if s.expired(entry, now) {
		delete(s.sessions, sessionID)
		return memoryEntry{}, false
	}
	return entry, true
}

// Create implements Store. Expired sessions are swept here.
func (s *MemoryStore) Create(_ context.Context, session chat.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
		}
	}
	s.sessions[session.ID] = memoryEntry{session: session.Clone(), touched: now}
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.lookup(sessionID, now)
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	entry.touched = now
	s.sessions[sessionID] = entry
	return entry.session.Clone(), nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, sessionID string, fn func(*chat.Session) error) (chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.lookup(sessionID, now)
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}

	working := entry.session.Clone()
	if err := fn(&working); err != nil {
		return chat.Session{}, err
	}

	s.sessions[sessionID] = memoryEntry{session: working, touched: now}
	return working.Clone(), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(sessionID, s.now()); !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

