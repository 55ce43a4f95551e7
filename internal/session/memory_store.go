package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a map. It serves tests and single-process
// deployments without Redis. A background loop drops records whose expiry
// passed, mirroring the TTL backstop Redis provides.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]Session
	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]Session),
		stop:  make(chan struct{}),
	}
	go s.gcLoop(5 * time.Minute)
	return s
}

func (s *MemoryStore) gcLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.dropExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) dropExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.items {
		if now.After(sess.ExpiresAt) {
			delete(s.items, id)
		}
	}
}

func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) Create(_ context.Context, sess Session) error {
	if sess.SessionID == "" || sess.UserID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.SessionID] = sess
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.items[sessionID]
	if !ok {
		return nil, nil // not found
	}
	copied := sess
	return &copied, nil
}

func (s *MemoryStore) Update(_ context.Context, sess Session) error {
	if sess.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.SessionID] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}
