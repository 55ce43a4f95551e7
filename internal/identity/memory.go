package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps identities in a map. It backs tests and local
// development where Postgres is not running.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]Identity
	down bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[uuid.UUID]Identity),
	}
}

// FailBackend makes every call return a backend error until re-enabled.
// Tests use it to simulate an outage.
func (s *MemoryStore) FailBackend(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = fail
}

var errBackendDown = &backendError{}

type backendError struct{}

func (*backendError) Error() string { return "identity: backend unavailable" }

func (s *MemoryStore) ByUsername(_ context.Context, username string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.down {
		return nil, errBackendDown
	}

	for _, ident := range s.byID {
		if strings.EqualFold(ident.Username, username) {
			copied := ident
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ByID(_ context.Context, id uuid.UUID) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.down {
		return nil, errBackendDown
	}

	ident, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := ident
	return &copied, nil
}

func (s *MemoryStore) Create(
	_ context.Context,
	username string,
	displayName string,
	secret string,
	hashVersion string,
) (*Identity, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.down {
		return nil, errBackendDown
	}

	for _, ident := range s.byID {
		if strings.EqualFold(ident.Username, username) {
			return nil, ErrUsernameTaken
		}
	}

	ident := Identity{
		ID:               uuid.New(),
		Username:         username,
		DisplayName:      displayName,
		CredentialSecret: secret,
		HashVersion:      hashVersion,
	}
	s.byID[ident.ID] = ident

	copied := ident
	return &copied, nil
}

func (s *MemoryStore) SetPassword(
	_ context.Context,
	id uuid.UUID,
	secret string,
	hashVersion string,
) error {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.down {
		return errBackendDown
	}

	ident, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}

	ident.CredentialSecret = secret
	ident.HashVersion = hashVersion
	s.byID[id] = ident
	return nil
}

// Delete removes an identity. Sessions pointing at it become orphans.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}
