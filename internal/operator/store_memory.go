package operator

import (
	"context"
	"sync"
)

// InMemoryStore keeps the whitelist in a map. It backs unit tests and local
// development; it intentionally favors clarity over performance.
type InMemoryStore struct {
	mu        sync.RWMutex
	operators map[string]Operator
}

// NewInMemoryStore returns an empty in-memory whitelist.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{operators: make(map[string]Operator)}
}

func (s *InMemoryStore) IsWhitelisted(_ context.Context, eppn string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.operators[eppn]
	return ok, nil
}

func (s *InMemoryStore) UpdateProfile(_ context.Context, op Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.operators[op.EPPN]; !ok {
		// Profile refresh never creates membership.
		return nil
	}
	s.operators[op.EPPN] = op
	return nil
}

func (s *InMemoryStore) Add(_ context.Context, eppn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.operators[eppn]; !ok {
		s.operators[eppn] = Operator{EPPN: eppn}
	}
	return nil
}

// Get returns the stored operator record, for test assertions.
func (s *InMemoryStore) Get(eppn string) (Operator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operators[eppn]
	return op, ok
}
