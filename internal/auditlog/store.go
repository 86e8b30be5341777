// Package auditlog persists proofing records. The log is append-only: no
// update or delete is exposed, and the core never reads records back.
package auditlog

import (
	"context"
	"sync"

	"selegra/internal/proofing"
)

// InMemoryStore collects records in a slice. It backs unit tests; the
// exported accessors exist for assertions only.
type InMemoryStore struct {
	mu      sync.Mutex
	records []proofing.Record

	// FailNext makes the next Append return the given error, for testing
	// persist-failure paths.
	FailNext error
}

// NewInMemoryStore returns an empty in-memory proofing log.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, rec proofing.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	s.records = append(s.records, rec)
	return nil
}

// Count reports how many records have been appended.
func (s *InMemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// All returns a copy of the appended records.
func (s *InMemoryStore) All() []proofing.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]proofing.Record, len(s.records))
	copy(out, s.records)
	return out
}
