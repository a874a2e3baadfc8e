package history

// MemStore is an in-memory Store with the same move-to-front semantics as
// FileStore. Used by tests and as a degraded fallback when no writable
// location exists for the history file.
type MemStore struct {
	list []AssessmentSummary
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Read returns a copy so callers cannot mutate the store through the slice.
func (s *MemStore) Read() []AssessmentSummary {
	out := make([]AssessmentSummary, len(s.list))
	copy(out, s.list)
	return out
}

func (s *MemStore) Insert(summary AssessmentSummary) error {
	s.list = insertFront(s.list, summary)
	return nil
}

func (s *MemStore) Clear() error {
	s.list = nil
	return nil
}
