// Package history keeps the client-local list of previously created or
// viewed assessments. The list lives in a single JSON file, newest-touched
// first, deduplicated by assessment ID, with no size cap and no format
// versioning.
//
// The store is deliberately naive about concurrency: it is a single-user,
// single-process cache, read-modify-write with last writer wins. It is not a
// shared store and must not be treated as one.
package history

import "time"

// AssessmentSummary is the lightweight record kept per assessment. Immutable
// once written; ID is the uniqueness key.
type AssessmentSummary struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Industry  string    `json:"industry"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the interface consumers hold. It is constructed once per process
// and injected, so tests can substitute MemStore for the file-backed
// implementation.
//
// Read never fails: unreadable or corrupt persisted data is treated as an
// empty list (and logged by implementations that can log).
type Store interface {
	Read() []AssessmentSummary
	Insert(summary AssessmentSummary) error
	Clear() error
}

// insertFront removes any entry matching summary.ID and prepends summary.
// Shared by both implementations so move-to-front semantics cannot drift.
func insertFront(list []AssessmentSummary, summary AssessmentSummary) []AssessmentSummary {
	out := make([]AssessmentSummary, 0, len(list)+1)
	out = append(out, summary)
	for _, entry := range list {
		if entry.ID != summary.ID {
			out = append(out, entry)
		}
	}
	return out
}
