// Package results coordinates the fetches behind the results view: the
// canonical assessment record plus its two optional text artifacts, and the
// history bookkeeping that follows a successful fetch.
package results

import (
	"context"
	"log/slog"
	"sync"

	"github.com/smefin/finhealth/internal/gateway"
	"github.com/smefin/finhealth/internal/history"
)

// Backend is the narrow slice of the gateway this package uses. The concrete
// implementation is *gateway.Client; tests inject a stub.
type Backend interface {
	CreateAssessment(ctx context.Context, p gateway.CreateParams) (gateway.Assessment, error)
	GetAssessment(ctx context.Context, id string) (gateway.Assessment, error)
	GetReport(ctx context.Context, id string) (string, error)
	GetAI(ctx context.Context, id string) (string, error)
}

// ResultSet is everything the results view needs. ReportMD and AIMD default
// to "" when the corresponding fetch failed or the backend has no text — the
// two cases are deliberately indistinguishable here.
type ResultSet struct {
	Assessment gateway.Assessment
	ReportMD   string
	AIMD       string
}

// Loader fetches result sets and records viewed assessments into history.
type Loader struct {
	backend Backend
	history history.Store
	logger  *slog.Logger
}

// NewLoader constructs a Loader. All three dependencies are required.
func NewLoader(backend Backend, hist history.Store, logger *slog.Logger) *Loader {
	return &Loader{
		backend: backend,
		history: hist,
		logger:  logger,
	}
}

// Load fetches the canonical record for id, then the report and AI narrative
// concurrently.
//
// Only the canonical fetch can fail the operation. The two auxiliary fetches
// are independently guarded: either one failing degrades that slot to ""
// without cancelling the other or failing the whole — a settle-all join, not
// fail-fast. History is only touched once the canonical record is known good.
func (l *Loader) Load(ctx context.Context, id string) (ResultSet, error) {
	assessment, err := l.backend.GetAssessment(ctx, id)
	if err != nil {
		return ResultSet{}, err
	}

	set := ResultSet{Assessment: assessment}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		set.ReportMD = l.auxText(ctx, "report", id, l.backend.GetReport)
	}()
	go func() {
		defer wg.Done()
		set.AIMD = l.auxText(ctx, "ai", id, l.backend.GetAI)
	}()
	wg.Wait()

	l.record(assessment)
	return set, nil
}

// Submit creates a new assessment and records it into history on success,
// mirroring what Load does for viewed assessments.
func (l *Loader) Submit(ctx context.Context, p gateway.CreateParams) (gateway.Assessment, error) {
	assessment, err := l.backend.CreateAssessment(ctx, p)
	if err != nil {
		return gateway.Assessment{}, err
	}
	l.record(assessment)
	return assessment, nil
}

// auxText runs one auxiliary fetch and converts failure into an empty slot.
func (l *Loader) auxText(ctx context.Context, kind, id string, fetch func(context.Context, string) (string, error)) string {
	text, err := fetch(ctx, id)
	if err != nil {
		l.logger.Warn("results: auxiliary fetch failed, continuing without it",
			"kind", kind,
			"assessment_id", id,
			"error", err,
		)
		return ""
	}
	return text
}

// record inserts the assessment summary into history. Insert failure is
// log-only: a broken local cache must never hide a result the backend
// already returned.
func (l *Loader) record(a gateway.Assessment) {
	err := l.history.Insert(history.AssessmentSummary{
		ID:        a.ID,
		Company:   a.Company,
		Industry:  a.Industry,
		CreatedAt: a.CreatedAt,
	})
	if err != nil {
		l.logger.Warn("results: history insert failed",
			"assessment_id", a.ID,
			"error", err,
		)
	}
}
