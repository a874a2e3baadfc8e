package gateway

import (
	"encoding/json"
	"time"
)

// Assessment is the canonical record returned by the backend for a submitted
// financial-document set. ResultJSON holds the full analysis payload; the
// ReportMD/AIMD fields are only populated on the single-assessment GET — the
// creation response leaves them empty and the dedicated report endpoints are
// the authoritative source for that text.
type Assessment struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Industry  string    `json:"industry"`
	Lang      string    `json:"lang"`
	CreatedAt time.Time `json:"created_at"`
	Result    Result    `json:"result_json"`

	ReportMD    string `json:"report_md,omitempty"`
	AIMD        string `json:"ai_md,omitempty"`
	StoragePath string `json:"storage_path,omitempty"`
}

// Scores is the headline scoring block. It is modelled as a pointer inside
// Result so consumers can distinguish "scores absent" from all-zero scores.
type Scores struct {
	HealthScore          int    `json:"health_score"`
	CreditReadinessScore int    `json:"credit_readiness_score"`
	RiskScore            int    `json:"risk_score"`
	Rating               string `json:"rating"`
}

// Risk is one detected risk signal. All fields may be empty — the backend
// makes no shape guarantees beyond "list of objects".
type Risk struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Signal   string `json:"signal"`
	Why      string `json:"why"`
}

// Recommendation is one suggested action plan.
type Recommendation struct {
	Title          string   `json:"title"`
	Why            string   `json:"why"`
	Actions        []string `json:"actions"`
	ImpactEstimate string   `json:"impact_estimate"`
}

// Result is the analysis payload inside an Assessment. The backend computes
// it server-side and this client treats it as data to display: every field is
// optional and consumers must tolerate absence. Fields this client does not
// model are preserved in the raw payload and re-emitted on marshal, so an
// assessment round-trips without loss.
type Result struct {
	Company         string           `json:"company,omitempty"`
	Industry        string           `json:"industry,omitempty"`
	Scores          *Scores          `json:"scores,omitempty"`
	KPIs            map[string]any   `json:"kpis,omitempty"`
	Risks           []Risk           `json:"risks,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Benchmarks      map[string]any   `json:"benchmarks,omitempty"`
	Forecast        map[string]any   `json:"forecast,omitempty"`
	Notes           []string         `json:"notes,omitempty"`
	Mappings        map[string]any   `json:"mappings,omitempty"`
	Breakdowns      map[string]any   `json:"breakdowns,omitempty"`

	raw json.RawMessage
}

// resultFields mirrors Result without its methods so the custom
// marshal/unmarshal pair below can delegate to encoding/json.
type resultFields Result

// UnmarshalJSON decodes the modelled fields and keeps a copy of the exact
// bytes received.
func (r *Result) UnmarshalJSON(b []byte) error {
	var fields resultFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*r = Result(fields)
	r.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON re-emits the payload exactly as received when possible, so
// fields this client does not model are never dropped.
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(resultFields(r))
}

// Raw returns the payload bytes as received from the backend, or nil for a
// locally-constructed Result.
func (r Result) Raw() json.RawMessage { return r.raw }
