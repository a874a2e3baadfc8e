package webui_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smefin/finhealth/internal/gateway"
	"github.com/smefin/finhealth/internal/history"
	"github.com/smefin/finhealth/internal/results"
	"github.com/smefin/finhealth/internal/webui"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubLoader struct {
	set       results.ResultSet
	loadErr   error
	created   gateway.Assessment
	submitErr error

	lastParams gateway.CreateParams
}

func (s *stubLoader) Load(_ context.Context, _ string) (results.ResultSet, error) {
	return s.set, s.loadErr
}

func (s *stubLoader) Submit(_ context.Context, p gateway.CreateParams) (gateway.Assessment, error) {
	s.lastParams = p
	return s.created, s.submitErr
}

type stubHealth struct {
	out map[string]any
	err error
}

func (s *stubHealth) Health(_ context.Context) (map[string]any, error) {
	return s.out, s.err
}

type testDeps struct {
	loader  *stubLoader
	health  *stubHealth
	store   *history.MemStore
	handler http.Handler
}

func newTestServer(t *testing.T) *testDeps {
	t.Helper()
	deps := &testDeps{
		loader: &stubLoader{},
		health: &stubHealth{out: map[string]any{"ok": true}},
		store:  history.NewMemStore(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps.handler = webui.NewServer(deps.loader, deps.health, deps.store, webui.Config{Lang: "en"}, logger)
	return deps
}

func testAssessment(id string) gateway.Assessment {
	return gateway.Assessment{
		ID:        id,
		Company:   "Acme Traders",
		Industry:  "retail",
		Lang:      "en",
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

// multipartBody builds a browser-style submission with the given text fields
// and file parts (field → filename).
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatal(err)
		}
	}
	for field, filename := range files {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte("month,value\n2026-01,100\n")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

// ─── GET / ────────────────────────────────────────────────────────────────────

func TestUploadForm_Renders(t *testing.T) {
	deps := newTestServer(t)

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`action="/assess"`, `name="sales"`, `name="expenses"`, `name="company"`} {
		if !strings.Contains(body, want) {
			t.Errorf("form page missing %s", want)
		}
	}
}

// ─── POST /assess ─────────────────────────────────────────────────────────────

func TestSubmit_RedirectsToResults(t *testing.T) {
	deps := newTestServer(t)
	deps.loader.created = testAssessment("a1")

	body, contentType := multipartBody(t,
		map[string]string{"company": "Acme Traders", "industry": "retail", "lang": "en", "ai": "on"},
		map[string]string{"sales": "sales.csv", "expenses": "expenses.csv"},
	)
	req := httptest.NewRequest(http.MethodPost, "/assess", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != "/assessments/a1" {
		t.Errorf("redirect = %q", got)
	}

	p := deps.loader.lastParams
	if p.Company != "Acme Traders" || p.Industry != "retail" || !p.AI || p.MapAI {
		t.Errorf("relayed params = %+v", p)
	}
	if len(p.Files) != 2 {
		t.Errorf("relayed %d files, want 2", len(p.Files))
	}
}

func TestSubmit_MissingRequiredFilesIsRejectedLocally(t *testing.T) {
	deps := newTestServer(t)

	body, contentType := multipartBody(t,
		map[string]string{"company": "Acme", "industry": "retail"},
		map[string]string{"sales": "sales.csv"}, // no expenses
	)
	req := httptest.NewRequest(http.MethodPost, "/assess", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "sales and expenses files are required") {
		t.Error("validation message missing from re-rendered form")
	}
}

func TestSubmit_BackendErrorShowsBackendMessage(t *testing.T) {
	deps := newTestServer(t)
	deps.loader.submitErr = &gateway.APIError{
		Status:  http.StatusBadRequest,
		Message: "Assessment failed: no usable rows",
	}

	body, contentType := multipartBody(t,
		map[string]string{"company": "Acme", "industry": "retail"},
		map[string]string{"sales": "s.csv", "expenses": "e.csv"},
	)
	req := httptest.NewRequest(http.MethodPost, "/assess", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Assessment failed: no usable rows") {
		t.Error("backend message not surfaced")
	}
}

// ─── GET /assessments/{id} ────────────────────────────────────────────────────

func TestResults_RendersScoresAndTexts(t *testing.T) {
	deps := newTestServer(t)
	a := testAssessment("a1")
	a.Result = gateway.Result{
		Scores: &gateway.Scores{HealthScore: 72, CreditReadinessScore: 65, RiskScore: 31, Rating: "Good"},
		Risks:  []gateway.Risk{{Type: "Receivables", Severity: "High", Signal: "DSO is high", Why: "cash trapped"}},
	}
	deps.loader.set = results.ResultSet{
		Assessment: a,
		ReportMD:   "# Financial Health Report",
		AIMD:       "",
	}

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assessments/a1", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Acme Traders", "72", "Good", "Receivables", "# Financial Health Report"} {
		if !strings.Contains(body, want) {
			t.Errorf("results page missing %q", want)
		}
	}
	// Empty AI slot renders nothing rather than an empty section.
	if strings.Contains(body, "AI narrative") {
		t.Error("empty AI narrative should not be rendered")
	}
}

func TestResults_NotFoundShowsErrorPage(t *testing.T) {
	deps := newTestServer(t)
	deps.loader.loadErr = &gateway.APIError{Status: http.StatusNotFound, Message: "Not found"}

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assessments/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Not found") {
		t.Error("backend message not shown")
	}
}

// ─── History pages ────────────────────────────────────────────────────────────

func TestHistory_ListsEntriesNewestFirst(t *testing.T) {
	deps := newTestServer(t)
	for _, id := range []string{"a", "b"} {
		if err := deps.store.Insert(history.AssessmentSummary{ID: id, Company: "Co " + id, Industry: "retail"}); err != nil {
			t.Fatal(err)
		}
	}

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Co b") || !strings.Contains(body, "/assessments/a") {
		t.Errorf("history page incomplete: %s", body)
	}
	if strings.Index(body, "Co b") > strings.Index(body, "Co a") {
		t.Error("entries not newest-first")
	}
}

func TestClearHistory_RedirectsAndEmpties(t *testing.T) {
	deps := newTestServer(t)
	if err := deps.store.Insert(history.AssessmentSummary{ID: "a", Company: "Acme"}); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/history/clear", nil))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(deps.store.Read()) != 0 {
		t.Error("history not cleared")
	}
}

// ─── JSON endpoints ───────────────────────────────────────────────────────────

func TestBackendHealth_ProxiesProbe(t *testing.T) {
	deps := newTestServer(t)

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/backend-health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok":true`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestBackendHealth_FailureIsBadGateway(t *testing.T) {
	deps := newTestServer(t)
	deps.health.err = &gateway.APIError{Status: http.StatusServiceUnavailable, Message: "down"}
	deps.health.out = nil

	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/backend-health", nil))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "down") {
		t.Errorf("body = %s", rr.Body.String())
	}
}
