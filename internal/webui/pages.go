package webui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/smefin/finhealth/internal/gateway"
	"github.com/smefin/finhealth/internal/history"
	"github.com/smefin/finhealth/internal/results"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"fmtValue": func(v any) string {
		switch value := v.(type) {
		case float64:
			return fmt.Sprintf("%.2f", value)
		case string:
			return value
		default:
			return fmt.Sprintf("%v", value)
		}
	},
}).ParseFS(templatesFS, "templates/*.html"))

// industries offered in the upload form dropdown. Free text is still accepted
// by the backend; these are the ones with benchmark data.
var industries = []string{"retail", "manufacturing", "services", "logistics", "agriculture", "ecommerce"}

// uploadFileFields are the form inputs rendered on the upload page and
// relayed to the gateway, in display order. The first two are required.
var uploadFileFields = []string{
	gateway.FileSales,
	gateway.FileExpenses,
	gateway.FileAR,
	gateway.FileAP,
	gateway.FileLoans,
	gateway.FileInventory,
	gateway.FileTax,
}

// ─── PAGE DATA ────────────────────────────────────────────────────────────────

type uploadPage struct {
	Lang       string
	Industries []string
	FileFields []string
	Error      string
}

type resultsPage struct {
	Set results.ResultSet
}

type historyPage struct {
	Entries []history.AssessmentSummary
}

type errorPage struct {
	Status  int
	Message string
}

// ─── GET / ────────────────────────────────────────────────────────────────────

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "index", uploadPage{
		Lang:       s.cfg.Lang,
		Industries: industries,
		FileFields: uploadFileFields,
	})
}

// ─── POST /assess ─────────────────────────────────────────────────────────────

// handleSubmit relays the browser's multipart submission to the backend and
// redirects to the results page. Field validation (company, industry, the two
// required files) happens here — the gateway submits whatever it is given.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.renderFormError(w, r, "could not read the uploaded form: "+err.Error())
		return
	}

	params := gateway.CreateParams{
		Company:     r.FormValue("company"),
		Industry:    r.FormValue("industry"),
		Lang:        r.FormValue("lang"),
		MapAI:       r.FormValue("map_ai") == "on",
		AI:          r.FormValue("ai") == "on",
		GeminiModel: r.FormValue("gemini_model"),
	}
	if params.Lang == "" {
		params.Lang = s.cfg.Lang
	}
	if params.Company == "" || params.Industry == "" {
		s.renderFormError(w, r, "company and industry are required")
		return
	}

	for _, field := range uploadFileFields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			s.renderFormError(w, r, fmt.Sprintf("could not read the %s upload: %v", field, err))
			return
		}
		defer file.Close()
		params.Files = append(params.Files, gateway.FileUpload{
			Field:    field,
			Reader:   file,
			Filename: header.Filename,
		})
	}

	if !hasField(params.Files, gateway.FileSales) || !hasField(params.Files, gateway.FileExpenses) {
		s.renderFormError(w, r, "sales and expenses files are required")
		return
	}

	assessment, err := s.loader.Submit(r.Context(), params)
	if err != nil {
		s.renderBackendError(w, r, err)
		return
	}

	http.Redirect(w, r, "/assessments/"+assessment.ID, http.StatusSeeOther)
}

func hasField(files []gateway.FileUpload, field string) bool {
	for _, f := range files {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ─── GET /assessments/{id} ────────────────────────────────────────────────────

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		s.renderPage(w, r, http.StatusBadRequest, "error", errorPage{
			Status:  http.StatusBadRequest,
			Message: "missing assessment id",
		})
		return
	}

	set, err := s.loader.Load(r.Context(), id)
	if err != nil {
		s.renderBackendError(w, r, err)
		return
	}

	s.renderPage(w, r, http.StatusOK, "results", resultsPage{Set: set})
}

// ─── GET /history, POST /history/clear ────────────────────────────────────────

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "history", historyPage{Entries: s.history.Read()})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(); err != nil {
		s.logger.Error("webui: clear history", "error", err, "request_id", chimw.GetReqID(r.Context()))
	}
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

// ─── GET /api/backend-health ──────────────────────────────────────────────────

// handleBackendHealth proxies the remote health probe so the page's status
// badge can poll same-origin.
func (s *Server) handleBackendHealth(w http.ResponseWriter, r *http.Request) {
	out, err := s.backend.Health(r.Context())
	if err != nil {
		respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, out)
}

// ─── RENDER HELPERS ───────────────────────────────────────────────────────────

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		// Headers are already gone; all we can do is log.
		s.logger.Error("webui: render page",
			"template", name,
			"error", err,
			"request_id", chimw.GetReqID(r.Context()),
		)
	}
}

func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, message string) {
	s.renderPage(w, r, http.StatusUnprocessableEntity, "index", uploadPage{
		Lang:       s.cfg.Lang,
		Industries: industries,
		FileFields: uploadFileFields,
		Error:      message,
	})
}

// renderBackendError maps a gateway failure onto an error page, preserving
// the backend's own status and message when available.
func (s *Server) renderBackendError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Status
	}
	s.renderPage(w, r, status, "error", errorPage{
		Status:  status,
		Message: err.Error(),
	})
}

// respond writes a JSON body with the given status code.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
