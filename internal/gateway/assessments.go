package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// Form field names accepted by POST /api/assessments for file parts.
// Sales and expenses are the two the backend needs for meaningful analytics;
// the rest enrich the result when provided.
const (
	FileSales     = "sales"
	FileExpenses  = "expenses"
	FileAR        = "ar"
	FileAP        = "ap"
	FileLoans     = "loans"
	FileInventory = "inventory"
	FileTax       = "tax"
)

// FileUpload names one document to submit. Field must be one of the File*
// constants. Contents come from Path (a local file whose basename becomes the
// upload filename) or, when Reader is non-nil, directly from Reader under
// Filename — the form a relayed browser upload arrives in.
type FileUpload struct {
	Field string
	Path  string

	Reader   io.Reader
	Filename string
}

// CreateParams is the input to CreateAssessment. Callers are responsible for
// validating that sales and expenses are present — the gateway submits
// whatever it is given and lets the backend respond.
type CreateParams struct {
	Company  string
	Industry string
	Lang     string

	// MapAI asks the backend to use AI-assisted column mapping for the
	// uploaded tables; AI requests the long-form AI narrative. GeminiModel
	// overrides the backend's default model when non-empty.
	MapAI       bool
	AI          bool
	GeminiModel string

	Files []FileUpload
}

// Health calls GET /api/health and returns the backend's status document
// as-is. The shape is backend-defined; callers only display it.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/health", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAssessment uploads the documents and blocks until the backend has run
// the full scoring pipeline and stored the result. Expect this to take
// seconds, not milliseconds.
func (c *Client) CreateAssessment(ctx context.Context, p CreateParams) (Assessment, error) {
	body, contentType, err := buildMultipart(p)
	if err != nil {
		return Assessment{}, err
	}

	data, ctype, err := c.do(ctx, http.MethodPost, "/api/assessments", contentType, body)
	if err != nil {
		return Assessment{}, err
	}

	var a Assessment
	if err := decodeInto(data, ctype, &a); err != nil {
		return Assessment{}, err
	}
	return a, nil
}

// GetAssessment fetches the canonical record by ID. Unknown IDs surface the
// backend's own 404 message.
func (c *Client) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	var a Assessment
	if err := c.get(ctx, "/api/assessments/"+url.PathEscape(id), &a); err != nil {
		return Assessment{}, err
	}
	return a, nil
}

// GetReport fetches the structured report markdown for an assessment.
// A present-but-empty report_md field yields "" — absence of text is not an
// error at this layer.
func (c *Client) GetReport(ctx context.Context, id string) (string, error) {
	var envelope struct {
		ID       string `json:"id"`
		ReportMD string `json:"report_md"`
	}
	if err := c.get(ctx, "/api/assessments/"+url.PathEscape(id)+"/report", &envelope); err != nil {
		return "", err
	}
	return envelope.ReportMD, nil
}

// GetAI fetches the AI narrative markdown for an assessment, with the same
// empty-field rule as GetReport.
func (c *Client) GetAI(ctx context.Context, id string) (string, error) {
	var envelope struct {
		ID   string `json:"id"`
		AIMD string `json:"ai_md"`
	}
	if err := c.get(ctx, "/api/assessments/"+url.PathEscape(id)+"/ai", &envelope); err != nil {
		return "", err
	}
	return envelope.AIMD, nil
}

// ─── MULTIPART BODY ──────────────────────────────────────────────────────────

// buildMultipart assembles the creation form. Uploaded files are small
// bookkeeping exports, so buffering the whole body is fine.
func buildMultipart(p CreateParams) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"company":  p.Company,
		"industry": p.Industry,
		"lang":     p.Lang,
		"map_ai":   strconv.FormatBool(p.MapAI),
		"ai":       strconv.FormatBool(p.AI),
	}
	if p.GeminiModel != "" {
		fields["gemini_model"] = p.GeminiModel
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("gateway: write form field %s: %w", name, err)
		}
	}

	for _, upload := range p.Files {
		if err := addFilePart(w, upload); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("gateway: finalize multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func addFilePart(w *multipart.Writer, upload FileUpload) error {
	if upload.Reader != nil {
		name := upload.Filename
		if name == "" {
			name = upload.Field
		}
		part, err := w.CreateFormFile(upload.Field, name)
		if err != nil {
			return fmt.Errorf("gateway: create %s part: %w", upload.Field, err)
		}
		if _, err := io.Copy(part, upload.Reader); err != nil {
			return fmt.Errorf("gateway: copy %s contents: %w", upload.Field, err)
		}
		return nil
	}

	f, err := os.Open(upload.Path)
	if err != nil {
		return fmt.Errorf("gateway: open %s file: %w", upload.Field, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(upload.Field, filepath.Base(upload.Path))
	if err != nil {
		return fmt.Errorf("gateway: create %s part: %w", upload.Field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("gateway: copy %s contents: %w", upload.Field, err)
	}
	return nil
}
