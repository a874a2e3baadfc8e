// Package gateway is the typed HTTP client for the SME financial-health
// assessment API. Every remote call the application makes goes through the
// Client in this package; callers receive decoded values or an *APIError
// carrying the backend's own message.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxBodyBytes caps how much of a response we read. Report markdown can run
// long, so this is deliberately larger than a typical JSON API cap.
const maxBodyBytes = 8 << 20

// APIError is the error returned for any non-2xx response. Message is the
// backend's JSON `detail` field when present, else a generic status line.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client calls the assessment backend. All methods are safe for concurrent
// use; the zero value is not usable — construct with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a Client rooted at baseURL (no trailing slash needed).
// timeout bounds every request end to end; there are no retries.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do sends one request and returns the raw response body plus its declared
// content type.
//
// Non-2xx responses always become an *APIError: the body is parsed as JSON
// and its `detail` field (stringified if structured) becomes the message;
// bodies without a detail field fall back to "Error <status>: <statusText>".
// Transport and status failures are logged here; callers propagate the error
// unchanged.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, "", fmt.Errorf("gateway: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	// Client-generated correlation ID so backend logs can be matched to a
	// specific client action.
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway: request failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, "", fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Error("gateway: read response body",
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, "", fmt.Errorf("gateway: %s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, respBytes),
		}
		c.logger.Error("gateway: request rejected",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return nil, "", apiErr
	}

	return respBytes, resp.Header.Get("Content-Type"), nil
}

// get issues a GET and decodes the response into out via decodeInto.
func (c *Client) get(ctx context.Context, path string, out any) error {
	data, ctype, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decodeInto(data, ctype, out)
}

// errorMessage extracts the backend's `detail` field from an error body.
// FastAPI-style backends send either a plain string or a structured value
// (validation errors arrive as a list); structured details are re-serialised
// verbatim so nothing is lost.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 && string(envelope.Detail) != "null" {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		return string(envelope.Detail)
	}
	return fmt.Sprintf("Error %d: %s", status, http.StatusText(status))
}

// decodeInto unmarshals data into out when the response declared a JSON
// content type. Non-JSON bodies are handed over as raw text, which requires
// out to be a *string.
func decodeInto(data []byte, contentType string, out any) error {
	if out == nil {
		return nil
	}
	if isJSONContentType(contentType) {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("gateway: decode response: %w", err)
		}
		return nil
	}
	s, ok := out.(*string)
	if !ok {
		return fmt.Errorf("gateway: response is %q, cannot decode into %T", contentType, out)
	}
	*s = string(data)
	return nil
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
