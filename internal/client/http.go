package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/alertdeck/internal/idgen"
	"github.com/groblegark/alertdeck/internal/model"
)

// HTTPClient implements AlertClient using the platform's HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "https://alerts.example.com/api"). When tokens yields a non-empty
// token, an Authorization header is set on every request; a 401 on a
// credentialed request invalidates the token source before returning.
func NewHTTPClient(baseURL string, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Auth ---

func (c *HTTPClient) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	body := map[string]string{"email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/auth/login/", body)
}

func (c *HTTPClient) Register(ctx context.Context, req *RegisterRequest) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPost, "/auth/register/", req)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, "/auth/me/", nil)
}

// --- Admin alerts ---

func (c *HTTPClient) AdminListAlerts(ctx context.Context, filter *model.AlertFilter) (json.RawMessage, error) {
	q := url.Values{}
	if filter != nil {
		if filter.Severity != "" {
			q.Set("severity", filter.Severity.String())
		}
		if filter.Status != "" {
			q.Set("status", filter.Status)
		}
	}
	path := "/admin/alerts/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.doJSON(ctx, http.MethodGet, path, nil)
}

func (c *HTTPClient) GetAlert(ctx context.Context, id string) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, "/admin/alerts/"+url.PathEscape(id)+"/", nil)
}

func (c *HTTPClient) CreateAlert(ctx context.Context, req *CreateAlertRequest) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/admin/alerts/", req)
	return err
}

func (c *HTTPClient) UpdateAlert(ctx context.Context, id string, req *CreateAlertRequest) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/admin/alerts/"+url.PathEscape(id)+"/", req)
	return err
}

func (c *HTTPClient) TriggerAlert(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/admin/alerts/"+url.PathEscape(id)+"/trigger/", nil)
	return err
}

func (c *HTTPClient) ArchiveAlert(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/admin/alerts/"+url.PathEscape(id)+"/archive/", nil)
	return err
}

// --- User alerts ---

func (c *HTTPClient) UserListAlerts(ctx context.Context) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, "/user/alerts/", nil)
}

func (c *HTTPClient) ListSnoozedAlerts(ctx context.Context) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, "/user/alerts/snoozed/", nil)
}

func (c *HTTPClient) MarkRead(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/user/alerts/"+url.PathEscape(id)+"/mark_read/", nil)
	return err
}

func (c *HTTPClient) MarkUnread(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/user/alerts/"+url.PathEscape(id)+"/mark_unread/", nil)
	return err
}

func (c *HTTPClient) Snooze(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/user/alerts/"+url.PathEscape(id)+"/snooze/", nil)
	return err
}

// --- Analytics ---

func (c *HTTPClient) SystemAnalytics(ctx context.Context) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, "/analytics/", nil)
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies 401 responses as ErrAuthRejected so the global logout
// path can match with errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrAuthRejected
	}
	return nil
}

// doJSON performs an HTTP request with optional JSON body and returns the
// raw response body. Mutating requests carry an X-Request-ID so the server
// can deduplicate retries.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		if id, err := idgen.Generate(); err == nil {
			req.Header.Set("X-Request-ID", id)
		}
	}
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		// A rejected credential invalidates the session no matter which
		// call surfaced it. Uncredentialed 401s (failed logins) do not.
		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.tokens != nil {
			c.tokens.Invalidate()
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	return respBody, nil
}

// errorMessage pulls a human-readable message out of an error response,
// which arrives as {"error": ...}, {"message": ...}, or {"detail": ...}
// depending on the endpoint.
func errorMessage(body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		for _, msg := range []string{errResp.Message, errResp.Error, errResp.Detail} {
			if msg != "" {
				return msg
			}
		}
	}
	return string(body)
}
