package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/groblegark/alertdeck/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method    string
	path      string
	query     string
	body      string
	auth      string
	requestID string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.auth = r.Header.Get("Authorization")
	h.requestID = r.Header.Get("X-Request-ID")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// fakeTokens is a TokenSource with a fixed token that records invalidation.
type fakeTokens struct {
	token       string
	invalidated bool
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) Invalidate()   { f.invalidated = true; f.token = "" }

func newTestClient(h http.Handler, tokens TokenSource) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL, tokens)
	return c, srv
}

func TestHTTPClient_Login(t *testing.T) {
	h := &testHandler{responseBody: `{"data": {"token": "tok", "user": {"id": "u1"}}}`}
	c, srv := newTestClient(h, &fakeTokens{})
	defer srv.Close()

	raw, err := c.Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/auth/login/" {
		t.Errorf("request = %s %s, want POST /auth/login/", h.method, h.path)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(h.body), &body); err != nil {
		t.Fatalf("unmarshaling request body: %v", err)
	}
	if body["email"] != "ada@example.com" || body["password"] != "secret" {
		t.Errorf("request body = %v", body)
	}
	if h.auth != "" {
		t.Errorf("login must be uncredentialed, got Authorization %q", h.auth)
	}
	if len(raw) == 0 {
		t.Error("raw response body is empty")
	}
}

func TestHTTPClient_BearerToken(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestClient(h, &fakeTokens{token: "tok-9"})
	defer srv.Close()

	if _, err := c.UserListAlerts(context.Background()); err != nil {
		t.Fatalf("UserListAlerts() error = %v", err)
	}
	if h.auth != "Bearer tok-9" {
		t.Errorf("Authorization = %q, want 'Bearer tok-9'", h.auth)
	}
	if h.path != "/user/alerts/" {
		t.Errorf("path = %q, want /user/alerts/", h.path)
	}
}

func TestHTTPClient_AdminListFilters(t *testing.T) {
	h := &testHandler{responseBody: `{"results": []}`}
	c, srv := newTestClient(h, &fakeTokens{token: "t"})
	defer srv.Close()

	filter := &model.AlertFilter{Severity: model.SeverityCritical, Status: model.FilterStatusActive}
	if _, err := c.AdminListAlerts(context.Background(), filter); err != nil {
		t.Fatalf("AdminListAlerts() error = %v", err)
	}
	if h.path != "/admin/alerts/" {
		t.Errorf("path = %q, want /admin/alerts/", h.path)
	}
	if h.query != "severity=Critical&status=active" {
		t.Errorf("query = %q", h.query)
	}
}

func TestHTTPClient_MarkReadCarriesRequestID(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(h, &fakeTokens{token: "t"})
	defer srv.Close()

	if err := c.MarkRead(context.Background(), "a 1"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if h.method != http.MethodPut {
		t.Errorf("method = %q, want PUT", h.method)
	}
	if h.path != "/user/alerts/a%201/mark_read/" && h.path != "/user/alerts/a 1/mark_read/" {
		t.Errorf("path = %q", h.path)
	}
	if h.requestID == "" {
		t.Error("mutation must carry X-Request-ID")
	}
}

func TestHTTPClient_CreateAlert(t *testing.T) {
	h := &testHandler{statusCode: http.StatusCreated, responseBody: `{"id": "a1"}`}
	c, srv := newTestClient(h, &fakeTokens{token: "t"})
	defer srv.Close()

	req := &CreateAlertRequest{
		Title:           "Maintenance",
		Message:         "Down at noon",
		Severity:        "Warning",
		ReminderEnabled: true,
		ExpiryTime:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := c.CreateAlert(context.Background(), req); err != nil {
		t.Fatalf("CreateAlert() error = %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(h.body), &body); err != nil {
		t.Fatalf("unmarshaling request body: %v", err)
	}
	if body["title"] != "Maintenance" || body["severity"] != "Warning" {
		t.Errorf("request body = %v", body)
	}
	if body["expiryTime"] == nil {
		t.Error("request body expiryTime is nil")
	}
}

func TestHTTPClient_UnauthorizedInvalidatesSession(t *testing.T) {
	h := &testHandler{statusCode: http.StatusUnauthorized, responseBody: `{"detail": "token expired"}`}
	tokens := &fakeTokens{token: "stale"}
	c, srv := newTestClient(h, tokens)
	defer srv.Close()

	_, err := c.UserListAlerts(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAuthRejected(err) {
		t.Errorf("IsAuthRejected(%v) = false, want true", err)
	}
	if !tokens.invalidated {
		t.Error("token source was not invalidated on 401")
	}
}

func TestHTTPClient_UncredentialedUnauthorizedDoesNotInvalidate(t *testing.T) {
	h := &testHandler{statusCode: http.StatusUnauthorized, responseBody: `{"message": "Invalid credentials"}`}
	tokens := &fakeTokens{}
	c, srv := newTestClient(h, tokens)
	defer srv.Close()

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if tokens.invalidated {
		t.Error("failed login must not invalidate an anonymous session")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Errorf("error = %v, want APIError with server message", err)
	}
}

func TestHTTPClient_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error": "boom"}`, "boom"},
		{`{"message": "nope"}`, "nope"},
		{`{"detail": "not found"}`, "not found"},
		{`plain text`, "plain text"},
	}
	for _, tt := range tests {
		h := &testHandler{statusCode: http.StatusNotFound, responseBody: tt.body}
		c, srv := newTestClient(h, &fakeTokens{token: "t"})
		err := c.ArchiveAlert(context.Background(), "missing")
		srv.Close()
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want APIError", err)
		}
		if apiErr.Message != tt.want {
			t.Errorf("message = %q, want %q", apiErr.Message, tt.want)
		}
		if IsAuthRejected(err) {
			t.Errorf("404 misclassified as auth rejection")
		}
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(&APIError{StatusCode: 400, Message: "bad"}) {
		t.Error("400 should classify as validation")
	}
	if !IsValidation(&APIError{StatusCode: 422, Message: "bad"}) {
		t.Error("422 should classify as validation")
	}
	if IsValidation(&APIError{StatusCode: 500, Message: "boom"}) {
		t.Error("500 should not classify as validation")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("plain error should not classify as validation")
	}
}
