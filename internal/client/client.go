// Package client provides a transport-agnostic interface for the alert
// platform and an HTTP/JSON implementation that talks to its REST API.
//
// Read endpoints return the raw response body: the platform's envelope and
// field names vary between deployments, so decoding is left to the
// normalize package at the call site.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/groblegark/alertdeck/internal/model"
)

// AlertClient is the interface all commands and stores use to communicate
// with the alert platform. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type AlertClient interface {
	// Auth
	Login(ctx context.Context, email, password string) (json.RawMessage, error)
	Register(ctx context.Context, req *RegisterRequest) (json.RawMessage, error)
	CurrentUser(ctx context.Context) (json.RawMessage, error)

	// Admin alerts
	AdminListAlerts(ctx context.Context, filter *model.AlertFilter) (json.RawMessage, error)
	GetAlert(ctx context.Context, id string) (json.RawMessage, error)
	CreateAlert(ctx context.Context, req *CreateAlertRequest) error
	UpdateAlert(ctx context.Context, id string, req *CreateAlertRequest) error
	TriggerAlert(ctx context.Context, id string) error
	ArchiveAlert(ctx context.Context, id string) error

	// User alerts
	UserListAlerts(ctx context.Context) (json.RawMessage, error)
	ListSnoozedAlerts(ctx context.Context) (json.RawMessage, error)
	MarkRead(ctx context.Context, id string) error
	MarkUnread(ctx context.Context, id string) error
	Snooze(ctx context.Context, id string) error

	// Analytics
	SystemAnalytics(ctx context.Context) (json.RawMessage, error)

	// Lifecycle
	Close() error
}

// TokenSource supplies the bearer credential attached to every request and
// is told when the server rejects it. The session manager implements this;
// no other component may mutate the persisted credential.
type TokenSource interface {
	// Token returns the current bearer token, or "" when anonymous.
	Token() string
	// Invalidate clears the persisted session after an authentication
	// rejection. It must be idempotent.
	Invalidate()
}

// RegisterRequest holds parameters for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// CreateAlertRequest holds parameters for creating or replacing an alert.
// Field names follow the platform's write API (camelCase).
type CreateAlertRequest struct {
	Title              string    `json:"title"`
	Message            string    `json:"message"`
	Severity           string    `json:"severity"`
	DeliveryType       string    `json:"deliveryType,omitempty"`
	VisibilityType     string    `json:"visibilityType,omitempty"`
	TargetOrganization string    `json:"targetOrganization,omitempty"`
	ReminderEnabled    bool      `json:"reminderEnabled"`
	ReminderFrequency  int       `json:"reminderFrequencyHours,omitempty"`
	ExpiryTime         time.Time `json:"expiryTime"`
}

// NewCreateAlertRequest maps validated create input onto the wire request.
func NewCreateAlertRequest(in *model.CreateAlertInput) *CreateAlertRequest {
	return &CreateAlertRequest{
		Title:              in.Title,
		Message:            in.Message,
		Severity:           in.Severity.String(),
		DeliveryType:       string(in.DeliveryType),
		VisibilityType:     string(in.VisibilityType),
		TargetOrganization: in.TargetOrganization,
		ReminderEnabled:    in.ReminderEnabled,
		ReminderFrequency:  in.ReminderFrequency,
		ExpiryTime:         in.ExpiryTime,
	}
}

// AnalyticsOverview is the summary block of the analytics endpoint.
type AnalyticsOverview struct {
	TotalAlerts  int     `json:"totalAlerts"`
	ActiveAlerts int     `json:"activeAlerts"`
	ReadRate     float64 `json:"readRate"`
	TotalSnoozed int     `json:"totalSnoozed"`
}

// ErrAuthRejected marks a request the server refused because the credential
// is invalid or expired. It is the only error class that crosses component
// boundaries: it forces the global logout path.
var ErrAuthRejected = errors.New("authentication rejected")

// IsAuthRejected reports whether err represents a credential rejection.
func IsAuthRejected(err error) bool {
	return errors.Is(err, ErrAuthRejected)
}

// IsValidation reports whether err is a server-side validation failure
// (malformed or missing fields), which is reported inline at the point of
// action rather than escalated.
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 400 || apiErr.StatusCode == 422
	}
	return false
}
