package model

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// CreateAlertInput carries the fields an admin supplies when creating an alert.
type CreateAlertInput struct {
	Title              string
	Message            string
	Severity           Severity
	DeliveryType       DeliveryType
	VisibilityType     VisibilityType
	TargetOrganization string
	ReminderEnabled    bool
	ReminderFrequency  int
	ExpiryTime         time.Time
}

// ValidateCreateAlert checks a create request for constraint violations
// before it is sent to the server. It returns a *ValidationError if any
// rules fail, or nil if the input is valid.
func ValidateCreateAlert(in *CreateAlertInput) error {
	var ve ValidationError

	if strings.TrimSpace(in.Title) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(in.Message) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "message", Message: "is required"})
	}

	// Severity: closed set.
	if !in.Severity.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "severity",
			Message: fmt.Sprintf("invalid value %q", in.Severity),
		})
	}

	if in.ExpiryTime.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "expiry_time", Message: "is required"})
	}

	// Reminder frequency only matters when reminders are on.
	if in.ReminderEnabled && in.ReminderFrequency <= 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "reminder_frequency_hours",
			Message: fmt.Sprintf("must be positive, got %d", in.ReminderFrequency),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
