package model

import "time"

// Severity classifies how urgent an alert is.
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid checks whether the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// DeliveryType selects the channel an alert is delivered over.
type DeliveryType string

const (
	DeliveryInApp DeliveryType = "InApp"
	DeliveryEmail DeliveryType = "Email"
	DeliverySMS   DeliveryType = "SMS"
)

// VisibilityType scopes who an alert is addressed to.
type VisibilityType string

const (
	VisibilityOrganization VisibilityType = "Organization"
	VisibilityTeam         VisibilityType = "Team"
	VisibilityUser         VisibilityType = "User"
)

// Status is the display state of an alert. It is always derived from the
// expiry time and active flag, never stored.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusExpired  Status = "Expired"
)

// Alert is the canonical alert record. Servers return this in several
// envelope and field-name variants; see the normalize package.
type Alert struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Message            string         `json:"message"`
	Severity           Severity       `json:"severity"`
	DeliveryType       DeliveryType   `json:"delivery_type,omitempty"`
	VisibilityType     VisibilityType `json:"visibility_type,omitempty"`
	TargetOrganization string         `json:"target_organization,omitempty"`
	ReminderEnabled    bool           `json:"reminder_enabled,omitempty"`
	ReminderFrequency  int            `json:"reminder_frequency_hours,omitempty"`
	IsActive           bool           `json:"is_active"`
	IsRead             bool           `json:"is_read"`
	IsSnoozed          bool           `json:"is_snoozed"`
	CreatedAt          time.Time      `json:"created_at"`
	ExpiryTime         time.Time      `json:"expiry_time"`
}

// StatusAt derives the display status at the given instant.
// Expiry dominates the active flag.
func (a *Alert) StatusAt(now time.Time) Status {
	if !a.ExpiryTime.IsZero() && !a.ExpiryTime.After(now) {
		return StatusExpired
	}
	if a.IsActive {
		return StatusActive
	}
	return StatusInactive
}

// ExpiredAt reports whether the alert's expiry time has passed.
func (a *Alert) ExpiredAt(now time.Time) bool {
	return a.StatusAt(now) == StatusExpired
}
