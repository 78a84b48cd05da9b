package model

import "time"

// AlertFilter holds the server-side filter criteria the admin list supports.
type AlertFilter struct {
	Severity Severity `json:"severity,omitempty"`
	Status   string   `json:"status,omitempty"` // "active" or "expired"
}

// Filter status values accepted by the admin list endpoint.
const (
	FilterStatusActive  = "active"
	FilterStatusExpired = "expired"
)

// Matches reports whether an alert satisfies the filter at the given
// instant. "active" requires the active flag AND an unexpired expiry time;
// "expired" depends only on the expiry time. The store applies this after
// normalization so a server that ignores the query params cannot leak
// expired alerts into an active view.
func (f *AlertFilter) Matches(a *Alert, now time.Time) bool {
	if f == nil {
		return true
	}
	if f.Severity != "" && a.Severity != f.Severity {
		return false
	}
	switch f.Status {
	case FilterStatusActive:
		return a.IsActive && a.StatusAt(now) != StatusExpired
	case FilterStatusExpired:
		return a.ExpiredAt(now)
	}
	return true
}
