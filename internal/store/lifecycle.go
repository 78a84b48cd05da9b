package store

import "github.com/groblegark/alertdeck/internal/model"

// Action names a lifecycle transition on an alert.
type Action string

const (
	ActionCreate     Action = "create"
	ActionTrigger    Action = "trigger"
	ActionArchive    Action = "archive"
	ActionMarkRead   Action = "mark_read"
	ActionMarkUnread Action = "mark_unread"
	ActionSnooze     Action = "snooze"
)

// RequiredRole returns the role that may perform the action. Create,
// trigger, and archive are admin transitions; read/unread/snooze belong to
// the recipient.
func (a Action) RequiredRole() model.Role {
	switch a {
	case ActionCreate, ActionTrigger, ActionArchive:
		return model.RoleAdmin
	default:
		return model.RoleUser
	}
}

// ReloadsList reports whether a successful action is followed by a full
// re-fetch. Trigger is fire-and-acknowledge: it re-sends delivery
// out-of-band and changes nothing the list renders.
func (a Action) ReloadsList() bool {
	return a != ActionTrigger
}

// Idempotent reports whether repeating the action is accepted from the
// caller's perspective. Mark-read, mark-unread, and snooze never error on
// repetition because the view re-derives state from a fresh load rather
// than trusting the flag it saw at click time.
func (a Action) Idempotent() bool {
	switch a {
	case ActionMarkRead, ActionMarkUnread, ActionSnooze:
		return true
	}
	return false
}
