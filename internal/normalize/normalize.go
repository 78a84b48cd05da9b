// Package normalize reconciles the platform's variable response shapes into
// canonical records. The API envelope is not fixed: lists arrive bare, under
// "data", under "results", or under "data.results", and field names arrive
// in snake_case, camelCase, or shortened aliases. Every function here is
// total — an unrecognized shape degrades to an empty list or zero-valued
// fields and is logged, never raised.
package normalize

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/groblegark/alertdeck/internal/model"
)

// Item is a single raw record as decoded from the wire. It is never
// retained past the normalization step.
type Item map[string]any

// List extracts the ordered item sequence from an arbitrary payload.
// Precedence: the payload itself if it is a sequence, else "data", else
// "results", else "data.results". First match wins; no match yields an
// empty sequence.
func List(raw []byte) []Item {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		slog.Warn("normalize: undecodable list payload", "error", err)
		return nil
	}
	if seq, ok := asItems(payload); ok {
		return seq
	}
	if obj, ok := payload.(map[string]any); ok {
		if seq, ok := asItems(obj["data"]); ok {
			return seq
		}
		if seq, ok := asItems(obj["results"]); ok {
			return seq
		}
		if inner, ok := obj["data"].(map[string]any); ok {
			if seq, ok := asItems(inner["results"]); ok {
				return seq
			}
		}
		slog.Warn("normalize: unrecognized list envelope", "keys", keysOf(obj))
	}
	return nil
}

// Object extracts a single record from an arbitrary payload: the payload
// itself, unwrapped from "data" and then from "user" when nested. Returns
// nil when no object shape is found.
func Object(raw []byte) Item {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		slog.Warn("normalize: undecodable object payload", "error", err)
		return nil
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := obj["data"].(map[string]any); ok {
		obj = inner
	}
	if inner, ok := obj["user"].(map[string]any); ok {
		obj = inner
	}
	return Item(obj)
}

// Credentials extracts the token and user record from a login response,
// which arrives either as {data: {token, user}} or flat.
func Credentials(raw []byte) (token string, user Item) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		slog.Warn("normalize: undecodable login payload", "error", err)
		return "", nil
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", nil
	}
	if inner, ok := obj["data"].(map[string]any); ok {
		obj = inner
	}
	token = str(obj, "token", "accessToken", "access_token", "access")
	if inner, ok := obj["user"].(map[string]any); ok {
		user = Item(inner)
	}
	return token, user
}

// Alert maps a raw item onto the canonical alert record. A missing
// identifier yields an empty ID, which downstream code must treat as
// unusable as a key. Missing booleans default to false.
func Alert(item Item) model.Alert {
	return model.Alert{
		ID:                 str(item, "id", "_id", "pk", "uuid"),
		Title:              str(item, "title"),
		Message:            str(item, "message"),
		Severity:           model.Severity(str(item, "severity")),
		DeliveryType:       model.DeliveryType(str(item, "delivery_type", "deliveryType")),
		VisibilityType:     model.VisibilityType(str(item, "visibility_type", "visibilityType", "visibility")),
		TargetOrganization: str(item, "target_organization", "targetOrganization"),
		ReminderEnabled:    boolean(item, "reminder_enabled", "reminderEnabled"),
		ReminderFrequency:  integer(item, "reminder_frequency_hours", "reminderFrequencyHours"),
		IsActive:           boolean(item, "is_active", "isActive", "active"),
		IsRead:             boolean(item, "is_read", "isRead", "read"),
		IsSnoozed:          boolean(item, "is_snoozed", "isSnoozed", "snoozed"),
		CreatedAt:          timestamp(item, "created_at", "createdAt"),
		ExpiryTime:         timestamp(item, "expiry_time", "expiryTime", "expire_at"),
	}
}

// User maps a raw item onto the canonical user record.
func User(item Item) model.User {
	return model.User{
		ID:    str(item, "id", "_id", "pk", "uuid"),
		Name:  str(item, "name", "username", "full_name"),
		Email: str(item, "email"),
		Role:  model.Role(str(item, "role")),
	}
}

// --- field extraction ---

// str returns the first present, non-null alias rendered as a string.
func str(item Item, aliases ...string) string {
	for _, key := range aliases {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			// Numeric IDs (Django pk) decode as float64.
			if t == math.Trunc(t) {
				return strconv.FormatInt(int64(t), 10)
			}
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

// boolean returns the first present alias as a bool, defaulting to false.
func boolean(item Item, aliases ...string) bool {
	for _, key := range aliases {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func integer(item Item, aliases ...string) int {
	for _, key := range aliases {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return 0
}

// timestampLayouts are tried in order; the server emits RFC 3339 but some
// endpoints drop the zone suffix.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func timestamp(item Item, aliases ...string) time.Time {
	s := str(item, aliases...)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	slog.Debug("normalize: unparseable timestamp", "value", s)
	return time.Time{}
}

func asItems(v any) ([]Item, bool) {
	seq, ok := v.([]any)
	if !ok {
		return nil, false
	}
	items := make([]Item, 0, len(seq))
	for _, el := range seq {
		if obj, ok := el.(map[string]any); ok {
			items = append(items, Item(obj))
		}
	}
	return items, true
}

func keysOf(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	return keys
}
