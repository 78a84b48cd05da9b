// Package store holds the in-memory alert collection for the current
// viewer and applies lifecycle transitions against the remote source of
// truth. Mutations are never applied to the local copy directly: a
// successful remote action is followed by a full re-fetch, so the local
// view always reflects server state instead of a client-side guess. A
// failed action or a failed reload leaves the last-known-good list intact.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/groblegark/alertdeck/internal/client"
	"github.com/groblegark/alertdeck/internal/model"
	"github.com/groblegark/alertdeck/internal/normalize"
)

// Scope selects which alert set the viewer is entitled to request.
type Scope int

const (
	// ScopeUser fetches only alerts addressed to the caller.
	ScopeUser Scope = iota
	// ScopeAdmin fetches the organization-wide, filterable set.
	ScopeAdmin
)

func (s Scope) role() model.Role {
	if s == ScopeAdmin {
		return model.RoleAdmin
	}
	return model.RoleUser
}

// ErrSuperseded marks a load whose response arrived after a newer load was
// issued; its result is discarded rather than allowed to overwrite fresher
// data.
var ErrSuperseded = errors.New("load superseded by a newer request")

// ErrActionInFlight rejects a second lifecycle action on an alert while the
// first is still outstanding, preventing duplicate remote calls.
var ErrActionInFlight = errors.New("action already in flight for this alert")

// ErrWrongScope rejects an action the store's scope is not entitled to.
var ErrWrongScope = errors.New("action not permitted in this scope")

// Store is the alert collection for one viewer.
type Store struct {
	mu       sync.Mutex
	client   client.AlertClient
	scope    Scope
	alerts   []model.Alert
	filter   *model.AlertFilter
	seq      uint64
	inflight map[string]struct{}
	now      func() time.Time
}

// New creates a store for the given scope.
func New(c client.AlertClient, scope Scope) *Store {
	return &Store{
		client:   c,
		scope:    scope,
		inflight: make(map[string]struct{}),
		now:      time.Now,
	}
}

// Load fetches, normalizes, and installs the alert set. The filter applies
// to the admin scope only and is also enforced client-side, since the
// status rule (active requires both the flag and an unexpired expiry) must
// hold even against a server that ignores the query parameters.
//
// Loads carry a monotonic sequence number; a slow response that resolves
// after a newer load was issued returns ErrSuperseded and installs nothing.
// On any fetch error the previously loaded list is left untouched.
func (s *Store) Load(ctx context.Context, filter *model.AlertFilter) ([]model.Alert, error) {
	s.mu.Lock()
	s.seq++
	mine := s.seq
	s.filter = filter
	c := s.client
	scope := s.scope
	s.mu.Unlock()

	var raw json.RawMessage
	var err error
	if scope == ScopeAdmin {
		raw, err = c.AdminListAlerts(ctx, filter)
	} else {
		raw, err = c.UserListAlerts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching alerts: %w", err)
	}

	now := s.now()
	items := normalize.List(raw)
	alerts := make([]model.Alert, 0, len(items))
	for _, item := range items {
		a := normalize.Alert(item)
		if scope == ScopeAdmin && !filter.Matches(&a, now) {
			continue
		}
		alerts = append(alerts, a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mine != s.seq {
		return nil, ErrSuperseded
	}
	s.alerts = alerts
	return append([]model.Alert(nil), alerts...), nil
}

// Alerts returns a copy of the current list.
func (s *Store) Alerts() []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Alert(nil), s.alerts...)
}

// UnreadCount is recomputed from the alert list on every call; it is never
// cached separately, so it cannot drift from per-item state.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.alerts {
		if !s.alerts[i].IsRead {
			n++
		}
	}
	return n
}

// SnoozedCount is recomputed from the alert list on every call.
func (s *Store) SnoozedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.alerts {
		if s.alerts[i].IsSnoozed {
			n++
		}
	}
	return n
}

// Snoozed fetches the caller's snoozed alerts. The result is a separate
// view and is not installed as the main list.
func (s *Store) Snoozed(ctx context.Context) ([]model.Alert, error) {
	raw, err := s.client.ListSnoozedAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching snoozed alerts: %w", err)
	}
	items := normalize.List(raw)
	alerts := make([]model.Alert, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, normalize.Alert(item))
	}
	return alerts, nil
}

// --- lifecycle actions ---

// MarkRead marks an alert read. Repeating it on an already-read alert is
// accepted; the follow-up reload resolves the real state.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	return s.dispatch(ctx, ActionMarkRead, id, func(ctx context.Context) error {
		return s.client.MarkRead(ctx, id)
	})
}

// MarkUnread is the inverse of MarkRead, with the same contract.
func (s *Store) MarkUnread(ctx context.Context, id string) error {
	return s.dispatch(ctx, ActionMarkUnread, id, func(ctx context.Context) error {
		return s.client.MarkUnread(ctx, id)
	})
}

// Snooze suppresses an alert until the end of the current day.
func (s *Store) Snooze(ctx context.Context, id string) error {
	return s.dispatch(ctx, ActionSnooze, id, func(ctx context.Context) error {
		return s.client.Snooze(ctx, id)
	})
}

// Create validates and persists a new alert, then reloads the list.
// Validation failures are reported inline and never reach the server.
func (s *Store) Create(ctx context.Context, in *model.CreateAlertInput) error {
	if err := model.ValidateCreateAlert(in); err != nil {
		return err
	}
	req := client.NewCreateAlertRequest(in)
	return s.dispatch(ctx, ActionCreate, "", func(ctx context.Context) error {
		return s.client.CreateAlert(ctx, req)
	})
}

// Trigger re-sends an alert's delivery immediately, out-of-band of its
// normal schedule. Fire-and-acknowledge: no list reload.
func (s *Store) Trigger(ctx context.Context, id string) error {
	return s.dispatch(ctx, ActionTrigger, id, func(ctx context.Context) error {
		return s.client.TriggerAlert(ctx, id)
	})
}

// Archive sets an alert inactive and stops future reminders, then reloads.
func (s *Store) Archive(ctx context.Context, id string) error {
	return s.dispatch(ctx, ActionArchive, id, func(ctx context.Context) error {
		return s.client.ArchiveAlert(ctx, id)
	})
}

// dispatch runs one lifecycle action: scope check, per-alert serialization,
// the remote call, then the reconciling reload. A failed remote call
// returns before the reload, leaving local state untouched.
func (s *Store) dispatch(ctx context.Context, action Action, id string, call func(context.Context) error) error {
	if action.RequiredRole() != s.scope.role() {
		return fmt.Errorf("%w: %s requires role %s", ErrWrongScope, action, action.RequiredRole())
	}

	if id != "" {
		s.mu.Lock()
		if _, busy := s.inflight[id]; busy {
			s.mu.Unlock()
			return ErrActionInFlight
		}
		s.inflight[id] = struct{}{}
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, id)
			s.mu.Unlock()
		}()
	}

	if err := call(ctx); err != nil {
		return err
	}

	if !action.ReloadsList() {
		return nil
	}
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()
	if _, err := s.Load(ctx, filter); err != nil && !errors.Is(err, ErrSuperseded) {
		// The action itself succeeded; the stale-but-intact list stands
		// until the next load.
		return fmt.Errorf("%s applied, %w", action, err)
	}
	return nil
}
