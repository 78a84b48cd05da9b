package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/groblegark/alertdeck/internal/client"
	"github.com/groblegark/alertdeck/internal/model"
)

// fakeClient implements client.AlertClient with canned list payloads and
// recorded action calls.
type fakeClient struct {
	listRaw   json.RawMessage
	listErr   error
	listCalls int

	actionErr   error
	actionCalls []string

	onList   func() // runs during the list fetch, before returning
	onAction func() // runs during an action call, before returning
}

func (f *fakeClient) list() (json.RawMessage, error) {
	f.listCalls++
	if f.onList != nil {
		f.onList()
	}
	return f.listRaw, f.listErr
}

func (f *fakeClient) action(name string) error {
	f.actionCalls = append(f.actionCalls, name)
	if f.onAction != nil {
		f.onAction()
	}
	return f.actionErr
}

func (f *fakeClient) UserListAlerts(ctx context.Context) (json.RawMessage, error) {
	return f.list()
}

func (f *fakeClient) AdminListAlerts(ctx context.Context, filter *model.AlertFilter) (json.RawMessage, error) {
	return f.list()
}

func (f *fakeClient) ListSnoozedAlerts(ctx context.Context) (json.RawMessage, error) {
	return f.list()
}

func (f *fakeClient) MarkRead(ctx context.Context, id string) error   { return f.action("mark_read") }
func (f *fakeClient) MarkUnread(ctx context.Context, id string) error { return f.action("mark_unread") }
func (f *fakeClient) Snooze(ctx context.Context, id string) error     { return f.action("snooze") }
func (f *fakeClient) TriggerAlert(ctx context.Context, id string) error {
	return f.action("trigger")
}
func (f *fakeClient) ArchiveAlert(ctx context.Context, id string) error {
	return f.action("archive")
}
func (f *fakeClient) CreateAlert(ctx context.Context, req *client.CreateAlertRequest) error {
	return f.action("create")
}
func (f *fakeClient) UpdateAlert(ctx context.Context, id string, req *client.CreateAlertRequest) error {
	return f.action("update")
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeClient) Register(ctx context.Context, req *client.RegisterRequest) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeClient) CurrentUser(ctx context.Context) (json.RawMessage, error) { return nil, nil }
func (f *fakeClient) GetAlert(ctx context.Context, id string) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeClient) SystemAnalytics(ctx context.Context) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeClient) Close() error { return nil }

func list(alerts ...string) json.RawMessage {
	return json.RawMessage(`[` + joinItems(alerts) + `]`)
}

func joinItems(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += it
	}
	return out
}

func TestLoad_CountsRecomputed(t *testing.T) {
	fc := &fakeClient{listRaw: list(
		`{"id": "a1", "is_read": false, "is_snoozed": true}`,
		`{"id": "a2", "is_read": true, "is_snoozed": false}`,
		`{"id": "a3", "is_read": false, "is_snoozed": false}`,
	)}
	st := New(fc, ScopeUser)

	if _, err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := st.UnreadCount(); got != 2 {
		t.Errorf("UnreadCount() = %d, want 2", got)
	}
	if got := st.SnoozedCount(); got != 1 {
		t.Errorf("SnoozedCount() = %d, want 1", got)
	}
}

func TestMarkRead_ReloadReconciles(t *testing.T) {
	fc := &fakeClient{listRaw: list(
		`{"id": "a1", "is_read": false}`,
		`{"id": "a2", "is_read": false}`,
	)}
	st := New(fc, ScopeUser)
	if _, err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := st.UnreadCount(); got != 2 {
		t.Fatalf("UnreadCount() = %d, want 2", got)
	}

	// The server applies the mutation; the reload picks it up.
	fc.onAction = func() {
		fc.listRaw = list(
			`{"id": "a1", "is_read": true}`,
			`{"id": "a2", "is_read": false}`,
		)
	}
	if err := st.MarkRead(context.Background(), "a1"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if got := st.UnreadCount(); got != 1 {
		t.Errorf("UnreadCount() = %d, want 1 (decreased by exactly one)", got)
	}
	if fc.listCalls != 2 {
		t.Errorf("listCalls = %d, want 2 (initial load + reconcile)", fc.listCalls)
	}
}

func TestFailedAction_LeavesListIntact(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "a1", "is_active": true}`)}
	st := New(fc, ScopeAdmin)
	if _, err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fc.actionErr = errors.New("503 service unavailable")
	err := st.Archive(context.Background(), "a1")
	if err == nil {
		t.Fatal("expected error")
	}
	if fc.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (no reload after failed action)", fc.listCalls)
	}
	if alerts := st.Alerts(); len(alerts) != 1 || alerts[0].ID != "a1" {
		t.Errorf("Alerts() = %+v, want last-known-good list", alerts)
	}
}

func TestFailedReload_ReportsActionApplied(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "a1", "is_read": false}`)}
	st := New(fc, ScopeUser)
	if _, err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fc.onAction = func() { fc.listErr = errors.New("connection reset") }
	err := st.MarkRead(context.Background(), "a1")
	if err == nil {
		t.Fatal("expected error from failed reload")
	}
	// The stale list stands until the next successful load.
	if alerts := st.Alerts(); len(alerts) != 1 {
		t.Errorf("Alerts() = %+v, want untouched list", alerts)
	}
}

func TestLoad_ActiveFilterExcludesExpired(t *testing.T) {
	// Flagged active but past expiry: must not leak into an active view
	// even when the server returns it anyway.
	fc := &fakeClient{listRaw: list(
		`{"id": "live", "is_active": true, "expiry_time": "2099-01-01T00:00:00Z"}`,
		`{"id": "stale", "is_active": true, "expiry_time": "2001-01-01T00:00:00Z"}`,
		`{"id": "off", "is_active": false, "expiry_time": "2099-01-01T00:00:00Z"}`,
	)}
	st := New(fc, ScopeAdmin)
	st.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

	alerts, err := st.Load(context.Background(), &model.AlertFilter{Status: model.FilterStatusActive})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != "live" {
		t.Errorf("Load() = %+v, want only 'live'", alerts)
	}
}

func TestLoad_Superseded(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "old"}`)}
	st := New(fc, ScopeUser)

	// While the first fetch is outstanding, a second load is issued and
	// resolves first. The first load's result must be discarded.
	first := true
	fc.onList = func() {
		if !first {
			return
		}
		first = false
		fc.listRaw = list(`{"id": "new"}`)
		if _, err := st.Load(context.Background(), nil); err != nil {
			t.Errorf("nested Load() error = %v", err)
		}
	}

	_, err := st.Load(context.Background(), nil)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("Load() error = %v, want ErrSuperseded", err)
	}
	if alerts := st.Alerts(); len(alerts) != 1 || alerts[0].ID != "new" {
		t.Errorf("Alerts() = %+v, want the newer load's result", alerts)
	}
}

func TestDispatch_SecondActionOnSameAlertRejected(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "a1"}`)}
	st := New(fc, ScopeUser)

	var nested error
	fc.onAction = func() {
		fc.onAction = nil
		nested = st.Snooze(context.Background(), "a1")
	}
	if err := st.MarkRead(context.Background(), "a1"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if !errors.Is(nested, ErrActionInFlight) {
		t.Errorf("concurrent action error = %v, want ErrActionInFlight", nested)
	}
}

func TestDispatch_DifferentAlertsNotSerialized(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "a1"}`, `{"id": "a2"}`)}
	st := New(fc, ScopeUser)

	var nested error
	fc.onAction = func() {
		fc.onAction = nil
		nested = st.MarkRead(context.Background(), "a2")
	}
	if err := st.MarkRead(context.Background(), "a1"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if nested != nil {
		t.Errorf("action on a different alert = %v, want nil", nested)
	}
}

func TestDispatch_WrongScope(t *testing.T) {
	fc := &fakeClient{}

	userStore := New(fc, ScopeUser)
	err := userStore.Archive(context.Background(), "a1")
	if !errors.Is(err, ErrWrongScope) {
		t.Errorf("user-scope Archive error = %v, want ErrWrongScope", err)
	}

	adminStore := New(fc, ScopeAdmin)
	err = adminStore.MarkRead(context.Background(), "a1")
	if !errors.Is(err, ErrWrongScope) {
		t.Errorf("admin-scope MarkRead error = %v, want ErrWrongScope", err)
	}
	if len(fc.actionCalls) != 0 {
		t.Errorf("actionCalls = %v, want none", fc.actionCalls)
	}
}

func TestTrigger_NoReload(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "a1"}`)}
	st := New(fc, ScopeAdmin)
	if _, err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := st.Trigger(context.Background(), "a1"); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if fc.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (trigger is fire-and-acknowledge)", fc.listCalls)
	}
}

func TestCreate_ValidationNeverReachesServer(t *testing.T) {
	fc := &fakeClient{}
	st := New(fc, ScopeAdmin)

	err := st.Create(context.Background(), &model.CreateAlertInput{})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Create() error = %v, want *model.ValidationError", err)
	}
	if len(fc.actionCalls) != 0 {
		t.Errorf("actionCalls = %v, want none on validation failure", fc.actionCalls)
	}
}

func TestCreate_ValidInputReloads(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "a1"}`)}
	st := New(fc, ScopeAdmin)

	in := &model.CreateAlertInput{
		Title:      "Maintenance",
		Message:    "Down at noon",
		Severity:   model.SeverityWarning,
		ExpiryTime: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := st.Create(context.Background(), in); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(fc.actionCalls) != 1 || fc.actionCalls[0] != "create" {
		t.Errorf("actionCalls = %v, want [create]", fc.actionCalls)
	}
	if fc.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (reload after create)", fc.listCalls)
	}
}

func TestSnoozed_SeparateView(t *testing.T) {
	fc := &fakeClient{listRaw: list(`{"id": "a1", "is_snoozed": true}`)}
	st := New(fc, ScopeUser)

	alerts, err := st.Snoozed(context.Background())
	if err != nil {
		t.Fatalf("Snoozed() error = %v", err)
	}
	if len(alerts) != 1 || !alerts[0].IsSnoozed {
		t.Errorf("Snoozed() = %+v", alerts)
	}
	// The snoozed view is not installed as the main list.
	if main := st.Alerts(); len(main) != 0 {
		t.Errorf("Alerts() = %+v, want empty main list", main)
	}
}
