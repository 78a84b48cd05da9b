// Package session owns the authentication token and current user identity.
// The manager is the only writer of the persisted credential pair; the
// transport reads the token through the client.TokenSource interface and
// the access gate reads identity through a snapshot.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/groblegark/alertdeck/internal/client"
	"github.com/groblegark/alertdeck/internal/model"
	"github.com/groblegark/alertdeck/internal/normalize"
)

// State is the session lifecycle state.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// ErrLoginFailed is returned when the server rejects credentials without a
// usable message of its own.
var ErrLoginFailed = errors.New("login failed")

// Manager holds the session state machine:
// Anonymous → Authenticating → Authenticated → Anonymous.
// It implements client.TokenSource so a credential rejection on any call
// funnels into the same clear path as an explicit logout.
type Manager struct {
	mu        sync.Mutex
	store     *FileStore
	transport client.AlertClient
	state     State
	restoring bool
	token     string
	user      *model.User
}

// NewManager creates a manager over the given credential store. The
// transport is attached separately because the HTTP client needs the
// manager as its token source.
func NewManager(store *FileStore) *Manager {
	return &Manager{store: store}
}

// SetTransport attaches the transport used for login and restore calls.
func (m *Manager) SetTransport(c client.AlertClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transport = c
}

// Token returns the current bearer token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Invalidate clears the session unconditionally. It serves both explicit
// logout and the transport's credential-rejected path, and is idempotent.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// Logout clears the persisted pair and in-memory state unconditionally.
func (m *Manager) Logout() {
	m.Invalidate()
}

func (m *Manager) clearLocked() {
	m.token = ""
	m.user = nil
	m.state = Anonymous
	if err := m.store.Clear(); err != nil {
		slog.Warn("session: clearing persisted credentials", "error", err)
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated user, or nil.
func (m *Manager) CurrentUser() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Restoring reports whether a restore is in flight. Authorization is
// deferred while this holds.
func (m *Manager) Restoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restoring
}

// Authenticated reports whether a session is established.
func (m *Manager) Authenticated() bool {
	return m.State() == Authenticated
}

// IsAdmin reports whether the current user holds the admin capability.
func (m *Manager) IsAdmin() bool {
	return m.CurrentUser().IsAdmin()
}

// Restore attempts to re-establish a session from the persisted pair. Any
// failure — missing pair, network error, rejection, unusable identity — is
// treated identically: the pair is cleared and the session stays Anonymous.
// The restoring flag is cleared on every path.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	creds, err := m.store.Load()
	if err != nil || !creds.Valid() {
		m.clearLocked()
		m.mu.Unlock()
		if err != nil {
			return fmt.Errorf("loading persisted session: %w", err)
		}
		return nil
	}
	// Seed the token so the identity fetch is credentialed, then release
	// the lock across the network call.
	m.token = creds.Token
	m.state = Authenticating
	m.restoring = true
	transport := m.transport
	m.mu.Unlock()

	raw, fetchErr := transport.CurrentUser(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.restoring = false

	// A 401 already invalidated the session through the TokenSource path.
	if m.state == Anonymous {
		return nil
	}
	if fetchErr != nil {
		m.clearLocked()
		return nil
	}
	user := normalize.User(normalize.Object(raw))
	if user.ID == "" {
		// Identity payload unusable; same as an invalid session.
		m.clearLocked()
		return nil
	}
	m.user = &user
	m.state = Authenticated
	if err := m.store.Save(Credentials{Token: creds.Token, User: &user}); err != nil {
		slog.Warn("session: refreshing persisted user", "error", err)
	}
	return nil
}

// Login exchanges credentials for a session. On success the token/user pair
// is persisted and the authenticated user is returned directly so the
// caller can pick a role-dependent destination without re-reading session
// state. On failure the session remains Anonymous and the error carries
// the server's message when one was provided.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.User, error) {
	m.mu.Lock()
	transport := m.transport
	m.state = Authenticating
	m.mu.Unlock()

	raw, err := transport.Login(ctx, email, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = Anonymous
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrLoginFailed, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	token, item := normalize.Credentials(raw)
	user := normalize.User(item)
	if token == "" || user.ID == "" {
		m.state = Anonymous
		return nil, ErrLoginFailed
	}

	m.token = token
	m.user = &user
	m.state = Authenticated
	if err := m.store.Save(Credentials{Token: token, User: &user}); err != nil {
		slog.Warn("session: persisting credentials", "error", err)
	}
	return &user, nil
}
