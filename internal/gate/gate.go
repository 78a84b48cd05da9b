// Package gate decides whether the current session may reach a screen that
// requires a given capability. Decisions are navigational: a denied check
// redirects to a landing screen, it never produces an error page.
package gate

import "github.com/groblegark/alertdeck/internal/model"

// Capability is a named permission level required by a screen.
type Capability int

const (
	// CapabilityUser requires any authenticated session.
	CapabilityUser Capability = iota
	// CapabilityAdmin additionally requires the admin role.
	CapabilityAdmin
)

// Route targets used by redirect decisions.
const (
	LoginPath        = "/login"
	UserLandingPath  = "/dashboard"
	AdminLandingPath = "/admin/dashboard"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allow grants access.
	Allow Decision = iota
	// Defer means restoration is still in flight: render nothing and
	// re-check once it settles, rather than flash-redirecting to login.
	Defer
	// Redirect denies access and names a destination in Result.Target.
	Redirect
)

// Result pairs a decision with its redirect target, if any.
type Result struct {
	Decision Decision
	Target   string
}

// Session is the read-only view of session state the gate consumes. The
// gate never mutates session state.
type Session interface {
	Restoring() bool
	Authenticated() bool
	CurrentUser() *model.User
}

// Authorize checks the session against a required capability.
func Authorize(required Capability, s Session) Result {
	if s.Restoring() {
		return Result{Decision: Defer}
	}
	if !s.Authenticated() {
		return Result{Decision: Redirect, Target: LoginPath}
	}
	if required == CapabilityAdmin && !s.CurrentUser().IsAdmin() {
		return Result{Decision: Redirect, Target: UserLandingPath}
	}
	return Result{Decision: Allow}
}

// LandingPath returns the screen a freshly authenticated user should land
// on, based on role.
func LandingPath(u *model.User) string {
	if u.IsAdmin() {
		return AdminLandingPath
	}
	return UserLandingPath
}
