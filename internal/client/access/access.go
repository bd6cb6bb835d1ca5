// Package access holds the stateless access decision made on every
// navigation and every identity change.
package access

import (
	"slices"

	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
)

// Decision is the outcome of evaluating a route against a session state.
type Decision int

const (
	// Defer means the session is still loading; render a neutral pending
	// state and evaluate again once loading completes.
	Defer Decision = iota
	Allow
	RedirectToLogin
	RedirectToRoleHome
)

func (d Decision) String() string {
	switch d {
	case Defer:
		return "defer"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-login"
	case RedirectToRoleHome:
		return "redirect-role-home"
	default:
		return "unknown"
	}
}

// Route paths of the client.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
	PathAdmin     = "/admin"
)

// Decide applies, in order: loading defers; unauthenticated actors go to
// login; an actor whose role is not in a non-empty requiredRoles goes to
// its role home; everyone else is allowed.
func Decide(loading, authenticated bool, role models.Role, requiredRoles []models.Role) Decision {
	if loading {
		return Defer
	}
	if !authenticated {
		return RedirectToLogin
	}
	if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, role) {
		return RedirectToRoleHome
	}
	return Allow
}

// RoleHome is the landing route for a role: ADMIN -> /admin, anything
// else -> /dashboard.
func RoleHome(role models.Role) string {
	if role == models.RoleAdmin {
		return PathAdmin
	}
	return PathDashboard
}
