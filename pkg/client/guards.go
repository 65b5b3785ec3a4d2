package client

import "slices"

// Route is a client-side navigation target
type Route string

// Well-known routes the guards redirect to
const (
	RouteHome           Route = "/"
	RouteLogin          Route = "/login"
	RouteUserDashboard  Route = "/user-dashboard"
	RouteAdminDashboard Route = "/admin-dashboard"
)

// AdminRole matches the server-side admin role value
const AdminRole = "admin"

// RequireAuth guards routes that need an authenticated user. It returns the
// route to redirect to, or ok=true when navigation may proceed. When
// allowedRoles is non-empty the user's role must be in the list; a role
// mismatch redirects home rather than to login.
func RequireAuth(session Session, allowedRoles ...string) (redirect Route, ok bool) {
	if !session.Authenticated() {
		return RouteLogin, false
	}

	if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, session.User.Role) {
		return RouteHome, false
	}

	return "", true
}

// PublicOnly guards public routes. With onlyLoggedOut set (login/register
// pages), an authenticated user is redirected to the dashboard matching its
// role; plain public routes always pass.
func PublicOnly(session Session, onlyLoggedOut bool) (redirect Route, ok bool) {
	if !onlyLoggedOut {
		return "", true
	}

	if session.Authenticated() {
		if session.User.Role == AdminRole {
			return RouteAdminDashboard, false
		}
		return RouteUserDashboard, false
	}

	return "", true
}

// DashboardFor returns the dashboard route for a role
func DashboardFor(role string) Route {
	if role == AdminRole {
		return RouteAdminDashboard
	}
	return RouteUserDashboard
}
