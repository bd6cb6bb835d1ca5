package router

import (
	"github.com/dmitrijs2005/feedbackhub/internal/client/access"
	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
)

// Screens are the view constructors of the application.
type Screens struct {
	Login     MountFunc
	Register  MountFunc
	Dashboard MountFunc
	Admin     MountFunc
}

// AppRoutes is the route table of the client: public login and register,
// the USER dashboard, the ADMIN console and a role-based root. Unknown paths
// fall back to the root.
func AppRoutes(s Screens) []Route {
	return []Route{
		{Path: access.PathLogin, Kind: Public, Mount: s.Login},
		{Path: access.PathRegister, Kind: Public, Mount: s.Register},
		{Path: access.PathDashboard, Kind: Protected, Roles: []models.Role{models.RoleUser}, Mount: s.Dashboard},
		{Path: access.PathAdmin, Kind: Protected, Roles: []models.Role{models.RoleAdmin}, Mount: s.Admin},
		{Path: access.PathRoot, Kind: RoleRedirect},
	}
}

// NewApp builds a router over AppRoutes.
func NewApp(src StateSource, s Screens) (*Router, error) {
	return New(src, access.PathRoot, AppRoutes(s)...)
}
