package handler

import "github.com/labstack/echo/v4"

// Handlers groups every API handler mounted under /api/v1.
type Handlers struct {
	Hosts     *HostHandler
	Rules     *RuleHandler
	Settings  *SettingsHandler
	Analytics *AnalyticsHandler
	Users     *UserHandler
	Client    *ClientHandler
}

// RegisterRoutes mounts every handler on g, guarding each route for the
// identity class it serves.
func (h Handlers) RegisterRoutes(g *echo.Group, guards Guards) {
	h.Hosts.RegisterRoutes(g, guards)
	h.Rules.RegisterRoutes(g, guards)
	h.Settings.RegisterRoutes(g, guards)
	h.Analytics.RegisterRoutes(g, guards)
	h.Users.RegisterRoutes(g, guards)
	h.Client.RegisterRoutes(g, guards)
}
