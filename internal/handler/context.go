package handler

import (
	"github.com/labstack/echo/v4"

	"chweb/internal/model"
)

// Context keys under which the auth guards store the resolved identity.
const (
	UserContextKey = "chweb.user"
	HostContextKey = "chweb.host"
)

// Guards are the route middlewares that admit users and hosts.
type Guards struct {
	User echo.MiddlewareFunc
	Host echo.MiddlewareFunc
}

// CurrentUser returns the user attached by the user guard, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(UserContextKey).(*model.User)
	return user
}

// CurrentHost returns the host attached by the host guard, or nil.
func CurrentHost(c echo.Context) *model.Host {
	host, _ := c.Get(HostContextKey).(*model.Host)
	return host
}
