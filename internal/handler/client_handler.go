package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chweb/internal/service"
)

type ClientHandler struct {
	service service.ClientService
}

type clientConfigResponse struct {
	DefaultAction string         `json:"defaultAction"`
	Rules         []ruleResponse `json:"rules"`
}

func NewClientHandler(service service.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

func (h *ClientHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/client/config", h.Config, guards.Host)
}

// Config godoc
// @Summary      Rule set for the calling host
// @Description  Marks the host as seen and returns the default action with every rule.
// @Tags         client
// @Produce      json
// @Success      200  {object}  envelope{data=clientConfigResponse}
// @Failure      401
// @Security     HostKeyAuth
// @Router       /client/config [get]
func (h *ClientHandler) Config(c echo.Context) error {
	host := CurrentHost(c)
	if host == nil {
		return c.NoContent(http.StatusUnauthorized)
	}
	cfg, err := h.service.Config(c.Request().Context(), host.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, clientConfigResponse{
		DefaultAction: cfg.DefaultAction,
		Rules:         toRuleResponses(cfg.Rules),
	})
}
