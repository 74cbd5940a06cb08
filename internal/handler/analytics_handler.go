package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chweb/internal/model"
	"chweb/internal/service"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

type recordRequest struct {
	Action string `json:"action"`
	Host   string `json:"host"`
}

type tallyResponse struct {
	Allowed int64 `json:"allowed"`
	Blocked int64 `json:"blocked"`
}

type counterResponse struct {
	Host    string `json:"host"`
	Allowed int64  `json:"allowed"`
	Blocked int64  `json:"blocked"`
}

type hostTallyResponse struct {
	Name    string `json:"name"`
	Allowed int64  `json:"allowed"`
	Blocked int64  `json:"blocked"`
}

type countersResponse struct {
	Global      tallyResponse       `json:"global"`
	MostBlocked []counterResponse   `json:"mostBlocked"`
	MostAllowed []counterResponse   `json:"mostAllowed"`
	Hosts       []hostTallyResponse `json:"hosts"`
}

type analyticsResponse struct {
	Counters countersResponse `json:"counters"`
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/analytics", h.Summary, guards.User)
	g.POST("/analytics", h.Record, guards.Host)
}

// Summary godoc
// @Summary      Allow/block counters
// @Description  Global totals, the five most blocked and most allowed domains, and each host's own tally.
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  envelope{data=analyticsResponse}
// @Security     ApiKeyAuth
// @Router       /analytics [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, analyticsResponse{Counters: toCountersResponse(summary)})
}

// Record godoc
// @Summary      Report an access-control decision
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Param        request  body      recordRequest  true  "Decision"
// @Success      200      {object}  envelope
// @Failure      400      {object}  envelope
// @Security     HostKeyAuth
// @Router       /analytics [post]
func (h *AnalyticsHandler) Record(c echo.Context) error {
	host := CurrentHost(c)
	if host == nil {
		return c.NoContent(http.StatusUnauthorized)
	}
	var req recordRequest
	if err := c.Bind(&req); err != nil || req.Action == "" || req.Host == "" {
		return badRequest(c)
	}
	if err := h.service.Record(c.Request().Context(), host.ID, req.Host, model.Action(req.Action)); err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, nil)
}

func toCountersResponse(summary service.AnalyticsSummary) countersResponse {
	resp := countersResponse{
		Global:      tallyResponse{Allowed: summary.Global.Allowed, Blocked: summary.Global.Blocked},
		MostBlocked: toCounterResponses(summary.MostBlocked),
		MostAllowed: toCounterResponses(summary.MostAllowed),
		Hosts:       make([]hostTallyResponse, 0, len(summary.Hosts)),
	}
	for _, h := range summary.Hosts {
		resp.Hosts = append(resp.Hosts, hostTallyResponse{Name: h.Name, Allowed: h.Allowed, Blocked: h.Blocked})
	}
	return resp
}

func toCounterResponses(counters []model.Counter) []counterResponse {
	out := make([]counterResponse, 0, len(counters))
	for _, c := range counters {
		out = append(out, counterResponse{Host: c.Host, Allowed: c.Allowed, Blocked: c.Blocked})
	}
	return out
}
