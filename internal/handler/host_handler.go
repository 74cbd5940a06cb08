package handler

import (
	"github.com/labstack/echo/v4"

	"chweb/internal/model"
	"chweb/internal/service"
)

type HostHandler struct {
	service service.HostService
}

type createHostRequest struct {
	Name string `json:"name"`
}

type updateHostRequest struct {
	ID   looseID `json:"id"`
	Name string  `json:"name"`
}

type hostResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	APIKey   string  `json:"apiKey"`
	LastSeen *string `json:"lastSeen,omitempty"`
}

func NewHostHandler(service service.HostService) *HostHandler {
	return &HostHandler{service: service}
}

func (h *HostHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/hosts", h.List, guards.User)
	g.PUT("/hosts", h.Create, guards.User)
	g.POST("/hosts", h.Update, guards.User)
	g.DELETE("/hosts/:id", h.Delete, guards.User)
	g.POST("/hosts/:id/key", h.RotateKey, guards.User)
}

// List godoc
// @Summary      List hosts
// @Tags         hosts
// @Produce      json
// @Success      200  {object}  envelope{data=[]hostResponse}
// @Failure      401
// @Security     ApiKeyAuth
// @Router       /hosts [get]
func (h *HostHandler) List(c echo.Context) error {
	hosts, err := h.service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]hostResponse, 0, len(hosts))
	for _, host := range hosts {
		response = append(response, toHostResponse(host))
	}
	return ok(c, response)
}

// Create godoc
// @Summary      Register a host
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        request  body      createHostRequest  true  "Host name"
// @Success      200      {object}  envelope{data=hostResponse}
// @Failure      400      {object}  envelope
// @Security     ApiKeyAuth
// @Router       /hosts [put]
func (h *HostHandler) Create(c echo.Context) error {
	var req createHostRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return badRequest(c)
	}
	host, err := h.service.Create(c.Request().Context(), req.Name)
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, toHostResponse(*host))
}

// Update godoc
// @Summary      Rename a host
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        request  body      updateHostRequest  true  "Host id and new name"
// @Success      200      {object}  envelope{data=hostResponse}
// @Failure      400      {object}  envelope
// @Failure      404      {object}  envelope
// @Security     ApiKeyAuth
// @Router       /hosts [post]
func (h *HostHandler) Update(c echo.Context) error {
	var req updateHostRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return badRequest(c)
	}
	id, err := req.ID.parse()
	if err != nil {
		return badRequest(c)
	}
	host, err := h.service.Rename(c.Request().Context(), id, req.Name)
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, toHostResponse(*host))
}

// Delete godoc
// @Summary      Delete a host
// @Tags         hosts
// @Produce      json
// @Param        id   path      string  true  "Host id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Security     ApiKeyAuth
// @Router       /hosts/{id} [delete]
func (h *HostHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c)
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, nil)
}

// RotateKey godoc
// @Summary      Issue a new API key for a host
// @Tags         hosts
// @Produce      json
// @Param        id   path      string  true  "Host id"
// @Success      200  {object}  envelope{data=hostResponse}
// @Failure      404  {object}  envelope
// @Security     ApiKeyAuth
// @Router       /hosts/{id}/key [post]
func (h *HostHandler) RotateKey(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c)
	}
	host, err := h.service.RotateKey(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, toHostResponse(*host))
}

func toHostResponse(host model.Host) hostResponse {
	return hostResponse{
		ID:       idString(host.ID),
		Name:     host.Name,
		APIKey:   host.APIKey,
		LastSeen: timeString(host.LastSeen),
	}
}
