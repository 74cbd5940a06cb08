package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"chweb/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

type settingRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/settings", h.List, guards.User)
	g.POST("/settings", h.Save, guards.User)
	g.GET("/settings/:key", h.Get, guards.User)
}

// List godoc
// @Summary      All settings as an object
// @Tags         settings
// @Produce      json
// @Success      200  {object}  envelope{data=map[string]interface{}}
// @Security     ApiKeyAuth
// @Router       /settings [get]
func (h *SettingsHandler) List(c echo.Context) error {
	settings, err := h.service.All(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, settings)
}

// Get godoc
// @Summary      One setting value
// @Tags         settings
// @Produce      json
// @Param        key  path      string  true  "Setting key"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Security     ApiKeyAuth
// @Router       /settings/{key} [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	value, err := h.service.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, value)
}

// Save godoc
// @Summary      Update existing settings
// @Description  Unknown keys are ignored. The whole batch is rejected when any item lacks a key or value.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      []settingRequest  true  "Settings"
// @Success      200      {object}  envelope
// @Failure      400      {object}  envelope
// @Security     ApiKeyAuth
// @Router       /settings [post]
func (h *SettingsHandler) Save(c echo.Context) error {
	var reqs []settingRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&reqs); err != nil || reqs == nil {
		return badRequest(c)
	}

	items := make([]service.SettingInput, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, service.SettingInput{Key: req.Key, Value: req.Value})
	}
	if _, err := h.service.SaveBatch(c.Request().Context(), items); err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, nil)
}
