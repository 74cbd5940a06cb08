package handler

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"chweb/internal/model"
	"chweb/internal/service"
)

// maxRuleBatchBytes bounds the body of a batch rule update.
const maxRuleBatchBytes = 1 << 20

type RuleHandler struct {
	service service.RuleService
}

type createRuleRequest struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Host   string `json:"host"`
}

type updateRuleRequest struct {
	ID     looseID `json:"id"`
	Type   string  `json:"type"`
	Action string  `json:"action"`
	Host   string  `json:"host"`
}

type ruleResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Host   string `json:"host"`
}

func NewRuleHandler(service service.RuleService) *RuleHandler {
	return &RuleHandler{service: service}
}

func (h *RuleHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.GET("/rules", h.List, guards.User)
	g.PUT("/rules", h.Create, guards.User)
	g.POST("/rules", h.Update, guards.User)
	g.GET("/rules/:id", h.Get, guards.User)
	g.DELETE("/rules/:id", h.Delete, guards.User)
}

// List godoc
// @Summary      List rules in insertion order
// @Tags         rules
// @Produce      json
// @Success      200  {object}  envelope{data=[]ruleResponse}
// @Security     ApiKeyAuth
// @Router       /rules [get]
func (h *RuleHandler) List(c echo.Context) error {
	rules, err := h.service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, toRuleResponses(rules))
}

// Get godoc
// @Summary      Get a rule
// @Tags         rules
// @Produce      json
// @Param        id   path      string  true  "Rule id"
// @Success      200  {object}  envelope{data=ruleResponse}
// @Failure      404  {object}  envelope
// @Security     ApiKeyAuth
// @Router       /rules/{id} [get]
func (h *RuleHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c)
	}
	rule, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, toRuleResponse(*rule))
}

// Create godoc
// @Summary      Create a rule
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        request  body      createRuleRequest  true  "Rule"
// @Success      200      {object}  envelope{data=ruleResponse}
// @Failure      400      {object}  envelope
// @Security     ApiKeyAuth
// @Router       /rules [put]
func (h *RuleHandler) Create(c echo.Context) error {
	var req createRuleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if req.Type == "" || req.Action == "" || req.Host == "" {
		return badRequest(c)
	}
	rule, err := h.service.Create(c.Request().Context(), model.Rule{
		Type:   req.Type,
		Action: req.Action,
		Host:   req.Host,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, toRuleResponse(*rule))
}

// Update godoc
// @Summary      Update one rule or a batch of rules
// @Description  The body is a rule object or an array of them. Every item needs id, type, action and host; the batch is applied atomically.
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        request  body      []updateRuleRequest  true  "Rules"
// @Success      200      {object}  envelope{data=[]ruleResponse}
// @Failure      400      {object}  envelope
// @Failure      404      {object}  envelope
// @Security     ApiKeyAuth
// @Router       /rules [post]
func (h *RuleHandler) Update(c echo.Context) error {
	reqs, err := decodeRuleBatch(c.Request().Body)
	if err != nil {
		return badRequest(c)
	}

	rules := make([]model.Rule, 0, len(reqs))
	for _, req := range reqs {
		id, err := req.ID.parse()
		if err != nil || req.Type == "" || req.Action == "" || req.Host == "" {
			return badRequest(c)
		}
		rules = append(rules, model.Rule{ID: id, Type: req.Type, Action: req.Action, Host: req.Host})
	}

	updated, err := h.service.UpdateBatch(c.Request().Context(), rules)
	if err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, toRuleResponses(updated))
}

// Delete godoc
// @Summary      Delete a rule
// @Tags         rules
// @Produce      json
// @Param        id   path      string  true  "Rule id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Security     ApiKeyAuth
// @Router       /rules/{id} [delete]
func (h *RuleHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c)
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, nil)
}

// decodeRuleBatch accepts a single rule object or an array of rules.
func decodeRuleBatch(body io.Reader) ([]updateRuleRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxRuleBatchBytes))
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, service.ErrInvalid
	}

	if raw[0] == '[' {
		var reqs []updateRuleRequest
		if err := json.Unmarshal(raw, &reqs); err != nil {
			return nil, err
		}
		if len(reqs) == 0 {
			return nil, service.ErrInvalid
		}
		return reqs, nil
	}

	var req updateRuleRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return []updateRuleRequest{req}, nil
}

func toRuleResponse(rule model.Rule) ruleResponse {
	return ruleResponse{
		ID:     idString(rule.ID),
		Type:   rule.Type,
		Action: rule.Action,
		Host:   rule.Host,
	}
}

func toRuleResponses(rules []model.Rule) []ruleResponse {
	response := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		response = append(response, toRuleResponse(rule))
	}
	return response
}
