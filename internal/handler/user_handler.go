package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"chweb/internal/model"
	"chweb/internal/service"
)

type UserHandler struct {
	service    service.UserService
	signer     *service.SessionSigner
	cookieName string
	now        func() time.Time
}

type authenticateRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	APIKey   string `json:"apiKey"`
}

func NewUserHandler(service service.UserService, signer *service.SessionSigner, cookieName string) *UserHandler {
	return &UserHandler{service: service, signer: signer, cookieName: cookieName, now: time.Now}
}

func (h *UserHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	g.POST("/user/authenticate", h.Authenticate)
	g.GET("/user", h.Me, guards.User)
	g.DELETE("/user", h.Logout, guards.User)
	g.POST("/user/key", h.RotateKey, guards.User)
}

// Authenticate godoc
// @Summary      Sign in
// @Description  Sets the session cookie on success. Wrong credentials answer 200 with success=false.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request  body      authenticateRequest  true  "Credentials"
// @Success      200      {object}  envelope
// @Failure      400      {object}  envelope
// @Router       /user/authenticate [post]
func (h *UserHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return badRequest(c)
	}

	user, err := h.service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.JSON(http.StatusOK, envelope{Success: false})
		}
		return writeServiceError(c, err)
	}

	var expires time.Time
	if req.RememberMe {
		expires = service.RememberMeExpiry(h.now())
	}
	if err := h.setSessionCookie(c, user.APIKey, expires); err != nil {
		return writeServiceError(c, err)
	}
	return ok(c, nil)
}

// Me godoc
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Success      200  {object}  envelope{data=userResponse}
// @Failure      401
// @Security     ApiKeyAuth
// @Router       /user [get]
func (h *UserHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.NoContent(http.StatusUnauthorized)
	}
	return ok(c, toUserResponse(*user))
}

// Logout godoc
// @Summary      End the browser session
// @Description  Only clears the cookie in this browser. A copied session token stays valid until the API key is rotated with POST /user/key.
// @Tags         user
// @Produce      json
// @Success      200  {object}  envelope
// @Security     ApiKeyAuth
// @Router       /user [delete]
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ok(c, nil)
}

// RotateKey godoc
// @Summary      Issue a new API key for the current user
// @Description  Every existing session cookie stops working. A caller that authenticated with the cookie gets a fresh one with the same expiry.
// @Tags         user
// @Produce      json
// @Success      200  {object}  envelope{data=userResponse}
// @Security     ApiKeyAuth
// @Router       /user/key [post]
func (h *UserHandler) RotateKey(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.NoContent(http.StatusUnauthorized)
	}
	rotated, err := h.service.RotateKey(c.Request().Context(), user.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		// Keep a remember-me session persistent.
		_, expires, _ := h.signer.Session(cookie.Value)
		if err := h.setSessionCookie(c, rotated.APIKey, expires); err != nil {
			return writeServiceError(c, err)
		}
	}
	return ok(c, toUserResponse(*rotated))
}

func (h *UserHandler) setSessionCookie(c echo.Context, apiKey string, expires time.Time) error {
	token, err := h.signer.Sign(apiKey, expires)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func toUserResponse(user model.User) userResponse {
	return userResponse{
		ID:       idString(user.ID),
		Username: user.Username,
		APIKey:   user.APIKey,
	}
}
