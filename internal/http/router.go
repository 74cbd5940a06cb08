package http

import (
	"errors"
	nethttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "chweb/docs"
	"chweb/internal/handler"
	"chweb/internal/metrics"
	"chweb/internal/service"
	"chweb/pkg/logger"
)

const APIPrefix = "/api/v1"

type RouterOptions struct {
	CookieName     string
	Metrics        *metrics.Metrics
	MetricsEnabled bool
	SwaggerEnabled bool
}

// NewRouter builds the echo instance serving the admin API.
func NewRouter(
	handlers handler.Handlers,
	users service.UserService,
	hosts service.HostService,
	signer *service.SessionSigner,
	opts RouterOptions,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
	e.Use(RequestLoggerMiddleware())
	if opts.Metrics != nil {
		e.Use(MetricsMiddleware(opts.Metrics))
	}

	if opts.MetricsEnabled && opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}
	if opts.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	guards := handler.Guards{
		User: UserAuth(users, signer, opts.CookieName, opts.Metrics),
		Host: HostAuth(hosts, opts.Metrics),
	}
	handlers.RegisterRoutes(e.Group(APIPrefix), guards)

	return e
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := nethttp.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
	}
	if status >= nethttp.StatusInternalServerError {
		logger.Error("unhandled error", "module", "http", "method", c.Request().Method, "path", c.Path(), "result", "failed", "error", err)
	}

	var writeErr error
	switch {
	case c.Request().Method == nethttp.MethodHead:
		writeErr = c.NoContent(status)
	case status == nethttp.StatusUnauthorized:
		writeErr = c.NoContent(status)
	default:
		writeErr = c.JSON(status, echo.Map{"success": false})
	}
	if writeErr != nil {
		logger.Warn("write error response", "module", "http", "error", writeErr)
	}
}
