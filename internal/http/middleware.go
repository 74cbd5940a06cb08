package http

import (
	"context"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"chweb/internal/handler"
	"chweb/internal/metrics"
	"chweb/internal/model"
	"chweb/internal/service"
	"chweb/pkg/logger"
)

const (
	APIKeyHeader = "X-API-Key"
	APIKeyQuery  = "apiKey"
)

// TokenSource extracts a candidate API key from a request. It returns ""
// when the request carries nothing it recognises.
type TokenSource func(c echo.Context) string

// HeaderSource reads the token from a request header.
func HeaderSource(name string) TokenSource {
	return func(c echo.Context) string {
		return strings.TrimSpace(c.Request().Header.Get(name))
	}
}

// QuerySource reads the token from a query parameter.
func QuerySource(name string) TokenSource {
	return func(c echo.Context) string {
		return strings.TrimSpace(c.QueryParam(name))
	}
}

// CookieSource reads a signed session cookie and yields the API key it
// wraps. A cookie that fails verification yields "".
func CookieSource(name string, signer *service.SessionSigner) TokenSource {
	return func(c echo.Context) string {
		cookie, err := c.Cookie(name)
		if err != nil || cookie.Value == "" {
			return ""
		}
		apiKey, err := signer.Verify(cookie.Value)
		if err != nil {
			return ""
		}
		return apiKey
	}
}

// Resolver looks up the identity owning an API key. A nil result with a nil
// error means no identity matches.
type Resolver[T any] func(ctx context.Context, apiKey string) (*T, error)

// APIKeyAuth admits a request when the first non-empty token from sources
// resolves to an identity, which is stored in the echo context under
// contextKey.
func APIKeyAuth[T any](realm string, resolve Resolver[T], contextKey string, m *metrics.Metrics, sources ...TokenSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := firstToken(c, sources)
			if token == "" {
				m.AuthFailure(realm)
				return c.NoContent(nethttp.StatusUnauthorized)
			}

			identity, err := resolve(c.Request().Context(), token)
			if err != nil {
				m.AuthFailure(realm)
				logger.Error("resolve api key", "module", "http", "action", "authenticate", "resource", realm, "result", "failed", "error", err)
				return c.JSON(nethttp.StatusInternalServerError, echo.Map{"success": false})
			}
			if identity == nil {
				m.AuthFailure(realm)
				return c.NoContent(nethttp.StatusUnauthorized)
			}

			c.Set(contextKey, identity)
			return next(c)
		}
	}
}

func firstToken(c echo.Context, sources []TokenSource) string {
	for _, source := range sources {
		if token := source(c); token != "" {
			return token
		}
	}
	return ""
}

// UserAuth guards routes for signed-in users: header, query, then cookie.
func UserAuth(users service.UserService, signer *service.SessionSigner, cookieName string, m *metrics.Metrics) echo.MiddlewareFunc {
	return APIKeyAuth[model.User](
		metrics.RealmUser,
		users.ResolveAPIKey,
		handler.UserContextKey,
		m,
		HeaderSource(APIKeyHeader),
		QuerySource(APIKeyQuery),
		CookieSource(cookieName, signer),
	)
}

// HostAuth guards routes called by filtering hosts: header, then query.
func HostAuth(hosts service.HostService, m *metrics.Metrics) echo.MiddlewareFunc {
	return APIKeyAuth[model.Host](
		metrics.RealmHost,
		hosts.ResolveAPIKey,
		handler.HostContextKey,
		m,
		HeaderSource(APIKeyHeader),
		QuerySource(APIKeyQuery),
	)
}

// RequestLoggerMiddleware logs one line per request, at a level chosen by
// the response status class.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"module", "http",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			switch {
			case v.Status >= nethttp.StatusInternalServerError:
				if v.Error != nil {
					args = append(args, "error", v.Error)
				}
				logger.Error("request", args...)
			case v.Status >= nethttp.StatusBadRequest:
				logger.Warn("request", args...)
			default:
				logger.Info("request", args...)
			}
			return nil
		},
	})
}

// MetricsMiddleware observes the latency of every request by route template.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = nethttp.StatusInternalServerError
				}
			}
			m.ObserveRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}
