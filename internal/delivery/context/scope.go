// Package context carries per-request state between echo middleware,
// handlers, and the use cases they call.
package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is echoed back on every response.
const HeaderXRequestID = "X-Request-Id"

type scopeKey struct{}

// Scope is the request identity attached to both echo.Context and the
// request's context.Context.
type Scope struct {
	RequestID string
	Logger    *slog.Logger
}

// Attach stores scope on the echo context and on the request context so
// code below the delivery layer sees the same request id and logger.
func Attach(c echo.Context, scope Scope) {
	c.Set(HeaderXRequestID, scope)
	ctx := context.WithValue(c.Request().Context(), scopeKey{}, scope)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetRequestID returns the id assigned by the request id middleware, or an
// empty string outside of a request.
func GetRequestID(c echo.Context) string {
	if scope, ok := c.Get(HeaderXRequestID).(Scope); ok {
		return scope.RequestID
	}

	return GetRequestIDFromContext(c.Request().Context())
}

// GetRequestIDFromContext is GetRequestID for code that only holds a context.Context.
func GetRequestIDFromContext(ctx context.Context) string {
	scope, _ := ctx.Value(scopeKey{}).(Scope)

	return scope.RequestID
}

// GetLoggerOrDefault returns the request-scoped logger, falling back when ctx
// did not pass through the request id middleware.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if scope, ok := ctx.Value(scopeKey{}).(Scope); ok && scope.Logger != nil {
		return scope.Logger
	}

	return fallback
}
