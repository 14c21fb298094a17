package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "library/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxRequestIDLength = 128

// RequestIDMiddleware tags each request with an id and a logger carrying it.
// A client supplied X-Request-Id is trusted only when it is short printable ASCII.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{logger: logger}
}

func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Response().Header().Set(deliverycontext.HeaderXRequestID, id)
		deliverycontext.Attach(c, deliverycontext.Scope{
			RequestID: id,
			Logger:    m.logger.With(slog.String("request_id", id)),
		})

		return next(c)
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}

	return strings.IndexFunc(id, func(r rune) bool { return r <= ' ' || r > '~' }) < 0
}
