package middleware

import (
	"log/slog"
	"net/http"

	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware is installed as echo's HTTPErrorHandler. Every error that
// escapes a handler ends up as a JSON envelope here.
type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, info := m.classify(err)
	if status >= http.StatusInternalServerError {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Request failed",
			slog.Any("error", err),
			slog.String("code", info.Code),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
		)
	}

	_ = response.Error(c, status, info.Code, info.Message, info.Details)
}

func (m *ErrorMiddleware) classify(err error) (int, *response.ErrorInfo) {
	if status, info, ok := response.Describe(err); ok {
		return status, info
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}

		return httpErr.Code, &response.ErrorInfo{Code: "HTTP_ERROR", Message: message}
	}

	return http.StatusInternalServerError, &response.ErrorInfo{
		Code:    "INTERNAL_ERROR",
		Message: domainerrors.ErrInternalError.Message(),
	}
}
