// Package response renders the JSON envelope every API answer shares:
// {"data": ..., "meta": {...}} on success and {"error": ..., "meta": {...}} on failure.
package response

import (
	"net/http"

	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo describes a failed request. Details is omitted for server errors
// and for authentication failures.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type MetaInfo struct {
	RequestID string `json:"request_id"`
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}

// Success writes data with the given status.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{Data: data, Meta: meta(c)})
}

// Error writes an error envelope.
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	switch {
	case statusCode >= http.StatusInternalServerError,
		statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden:
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: &ErrorInfo{Code: errorCode, Message: message, Details: details},
		Meta:  meta(c),
	})
}

// BindingError reports a request body or query that could not be decoded.
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// Redirect finishes a successful form submission.
func Redirect(c echo.Context, location string) error {
	return c.Redirect(http.StatusFound, location)
}

// Describe maps a domain error onto its envelope fields. ok is false for
// errors that carry no domain meaning.
func Describe(err error) (status int, info *ErrorInfo, ok bool) {
	var validationErr *domainerrors.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.HTTPCode(), &ErrorInfo{
			Code:    validationErr.ErrorCode(),
			Message: validationErr.Message(),
			Details: validationErr.Fields(),
		}, true
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode(), &ErrorInfo{Code: appErr.ErrorCode(), Message: appErr.Message()}, true
	}

	return 0, nil, false
}

// HandleAppError answers with the domain error's envelope, or hands err back
// to echo's error handler when it is not a domain error.
func HandleAppError(c echo.Context, err error) error {
	status, info, ok := Describe(err)
	if !ok {
		return errors.WithStack(err)
	}

	return Error(c, status, info.Code, info.Message, info.Details)
}
