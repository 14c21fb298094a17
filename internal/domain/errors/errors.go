// Package errors holds the errors the use cases return to the delivery layer.
// Each one knows the HTTP status and the message shown to the user.
package errors

import "net/http"

// AppError is an error safe to show to the user.
type AppError interface {
	error
	HTTPCode() int
	ErrorCode() string
	Message() string
}

// BaseError is a fixed AppError. Values are compared by error code, so
// wrapped copies still satisfy errors.Is.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
}

func newError(httpCode int, errorCode, message string) *BaseError {
	return &BaseError{httpCode: httpCode, errorCode: errorCode, message: message}
}

func (e *BaseError) Error() string     { return e.message }
func (e *BaseError) HTTPCode() int     { return e.httpCode }
func (e *BaseError) ErrorCode() string { return e.errorCode }
func (e *BaseError) Message() string   { return e.message }

func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && t.errorCode == e.errorCode
}

const somethingWentWrong = "Something went wrong! Please try again later."

// Catalog
var (
	ErrBookNotFound       = newError(http.StatusNotFound, "BOOK_NOT_FOUND", "The book does not exist.")
	ErrPublisherNotFound  = newError(http.StatusNotFound, "PUBLISHER_NOT_FOUND", "The publisher does not exist.")
	ErrNoReviewsAvailable = newError(http.StatusNotFound, "NO_REVIEWS_AVAILABLE", "No reviews available for this book.")
)

// Members and their orders
var (
	ErrMemberNotFound    = newError(http.StatusNotFound, "MEMBER_NOT_FOUND", "The member does not exist.")
	ErrNotEligible       = newError(http.StatusForbidden, "NOT_ELIGIBLE", "You are not eligible to view this page")
	ErrNoAvailableOrders = newError(http.StatusNotFound, "NO_AVAILABLE_ORDERS", "There are no available orders!")
)

// Authentication
var (
	ErrInvalidCredentials = newError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid login details.")
	ErrAccountDisabled    = newError(http.StatusForbidden, "ACCOUNT_DISABLED", "Your account is disabled.")
	ErrLoginRequired      = newError(http.StatusUnauthorized, "LOGIN_REQUIRED", "Authentication credentials were not provided.")
	ErrForbidden          = newError(http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this page.")
	ErrPasswordHashFailed = newError(http.StatusInternalServerError, "PASSWORD_HASH_FAILED", somethingWentWrong)
)

var (
	ErrValidationFailed = newError(http.StatusBadRequest, "VALIDATION_FAILED", "Invalid form data. Please check your input.")
	ErrInternalError    = newError(http.StatusInternalServerError, "INTERNAL_ERROR", somethingWentWrong)
)
