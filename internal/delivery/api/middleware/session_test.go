package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "library/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{next: "", want: "/"},
		{next: "/orders/", want: "/orders/"},
		{next: "/check/3/?x=1", want: "/check/3/?x=1"},
		{next: "https://evil.example/", want: "/"},
		{next: "//evil.example/", want: "/"},
		{next: "/\\evil.example", want: "/"},
		{next: "orders/", want: "/"},
		{next: "javascript:alert(1)", want: "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeNext(tt.next), tt.next)
	}
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login/", LoginURL(""))
	assert.Equal(t, "/login/?next=%2Forders%2F", LoginURL("/orders/"))
}

func TestStatusOf(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Response().Status = http.StatusFound

	assert.Equal(t, http.StatusFound, statusOf(c, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, statusOf(c, echo.ErrMethodNotAllowed))
	assert.Equal(t, http.StatusNotFound, statusOf(c, domainerrors.ErrBookNotFound))
	assert.Equal(t, http.StatusBadRequest, statusOf(c, domainerrors.NewValidationError(map[string]string{"x": "y"})))
	assert.Equal(t, http.StatusInternalServerError, statusOf(c, assert.AnError))
}
