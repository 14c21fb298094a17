package errors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestBaseError_IsSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(ErrBookNotFound, "load detail")

	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.NotErrorIs(t, err, ErrPublisherNotFound)

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode())
	assert.Equal(t, "The book does not exist.", appErr.Message())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(map[string]string{
		"rating":  "Ensure this value is less than or equal to 5.",
		"book_id": "Select a valid choice.",
	})

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode())
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode())
	assert.Equal(t,
		"Invalid form data. Please check your input.: book_id: Select a valid choice.; rating: Ensure this value is less than or equal to 5.",
		err.Error(),
	)

	login := err.WithMessage("Invalid login details.")
	assert.Equal(t, "Invalid login details.", login.Message())
	assert.Equal(t, err.Fields(), login.Fields())
}
