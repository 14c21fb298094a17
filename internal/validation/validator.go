// Package validation runs go-playground/validator tags and turns failures
// into per-field messages keyed by the form field name.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	domainerrors "library/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey collects errors that belong to the form as a whole.
const NonFieldKey = "__all__"

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}

		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// FieldErrors maps a form field to its first failure message.
type FieldErrors map[string]string

// Add records msg for field unless the field already failed.
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Has reports whether field already failed.
func (fe FieldErrors) Has(field string) bool {
	_, exists := fe[field]

	return exists
}

// Err returns nil when no field failed, otherwise a ValidationError.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}

	return domainerrors.NewValidationError(fe)
}

// Check validates the struct tags of s.
func Check(s any) FieldErrors {
	fields := FieldErrors{}

	err := validate.Struct(s)
	if err == nil {
		return fields
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fields.Add(NonFieldKey, err.Error())

		return fields
	}

	for _, fe := range validationErrors {
		fields.Add(fe.Field(), MessageFor(fe))
	}

	return fields
}

// MessageFor renders a user-facing message for a failed tag.
func MessageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}

		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return "This field is required."
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}

		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return fmt.Sprintf("Failed on '%s' validation.", fe.Tag())
	}
}
