// Package validation checks form input with struct tags and reports failures
// as apperror.ErrValidation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"go-forum-app/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var (
	validate  = newValidator()
	colorExpr = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Messages use the human label of a field when it has one.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	// notblank rejects strings made only of whitespace.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// color accepts six hex digits with an optional leading '#'.
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return colorExpr.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// Struct validates s and returns an error wrapping apperror.ErrValidation
// that lists every failed field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, message(fe))
	}
	return fmt.Errorf("%w: %s", apperror.ErrValidation, strings.Join(messages, "; "))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "color":
		return fe.Field() + " must be six hex digits"
	case "alphanumunicode", "excludesall":
		return fe.Field() + " contains invalid characters"
	default:
		return fe.Field() + " is invalid"
	}
}
