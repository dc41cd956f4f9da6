// Package validation adapts go-playground/validator to echo and renders
// failures as envelope validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amartyachowdhury/movie-stack/internal/api/envelope"
)

// FailedMessage is the top-level message of struct validation failures.
const FailedMessage = "Validation failed"

// genre filters are ids joined by "," (all of) or "|" (any of).
var genreListPattern = regexp.MustCompile(`^\d+([,|]\d+)*$`)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that names fields by their query or json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	// error is always nil for a non-empty tag and function
	_ = v.RegisterValidation("genrelist", func(fl validator.FieldLevel) bool {
		return genreListPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate validates a struct, returning *envelope.ValidationError on failure.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]envelope.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, envelope.FieldError{
			Field:   fe.Field(),
			Message: translate(fe),
		})
	}
	return envelope.NewValidationError(FailedMessage, fields...)
}

var messageTemplates = map[string]string{
	"required":  "%s is required",
	"genrelist": "%s must be a list of genre ids separated by ',' or '|'",
	"alpha":     "%s must contain only letters",
	"lowercase": "%s must be lowercase",
}

var messageWithParam = map[string]string{
	"oneof":    "%s must be one of: %s",
	"len":      "%s must be exactly %s characters",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gtefield": "%s must be greater than or equal to %s",
}

func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if tmpl, ok := messageTemplates[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := messageWithParam[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
