package helpers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var sizePattern = regexp.MustCompile(`^\d+ml$`)

func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("has_at", func(fl validator.FieldLevel) bool {
		return strings.Contains(fl.Field().String(), "@")
	})
	_ = v.RegisterValidation("perfume_size", func(fl validator.FieldLevel) bool {
		return sizePattern.MatchString(fl.Field().String())
	})
	return v
}

func IsValidSize(size string) bool {
	return sizePattern.MatchString(size)
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required", field)
		case "email", "has_at":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number", field)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "eqfield":
			errorMessages[field] = fmt.Sprintf("%s must match %s", field, err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation", field, err.Tag())
		}
	}
	return errorMessages
}

// FirstValidationMessage returns the message of the first failing field,
// reporting missing fields before malformed ones. messages is keyed by
// "field.tag" or "field"; anything missing falls back to
// FormatValidationErrors wording.
func FirstValidationMessage(err error, messages map[string]string) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request"
	}

	first := errs[0]
	for _, fe := range errs {
		if fe.Tag() == "required" {
			first = fe
			break
		}
	}
	if msg, ok := messages[first.Field()+"."+first.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[first.Field()]; ok {
		return msg
	}
	return FormatValidationErrors(validator.ValidationErrors{first})[first.Field()]
}
