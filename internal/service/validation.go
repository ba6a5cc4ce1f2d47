package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	clockPattern  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidMobile reports whether s looks like a phone number: 10 to 15 digits
// with an optional leading +.
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// validateStruct runs the validate tags on v and turns the first failure into
// a validation error naming the offending JSON field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("Invalid request")
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_with":
		return invalid(fmt.Sprintf("%s is required", field))
	case "mobile":
		return invalid(fmt.Sprintf("%s must be a valid phone number", field))
	case "email":
		return invalid(fmt.Sprintf("%s must be a valid email address", field))
	case "url":
		return invalid(fmt.Sprintf("%s must be a valid URL", field))
	case "clock":
		return invalid(fmt.Sprintf("%s must be a time in HH:MM format", field))
	case "oneof":
		return invalid(fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
	case "min", "gt":
		return invalid(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "max":
		return invalid(fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	default:
		return invalid(fmt.Sprintf("%s is invalid", field))
	}
}
