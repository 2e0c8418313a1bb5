package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if asValidationErrors(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + strings.Join(oneOfValues(e.Param()), ", ")
			case "datetime":
				errors[field] = field + " must match the format " + e.Param()
			case "e164":
				errors[field] = field + " must be a phone number in international format"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

var oneOfParam = regexp.MustCompile(`'([^']*)'|(\S+)`)

// oneOfValues splits a oneof parameter, honoring single-quoted values that contain spaces.
func oneOfValues(param string) []string {
	var values []string
	for _, m := range oneOfParam.FindAllStringSubmatch(param, -1) {
		if m[1] != "" {
			values = append(values, m[1])
		} else {
			values = append(values, m[2])
		}
	}
	return values
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	return errors.As(err, target)
}

// TrimStrings trims surrounding whitespace from every string and *string field of the struct
// pointed to by i, so that whitespace-only answers fail "required".
func TrimStrings(i interface{}) {
	v := reflect.ValueOf(i)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	for idx := 0; idx < v.NumField(); idx++ {
		field := v.Field(idx)
		if !field.CanSet() {
			continue
		}
		switch {
		case field.Kind() == reflect.String:
			field.SetString(strings.TrimSpace(field.String()))
		case field.Kind() == reflect.Pointer && !field.IsNil() && field.Elem().Kind() == reflect.String:
			field.Elem().SetString(strings.TrimSpace(field.Elem().String()))
		}
	}
}
