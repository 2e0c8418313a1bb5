// Package normalizer turns labelled form data into canonical storage column keys.
package normalizer

import (
	"fmt"
	"reflect"
	"strings"

	"medguide/internal/domain/errs"

	"github.com/spf13/cast"
)

// Record is a normalized mapping: canonical snake_case column -> scalar text value.
type Record map[string]string

// multiValueSeparator joins the elements of a multi-element sequence.
const multiValueSeparator = ", "

var keyReplacer = strings.NewReplacer(" ", "_", "/", "_")

// Key converts a form label to its column key: spaces and slashes become underscores and the
// result is lowercased.
func Key(label string) string {
	return strings.ToLower(keyReplacer.Replace(label))
}

// Normalize maps every label to its column key and every value to a single string.
//
// Values may be scalars or sequences of scalars. A single-element sequence unwraps to its element,
// longer sequences are joined with ", ". Anything else is a validation error. Labels that collapse
// to the same key are a caller error and are not detected here.
func Normalize(fields map[string]any) (Record, error) {
	out := make(Record, len(fields))
	invalid := map[string]string{}

	for label, value := range fields {
		text, err := flatten(value)
		if err != nil {
			invalid[label] = err.Error()
			continue
		}
		out[Key(label)] = text
	}

	if len(invalid) > 0 {
		return nil, errs.NewValidationError(invalid)
	}
	return out, nil
}

func flatten(value any) (string, error) {
	if value == nil {
		return "", fmt.Errorf("value is missing")
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, isBytes := value.([]byte); isBytes {
			return scalar(value)
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			part, err := scalar(rv.Index(i).Interface())
			if err != nil {
				return "", fmt.Errorf("element %d: %w", i, err)
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, multiValueSeparator), nil
	default:
		return scalar(value)
	}
}

func scalar(value any) (string, error) {
	if value == nil {
		return "", fmt.Errorf("value is missing")
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Func, reflect.Chan:
		if _, isBytes := value.([]byte); !isBytes {
			if s, ok := value.(fmt.Stringer); ok {
				return s.String(), nil
			}
			return "", fmt.Errorf("unsupported value of type %T", value)
		}
	}

	text, err := cast.ToStringE(value)
	if err != nil {
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
	return text, nil
}
