package validate

import (
	"fmt"
	"reflect"
	"strings"
)

// NotNil checks if the provided value is not nil.
// Returns an error if the value is nil, using the provided message and arguments.
// Typed nil pointers, maps, slices, channels and funcs are treated as nil.
func NotNil(value any, msg string, args ...any) error {
	if value == nil {
		return createError(msg, args...)
	}

	val := reflect.ValueOf(value)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if val.IsNil() {
			return createError(msg, args...)
		}
	default:
	}
	return nil
}

// IsNotNil is an alias of NotNil kept for call sites validating dependencies.
func IsNotNil(value any, msg string, args ...any) error {
	return NotNil(value, msg, args...)
}

// NotBlank checks that the string is not empty once whitespace is trimmed.
func NotBlank(s string, msg string, args ...any) error {
	if strings.TrimSpace(s) == "" {
		return createError(msg, args...)
	}
	return nil
}

// OneOf checks that the value is among the allowed values.
func OneOf[T comparable](value T, allowed []T, msg string, args ...any) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return createError(msg, args...)
}

func createError(msg string, args ...any) error {
	return fmt.Errorf(msg, args...)
}
