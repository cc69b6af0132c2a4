package utils

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"
)

// ValidationError reports one invalid configuration value
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func invalid(field string, value interface{}, format string, args ...interface{}) error {
	return ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

// Validator checks a single value
type Validator[T any] func(T) error

// ValidatorChain runs validators in order and stops at the first failure
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// NotEmpty rejects the empty string; whitespace is accepted
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if value == "" {
			return invalid(field, value, "cannot be empty")
		}
		return nil
	}
}

// MatchesRegex compiles pattern once and rejects values it does not match
func MatchesRegex(field, pattern string) Validator[string] {
	regex := regexp.MustCompile(pattern)
	return func(value string) error {
		if !regex.MatchString(value) {
			return invalid(field, value, "must match pattern '%s'", pattern)
		}
		return nil
	}
}

// CompilesAsRegex rejects values that are not valid RE2 syntax
func CompilesAsRegex(field string) Validator[string] {
	return func(value string) error {
		if _, err := regexp.Compile(value); err != nil {
			return invalid(field, value, "is not a valid regular expression: %v", err)
		}
		return nil
	}
}

// IsValidGoIdentifier accepts names usable as a package clause
func IsValidGoIdentifier(field string) Validator[string] {
	return func(value string) error {
		switch {
		case value == "":
			return invalid(field, value, "cannot be empty")
		case !token.IsIdentifier(value):
			return invalid(field, value, "must be a valid Go identifier")
		}
		return nil
	}
}

var qualifiedSegment = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsQualifiedName validates a C# namespace or Java package
func IsQualifiedName(field string) Validator[string] {
	return func(value string) error {
		for _, part := range strings.Split(value, ".") {
			if !qualifiedSegment.MatchString(part) {
				return invalid(field, value, "must be a dot-separated list of identifiers")
			}
		}
		return nil
	}
}

// IsOneOf is case sensitive
func IsOneOf[T comparable](field string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, candidate := range allowed {
			if value == candidate {
				return nil
			}
		}
		return invalid(field, value, "must be one of: %v", allowed)
	}
}

func SliceNotEmpty[T any](field string) Validator[[]T] {
	return func(value []T) error {
		if len(value) == 0 {
			return invalid(field, value, "cannot be empty")
		}
		return nil
	}
}

// ValidateEach applies itemValidator to every element. The reported field
// carries the failing index.
func ValidateEach[T any](field string, itemValidator Validator[T]) Validator[[]T] {
	return func(value []T) error {
		for i, item := range value {
			err := itemValidator(item)
			if err == nil {
				continue
			}
			message := err.Error()
			if ve, ok := err.(ValidationError); ok {
				message = ve.Message
			}
			return invalid(fmt.Sprintf("%s[%d]", field, i), item, "%s", message)
		}
		return nil
	}
}
