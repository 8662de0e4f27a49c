// Package validation checks submitted console forms before anything is sent to the backend.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not blank.
func Required(fieldName string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return fieldName + " is required"
		}
		return ""
	}
}

// MinLength validates a non-empty field has at least minLen runes.
func MinLength(fieldName string, minLen int) Validator {
	return func(v string) string {
		if v != "" && utf8.RuneCountInString(strings.TrimSpace(v)) < minLen {
			return fmt.Sprintf("%s must be at least %d characters", fieldName, minLen)
		}
		return ""
	}
}

// MaxLength validates a field does not exceed maxLen runes.
func MaxLength(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters", fieldName, maxLen)
		}
		return ""
	}
}

// Email validates a non-empty field is a single bare address.
func Email(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return fieldName + " is invalid"
		}
		return ""
	}
}

// Matches validates the field equals another submitted value.
func Matches(message, other string) Validator {
	return func(v string) string {
		if v != other {
			return message
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options exactly.
func OneOf(message string, options ...string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if v == opt {
				return ""
			}
		}
		return message
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators, keeping the first failure per field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	if _, failed := fv.errors[field]; failed {
		return fv
	}
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errors[field] = msg
			break
		}
	}
	return fv
}

// Valid reports whether every field passed.
func (fv *FieldValidator) Valid() bool { return len(fv.errors) == 0 }

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
