package task

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrValidation is matched by every ValidationError via errors.Is.
var ErrValidation = errors.New("task validation failed")

// ValidationError reports field level violations found while building or
// patching a task. Fields maps the offending field (json name) to a message.
type ValidationError struct {
	Kind   Kind
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	names := e.FieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}

	prefix := ErrValidation.Error()
	if e.Kind != "" {
		prefix += " (" + string(e.Kind) + ")"
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldNames returns the offending field names sorted.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the first offending field in sorted order, or "".
func (e *ValidationError) Field() string {
	names := e.FieldNames()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func fieldError(kind Kind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Fields: map[string]string{field: message}}
}

// toValidationError converts ozzo errors into a ValidationError. Internal
// (non validation) errors are returned untouched.
func toValidationError(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	out := &ValidationError{Kind: kind, Fields: map[string]string{}}

	var errs validation.Errors
	if errors.As(err, &errs) {
		flattenErrors("", errs, out.Fields)
		return out
	}

	out.Fields["_"] = err.Error()
	return out
}

func flattenErrors(prefix string, errs validation.Errors, into map[string]string) {
	for name, err := range errs {
		if err == nil {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flattenErrors(key, nested, into)
			continue
		}
		into[key] = err.Error()
	}
}

func mergeValidation(dst *ValidationError, err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	for k, v := range verr.Fields {
		dst.Fields[k] = v
	}
	return nil
}
