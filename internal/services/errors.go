package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"yamdb/internal/permissions"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

var (
	// ErrNotFound is returned when a referenced user, title, review or other record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned when a confirmation code does not match.
	ErrInvalidCredentials = errors.New("invalid confirmation code")
	// ErrUnauthenticated is returned when a protected operation has no caller.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrPermissionDenied is returned when the caller lacks the role or ownership required.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	// ErrMailDelivery is returned when the confirmation email could not be sent.
	ErrMailDelivery = errors.New("failed to deliver email")
)

// ValidationError carries field-level input errors.
type ValidationError struct {
	Fields validation.Errors
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: validation.Errors{field: {msg}}}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validate(v *validation.Validator, s interface{}) error {
	if errs := v.Struct(s); errs != nil {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// notFound converts a repository miss into ErrNotFound and leaves other errors alone.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return err
}

// authorize checks policy and tells anonymous callers apart from unprivileged ones.
func authorize(policy permissions.Policy, req permissions.Request, obj permissions.Owned) error {
	if policy.Allows(req, obj) {
		return nil
	}
	if !req.Authenticated() {
		return ErrUnauthenticated
	}
	return ErrPermissionDenied
}
