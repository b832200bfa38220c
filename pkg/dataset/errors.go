package dataset

import (
	"errors"
	"fmt"
)

// Permission refusals. PermissionError wraps one of these.
var (
	ErrReadOnly     = errors.New("read only")
	ErrCannotAdd    = errors.New("rows cannot be added")
	ErrCannotRemove = errors.New("row cannot be removed")
	ErrUnknownField = errors.New("unknown field")
	ErrRowNotFound  = errors.New("row not found")
	ErrNoIDField    = errors.New("dataset has no id field")
)

// ValidationError reports a value or row rejected by a validator. Its
// message is meant to be shown next to the offending cell.
type ValidationError struct {
	Field   string // empty for row-level failures
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PermissionError reports a mutation refused by the dataset's
// can_* policy or by a read-only row or field.
type PermissionError struct {
	Op  string
	Err error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// Invalid builds a ValidationError for use in custom validators.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermission reports whether err is a PermissionError.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
