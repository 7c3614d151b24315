package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the catalog and orders services. Handlers map
// these onto HTTP status codes; everything not wrapped in one of them is
// treated as a persistence failure.
var (
	// ErrValidation marks malformed input or a reference to an entity
	// (vendor id, product id) that does not exist.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a uniqueness or referential-integrity violation
	// (duplicate barcode, deleting a product with dependent order items).
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks an operation that targets a missing id.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a storage gateway failure. The attempted
	// mutation must be treated as not applied.
	ErrPersistence = errors.New("persistence error")
)

// Validationf wraps ErrValidation with a caller-facing detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a caller-facing detail message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a caller-facing detail message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Persistencef wraps ErrPersistence around a storage error.
func Persistencef(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// ErrorKind returns the metric/log label for a service error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "persistence"
	}
}
