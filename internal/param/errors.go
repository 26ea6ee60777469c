package param

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDefault is wrapped by InitDefaults when a declared parameter has no
// default value. It indicates a defect in the kind, not a usage error.
var ErrNoDefault = errors.New("declared parameter has no default")

// UnsetError reports a read of a parameter that holds no value.
type UnsetError struct {
	// Name is the requested parameter.
	Name string

	// Declared is true when the kind declares the parameter but it was
	// never set (or was purged).
	Declared bool
}

// Error implements the error interface.
func (e *UnsetError) Error() string {
	if e.Declared {
		return fmt.Sprintf("parameter %q is declared but not set", e.Name)
	}
	return fmt.Sprintf("parameter %q is not set", e.Name)
}

// IsUnset reports whether err is (or wraps) an *UnsetError.
func IsUnset(err error) bool {
	var ue *UnsetError
	return errors.As(err, &ue)
}

// DefaultsError lists the declared parameters InitDefaults could not fill.
type DefaultsError struct {
	Missing []string
}

func (e *DefaultsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNoDefault, strings.Join(e.Missing, ", "))
}

func (e *DefaultsError) Unwrap() error { return ErrNoDefault }
