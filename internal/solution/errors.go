package solution

import (
	"errors"
	"fmt"

	"github.com/roach88/masa/internal/ir"
)

// UnsupportedError reports an evaluation the kind does not provide.
type UnsupportedError struct {
	Kind       ir.KindName
	Entrypoint ir.Entrypoint
	Detail     string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	msg := fmt.Sprintf("%s does not implement %s", e.Kind, e.Entrypoint.ID())
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// IsUnsupported reports whether err is (or wraps) an *UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

// CheckError reports a failed self-check.
type CheckError struct {
	Kind   ir.KindName
	Check  string
	Detail string
	Err    error
}

func (e *CheckError) Error() string {
	if e.Detail == "" && e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Kind, e.Check, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Kind, e.Check, e.Detail)
}

func (e *CheckError) Unwrap() error { return e.Err }

// IsCheckFailure reports whether err is (or wraps) a *CheckError.
func IsCheckFailure(err error) bool {
	var ce *CheckError
	return errors.As(err, &ce)
}
