package registry

import (
	"errors"
	"fmt"

	"github.com/roach88/masa/internal/catalog"
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/param"
	"github.com/roach88/masa/internal/solution"
)

// Code categorizes registry failures.
type Code string

const (
	// CodeUnknownKind indicates Initialize was given a kind absent from
	// the catalog after aliasing.
	CodeUnknownKind Code = "UNKNOWN_KIND"

	// CodeUnknownInstance indicates Select was given a name never
	// initialized.
	CodeUnknownInstance Code = "UNKNOWN_INSTANCE"

	// CodeNoActiveInstance indicates a forwarding call before any
	// successful Initialize or Select.
	CodeNoActiveInstance Code = "NO_ACTIVE_INSTANCE"

	// CodeUnsetParameter indicates a read of a parameter never set.
	CodeUnsetParameter Code = "UNSET_PARAMETER"

	// CodeCatalogIntegrity indicates a defect in a kind or the catalog.
	CodeCatalogIntegrity Code = "CATALOG_INTEGRITY"

	// CodeUnsupportedTerm indicates the active kind lacks an evaluation.
	CodeUnsupportedTerm Code = "UNSUPPORTED_TERM"

	// CodeCheckFailed indicates a self-check did not pass.
	CodeCheckFailed Code = "CHECK_FAILED"

	// CodeInvalidCall indicates an evaluation call the dispatch surface
	// cannot accept: an unknown entry point, a wrong argument count or a
	// malformed axis.
	CodeInvalidCall Code = "INVALID_CALL"
)

// Error is the single failure type of the registry and façade.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Name is the user or kind name involved, if any.
	Name string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the process exit status for the failure. Every class is
// fatal and maps to 1.
func (e *Error) ExitCode() int { return 1 }

// CodeOf returns the Code of err, or "" when err is not a registry error.
func CodeOf(err error) Code {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

func hasCode(err error, code Code) bool { return CodeOf(err) == code }

// IsUnknownKind returns true if err is an unknown-kind failure.
func IsUnknownKind(err error) bool { return hasCode(err, CodeUnknownKind) }

// IsUnknownInstance returns true if err is an unknown-instance failure.
func IsUnknownInstance(err error) bool { return hasCode(err, CodeUnknownInstance) }

// IsNoActive returns true if err is a no-active-instance failure.
func IsNoActive(err error) bool { return hasCode(err, CodeNoActiveInstance) }

// IsUnsetParameter returns true if err is an unset-parameter failure.
func IsUnsetParameter(err error) bool { return hasCode(err, CodeUnsetParameter) }

// IsCatalogIntegrity returns true if err is a catalog-integrity failure.
func IsCatalogIntegrity(err error) bool { return hasCode(err, CodeCatalogIntegrity) }

// IsUnsupported returns true if err is an unsupported-term failure.
func IsUnsupported(err error) bool { return hasCode(err, CodeUnsupportedTerm) }

// IsInvalidCall returns true if err is an invalid-call failure.
func IsInvalidCall(err error) bool { return hasCode(err, CodeInvalidCall) }

// NewInvalidCall wraps a malformed evaluation call of entry point name.
func NewInvalidCall(name string, cause error) *Error {
	return &Error{Code: CodeInvalidCall, Message: cause.Error(), Name: name, Err: cause}
}

// NewUnknownKind creates the failure for an unresolvable kind name.
func NewUnknownKind(requested string, resolved ir.KindName) *Error {
	msg := fmt.Sprintf("no manufactured solution named %q found", requested)
	if string(resolved) != requested {
		msg = fmt.Sprintf("no manufactured solution named %q (resolved to %q) found", requested, resolved)
	}
	return &Error{Code: CodeUnknownKind, Message: msg, Name: requested}
}

// NewUnknownInstance creates the failure for Select on an unknown name.
func NewUnknownInstance(user ir.UserName) *Error {
	return &Error{
		Code:    CodeUnknownInstance,
		Message: "no such manufactured solution has been initialized",
		Name:    string(user),
	}
}

// NewNoActive creates the failure for a call with nothing active.
func NewNoActive() *Error {
	return &Error{
		Code:    CodeNoActiveInstance,
		Message: "no initialized manufactured solution; call Initialize first",
	}
}

// Classify converts any error from the catalog, a parameter store or a
// solution into a *Error. Errors that already are *Error pass through.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return re
	}

	var ue *param.UnsetError
	var ce *solution.CheckError
	switch {
	case errors.As(err, &ue):
		return &Error{Code: CodeUnsetParameter, Message: err.Error(), Name: ue.Name, Err: err}
	case errors.Is(err, param.ErrNoDefault):
		// A kind whose defaults do not cover its declarations is defective.
		return &Error{Code: CodeCatalogIntegrity, Message: err.Error(), Err: err}
	case solution.IsUnsupported(err):
		return &Error{Code: CodeUnsupportedTerm, Message: err.Error(), Err: err}
	case errors.As(err, &ce):
		return &Error{Code: CodeCheckFailed, Message: err.Error(), Name: string(ce.Kind), Err: err}
	case errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrNilFactory),
		errors.Is(err, catalog.ErrNameChanged):
		return &Error{Code: CodeCatalogIntegrity, Message: err.Error(), Err: err}
	case errors.Is(err, catalog.ErrUnknownKind):
		return &Error{Code: CodeUnknownKind, Message: err.Error(), Err: err}
	}
	return &Error{Code: CodeCatalogIntegrity, Message: err.Error(), Err: err}
}
