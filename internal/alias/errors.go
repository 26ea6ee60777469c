package alias

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// Validation error codes (A100-A199)
const (
	ErrSchema         = "A101" // document violates the schema
	ErrSelfAlias      = "A102" // alias maps to itself
	ErrChainedAlias   = "A103" // alias target is itself an alias
	ErrDuplicateAlias = "A104" // two keys normalise to the same name
	ErrUnknownTarget  = "A105" // target is not a catalog name
)

// ValidationError describes one problem with an alias table.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// TableError collects every validation error of one document.
type TableError struct {
	Source string
	Errors []ValidationError
}

func (e *TableError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("alias table %s: %s", e.Source, strings.Join(msgs, "; "))
}

// cueErrors converts CUE evaluation errors into validation errors, one per
// underlying error, using the CUE path as the field.
func cueErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return []ValidationError{{Field: "cue", Message: err.Error(), Code: ErrSchema}}
	}
	out := make([]ValidationError, 0, len(errs))
	for _, e := range errs {
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "cue"
		}
		format, args := e.Msg()
		out = append(out, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    ErrSchema,
		})
	}
	return out
}
