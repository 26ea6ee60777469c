package ir

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"
)

// Scalar constrains the floating-point types a precision domain may use.
type Scalar interface {
	~float32 | ~float64
}

// Precision tags a numeric domain. Registries, catalogs and instances are
// never shared between precisions.
type Precision string

const (
	// PrecisionDouble is the float64 domain.
	PrecisionDouble Precision = "double"

	// PrecisionSingle is the float32 domain.
	PrecisionSingle Precision = "single"
)

// ValidPrecisions lists the supported domains in display order.
var ValidPrecisions = []Precision{PrecisionDouble, PrecisionSingle}

// PrecisionOf returns the domain tag for scalar type S.
func PrecisionOf[S Scalar]() Precision {
	var zero S
	if unsafe.Sizeof(zero) == 4 {
		return PrecisionSingle
	}
	return PrecisionDouble
}

// ParsePrecision parses a precision flag value.
func ParsePrecision(s string) (Precision, error) {
	p := Precision(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ValidPrecisions {
		if p == v {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid precision %q: must be one of %v", s, ValidPrecisions)
}

// UserName is the caller-chosen name of an instance inside one registry.
type UserName string

// KindName is the canonical catalog name of a solution kind.
type KindName string

// Field identifies the physical quantity an evaluation refers to.
type Field string

const (
	FieldT     Field = "t"      // temperature
	FieldU     Field = "u"      // x velocity (or momentum source in 1D Euler)
	FieldV     Field = "v"      // y velocity (SA working variable in 1D)
	FieldW     Field = "w"      // z velocity
	FieldE     Field = "e"      // total energy
	FieldP     Field = "p"      // pressure
	FieldRho   Field = "rho"    // density
	FieldRhoU  Field = "rho_u"  // x momentum
	FieldRhoV  Field = "rho_v"  // y momentum
	FieldRhoW  Field = "rho_w"  // z momentum
	FieldRhoE  Field = "rho_e"  // energy density
	FieldRhoN  Field = "rho_N"  // atomic nitrogen density
	FieldRhoN2 Field = "rho_N2" // molecular nitrogen density
)

// Fields lists every known field in declaration order.
var Fields = []Field{
	FieldT, FieldU, FieldV, FieldW, FieldE, FieldP, FieldRho,
	FieldRhoU, FieldRhoV, FieldRhoW, FieldRhoE, FieldRhoN, FieldRhoN2,
}

// ParseField parses a field name. Field names are case-sensitive.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Term identifies the family of an evaluation.
type Term string

const (
	TermSource   Term = "source"
	TermExact    Term = "exact"
	TermGradient Term = "grad"
)

// ValidTerms lists the evaluation families.
var ValidTerms = []Term{TermSource, TermExact, TermGradient}

// ParseTerm parses a term family name.
func ParseTerm(s string) (Term, error) {
	for _, t := range ValidTerms {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown term %q: must be one of %v", s, ValidTerms)
}

// Binding pairs an instance name with the canonical kind it was built from.
type Binding struct {
	User UserName `json:"user_name"`
	Kind KindName `json:"kind_name"`
}

// FormatScalar renders v in the shortest form that round-trips at the
// width of S.
func FormatScalar[S Scalar](v S) string {
	bits := 64
	if PrecisionOf[S]() == PrecisionSingle {
		bits = 32
	}
	return strconv.FormatFloat(float64(v), 'g', -1, bits)
}
