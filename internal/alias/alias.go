package alias

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/masa/internal/ir"
)

//go:embed schema.cue
var schemaSource string

//go:embed aliases.yaml
var defaultTable []byte

// Mapper resolves a possibly user-facing name to a canonical kind name.
// Implementations must be pure.
type Mapper interface {
	Map(name string) ir.KindName
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(name string) ir.KindName

// Map implements Mapper.
func (f MapperFunc) Map(name string) ir.KindName { return f(name) }

// Identity maps every name to itself after normalisation.
var Identity Mapper = MapperFunc(func(name string) ir.KindName {
	return ir.KindName(Normalize(name))
})

// Normalize trims surrounding space and applies Unicode NFC.
func Normalize(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Alias is one table row.
type Alias struct {
	From string      `json:"from"`
	To   ir.KindName `json:"to"`
}

// Table is a validated alias table.
type Table struct {
	version string
	source  string
	entries map[string]ir.KindName
}

// document is the YAML shape of a table.
type document struct {
	Version string            `yaml:"version" json:"version"`
	Aliases map[string]string `yaml:"aliases" json:"aliases"`
}

// Default returns the embedded table.
func Default() *Table {
	t, err := Parse(defaultTable, "aliases.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded alias table: %v", err))
	}
	return t
}

// Load reads and validates a table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a table. Unknown YAML fields are rejected.
// All validation problems are reported together in a *TableError.
func Parse(data []byte, source string) (*Table, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse alias table %s: %w", source, err)
	}

	if errs := validateSchema(doc); len(errs) > 0 {
		return nil, &TableError{Source: source, Errors: errs}
	}

	t := &Table{version: doc.Version, source: source, entries: make(map[string]ir.KindName, len(doc.Aliases))}
	var errs []ValidationError
	for _, from := range sortedKeys(doc.Aliases) {
		key := Normalize(from)
		to := ir.KindName(Normalize(doc.Aliases[from]))
		if _, dup := t.entries[key]; dup {
			errs = append(errs, ValidationError{
				Field:   "aliases." + from,
				Message: fmt.Sprintf("normalises to %q, which is already defined", key),
				Code:    ErrDuplicateAlias,
			})
			continue
		}
		if string(to) == key {
			errs = append(errs, ValidationError{
				Field:   "aliases." + from,
				Message: "alias maps to itself",
				Code:    ErrSelfAlias,
			})
			continue
		}
		t.entries[key] = to
	}
	for _, a := range t.Entries() {
		if _, chained := t.entries[string(a.To)]; chained {
			errs = append(errs, ValidationError{
				Field:   "aliases." + a.From,
				Message: fmt.Sprintf("target %q is itself an alias", a.To),
				Code:    ErrChainedAlias,
			})
		}
	}
	if len(errs) > 0 {
		return nil, &TableError{Source: source, Errors: errs}
	}
	return t, nil
}

func validateSchema(doc document) []ValidationError {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cueErrors(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Table"))
	if doc.Aliases == nil {
		doc.Aliases = map[string]string{}
	}
	v := def.Unify(ctx.Encode(doc))
	return cueErrors(v.Validate(cue.Concrete(true)))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Map implements Mapper. Names without an entry are returned unchanged
// (after normalisation).
func (t *Table) Map(name string) ir.KindName {
	key := Normalize(name)
	if to, ok := t.entries[key]; ok {
		return to
	}
	return ir.KindName(key)
}

// Version returns the table's schema version.
func (t *Table) Version() string { return t.version }

// Source returns where the table was loaded from.
func (t *Table) Source() string { return t.source }

// Len returns the number of aliases.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the aliases sorted by source name.
func (t *Table) Entries() []Alias {
	out := make([]Alias, 0, len(t.entries))
	for from, to := range t.entries {
		out = append(out, Alias{From: from, To: to})
	}
	slices.SortFunc(out, func(a, b Alias) int { return strings.Compare(a.From, b.From) })
	return out
}

// Check reports every alias whose target known rejects. Registries use it
// to warn about tables written for a different catalog.
func (t *Table) Check(known func(ir.KindName) bool) []ValidationError {
	var errs []ValidationError
	for _, a := range t.Entries() {
		if !known(a.To) {
			errs = append(errs, ValidationError{
				Field:   "aliases." + a.From,
				Message: fmt.Sprintf("target %q is not in the catalog", a.To),
				Code:    ErrUnknownTarget,
			})
		}
	}
	return errs
}
