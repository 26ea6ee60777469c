package param

import (
	"fmt"
	"io"
	"slices"

	"github.com/roach88/masa/internal/ir"
)

// Entry is one row of an enumeration.
type Entry[S ir.Scalar] struct {
	Name     string `json:"name"`
	Value    S      `json:"value"`
	IsSet    bool   `json:"set"`
	Declared bool   `json:"declared"`
}

type declaration[S ir.Scalar] struct {
	name       string
	def        S
	hasDefault bool
}

// Store is a parameter bag keyed by case-sensitive name.
type Store[S ir.Scalar] struct {
	decls  []declaration[S]
	index  map[string]int // name -> position in decls
	values map[string]S
}

// New returns an empty store.
func New[S ir.Scalar]() *Store[S] {
	return &Store[S]{
		index:  make(map[string]int),
		values: make(map[string]S),
	}
}

// Declare registers a parameter with its documented default. Redeclaring a
// name replaces its default but keeps its original position.
func (s *Store[S]) Declare(name string, def S) {
	s.declare(declaration[S]{name: name, def: def, hasDefault: true})
}

// DeclareRequired registers a parameter that has no default. InitDefaults
// fails while such a parameter exists.
func (s *Store[S]) DeclareRequired(name string) {
	s.declare(declaration[S]{name: name})
}

func (s *Store[S]) declare(d declaration[S]) {
	if i, ok := s.index[d.name]; ok {
		s.decls[i] = d
		return
	}
	s.index[d.name] = len(s.decls)
	s.decls = append(s.decls, d)
}

// InitDefaults sets every declared parameter to its default. Parameters
// without a default are reported in a *DefaultsError; the others are still
// set.
func (s *Store[S]) InitDefaults() error {
	var missing []string
	for _, d := range s.decls {
		if !d.hasDefault {
			missing = append(missing, d.name)
			continue
		}
		s.values[d.name] = d.def
	}
	if len(missing) > 0 {
		return &DefaultsError{Missing: missing}
	}
	return nil
}

// Set stores v under name. Undeclared names are accepted and kept.
func (s *Store[S]) Set(name string, v S) {
	s.values[name] = v
}

// Get returns the value stored under name.
func (s *Store[S]) Get(name string) (S, error) {
	v, ok := s.values[name]
	if !ok {
		_, declared := s.index[name]
		return 0, &UnsetError{Name: name, Declared: declared}
	}
	return v, nil
}

// MustGet is like Get but panics when the parameter is unset. Formula
// bodies use it after SanityCheck has passed.
func (s *Store[S]) MustGet(name string) S {
	v, err := s.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// IsSet reports whether name currently holds a value.
func (s *Store[S]) IsSet(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Purge clears every value. Declarations survive.
func (s *Store[S]) Purge() {
	clear(s.values)
}

// Declared returns the declared names in declaration order.
func (s *Store[S]) Declared() []string {
	names := make([]string, len(s.decls))
	for i, d := range s.decls {
		names[i] = d.name
	}
	return names
}

// Missing returns the declared names that hold no value.
func (s *Store[S]) Missing() []string {
	var missing []string
	for _, d := range s.decls {
		if _, ok := s.values[d.name]; !ok {
			missing = append(missing, d.name)
		}
	}
	return missing
}

// Enumerate lists declared parameters in declaration order followed by
// undeclared values sorted by name.
func (s *Store[S]) Enumerate() []Entry[S] {
	entries := make([]Entry[S], 0, len(s.decls)+len(s.values))
	for _, d := range s.decls {
		v, ok := s.values[d.name]
		entries = append(entries, Entry[S]{Name: d.name, Value: v, IsSet: ok, Declared: true})
	}

	var extra []string
	for name := range s.values {
		if _, ok := s.index[name]; !ok {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		entries = append(entries, Entry[S]{Name: name, Value: s.values[name], IsSet: true})
	}
	return entries
}

// Snapshot returns the set values widened to float64, for hashing.
func (s *Store[S]) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = float64(v)
	}
	return out
}

// Display writes one "name = value" line per enumerated parameter.
func (s *Store[S]) Display(w io.Writer) error {
	for _, e := range s.Enumerate() {
		var err error
		if e.IsSet {
			_, err = fmt.Fprintf(w, "%s = %s\n", e.Name, ir.FormatScalar(e.Value))
		} else {
			_, err = fmt.Fprintf(w, "%s = <unset>\n", e.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
