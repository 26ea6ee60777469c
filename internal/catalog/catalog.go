package catalog

import (
	"errors"
	"fmt"
	"io"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/solution"
)

var (
	// ErrEmptyName is returned when a factory builds a kind without a
	// canonical name.
	ErrEmptyName = errors.New("kind has no canonical name")

	// ErrNilFactory is returned for an entry without a factory.
	ErrNilFactory = errors.New("catalog entry has no factory")

	// ErrUnknownKind is returned by Lookup for names absent from the table.
	ErrUnknownKind = errors.New("no kind with that canonical name")

	// ErrNameChanged is returned by Lookup when a factory no longer builds
	// the kind it was registered under.
	ErrNameChanged = errors.New("factory built a different kind than registered")
)

// Factory constructs one fresh instance of a kind.
type Factory[S ir.Scalar] func() solution.Solution[S]

// Entry registers one kind.
type Entry[S ir.Scalar] struct {
	Factory Factory[S]
	// Doc is an optional one-line description.
	Doc string
}

// Kind describes a registered kind for listings.
type Kind struct {
	Name      ir.KindName `json:"name"`
	Dimension int         `json:"dimension"`
	Params    []string    `json:"params"`
	Doc       string      `json:"doc,omitempty"`
}

// Catalog is an immutable, ordered table of kinds.
type Catalog[S ir.Scalar] struct {
	entries    []Entry[S]
	kinds      []Kind
	index      map[ir.KindName]int
	duplicates []ir.KindName
}

// New validates entries and builds the table. Every entry must produce a
// non-empty canonical name. When two entries share a name the first one
// wins; the later names are reported by Duplicates.
func New[S ir.Scalar](entries ...Entry[S]) (*Catalog[S], error) {
	c := &Catalog[S]{index: make(map[ir.KindName]int, len(entries))}
	for i, e := range entries {
		if e.Factory == nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, ErrNilFactory)
		}
		sample := e.Factory()
		name := sample.Name()
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d: %w", i, ErrEmptyName)
		}
		if _, dup := c.index[name]; dup {
			c.duplicates = append(c.duplicates, name)
			continue
		}
		c.index[name] = len(c.entries)
		c.entries = append(c.entries, e)
		c.kinds = append(c.kinds, Kind{
			Name:      name,
			Dimension: sample.Dimension(),
			Params:    sample.Params().Declared(),
			Doc:       e.Doc,
		})
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew[S ir.Scalar](entries ...Entry[S]) *Catalog[S] {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of distinct kinds.
func (c *Catalog[S]) Len() int { return len(c.entries) }

// Names returns the canonical names in declaration order.
func (c *Catalog[S]) Names() []ir.KindName {
	names := make([]ir.KindName, len(c.kinds))
	for i, k := range c.kinds {
		names[i] = k.Name
	}
	return names
}

// Kinds returns the kind descriptions in declaration order.
func (c *Catalog[S]) Kinds() []Kind {
	out := make([]Kind, len(c.kinds))
	copy(out, c.kinds)
	return out
}

// Duplicates returns the names of entries shadowed by an earlier entry.
func (c *Catalog[S]) Duplicates() []ir.KindName {
	return append([]ir.KindName(nil), c.duplicates...)
}

// Contains reports whether name is registered.
func (c *Catalog[S]) Contains(name ir.KindName) bool {
	_, ok := c.index[name]
	return ok
}

// Lookup returns a fresh instance of the kind registered under name.
func (c *Catalog[S]) Lookup(name ir.KindName) (solution.Solution[S], error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownKind)
	}
	sol := c.entries[i].Factory()
	if got := sol.Name(); got != name {
		return nil, fmt.Errorf("%q built %q: %w", name, got, ErrNameChanged)
	}
	return sol, nil
}

// Build returns one fresh instance per kind in declaration order.
func (c *Catalog[S]) Build() []solution.Solution[S] {
	out := make([]solution.Solution[S], len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Factory()
	}
	return out
}

const rule = "*-------------------------------------*"

// Print writes the human-readable listing of available kinds.
func (c *Catalog[S]) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "MASA :: Available Solutions:\n%s\n", rule); err != nil {
		return err
	}
	for _, k := range c.kinds {
		if _, err := fmt.Fprintln(w, k.Name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, rule)
	return err
}
