package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/roach88/masa/internal/alias"
	"github.com/roach88/masa/internal/catalog"
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/solution"
)

// Releaser is implemented by instances that hold resources to free when
// the registry drops them.
type Releaser interface {
	Release()
}

// Registry owns the named instances of one precision domain.
type Registry[S ir.Scalar] struct {
	catalog   *catalog.Catalog[S]
	aliaser   alias.Mapper
	logger    *slog.Logger
	diag      io.Writer
	failer    failer
	instances map[ir.UserName]solution.Solution[S]
	kinds     map[ir.UserName]ir.KindName
	active    ir.UserName
	hasActive bool
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	aliaser alias.Mapper
	logger  *slog.Logger
	diag    io.Writer
	policy  Policy
	exit    func(int)
}

// WithAliaser sets the name-aliasing collaborator.
//
// Default: alias.Default(), the embedded alias table.
func WithAliaser(m alias.Mapper) Option {
	return func(o *options) { o.aliaser = m }
}

// WithLogger sets the structured logger.
//
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDiagnostics sets where human-readable diagnostics (the name listing
// printed by a failed Select, abort messages) are written.
//
// Default: os.Stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(o *options) { o.diag = w }
}

// WithPolicy sets how failures surface.
//
// Default: PolicyReturn.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithExitFunc replaces os.Exit for PolicyExit. Tests use it to observe
// the exit code.
func WithExitFunc(exit func(int)) Option {
	return func(o *options) { o.exit = exit }
}

// New creates an empty registry over cat.
func New[S ir.Scalar](cat *catalog.Catalog[S], opts ...Option) *Registry[S] {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		diag:   os.Stderr,
		policy: PolicyReturn,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.aliaser == nil {
		o.aliaser = alias.Default()
	}
	logger := o.logger.With("precision", string(ir.PrecisionOf[S]()))

	r := &Registry[S]{
		catalog:   cat,
		aliaser:   o.aliaser,
		logger:    logger,
		diag:      o.diag,
		failer:    failer{policy: o.policy, exit: o.exit, diag: o.diag, logger: logger},
		instances: make(map[ir.UserName]solution.Solution[S]),
		kinds:     make(map[ir.UserName]ir.KindName),
	}

	for _, dup := range cat.Duplicates() {
		logger.Warn("duplicate kind name in catalog; first entry wins", "kind", dup)
	}
	if tbl, ok := o.aliaser.(*alias.Table); ok {
		for _, ve := range tbl.Check(cat.Contains) {
			logger.Warn("alias target not in catalog", "field", ve.Field, "message", ve.Message)
		}
	}
	return r
}

// Precision returns the domain of this registry.
func (r *Registry[S]) Precision() ir.Precision { return ir.PrecisionOf[S]() }

// Catalog returns the catalog instances are built from.
func (r *Registry[S]) Catalog() *catalog.Catalog[S] { return r.catalog }

// Policy returns the configured failure policy.
func (r *Registry[S]) Policy() Policy { return r.failer.policy }

// Fail classifies err and applies the registry's failure policy. The
// façade routes every forwarded failure through it.
func (r *Registry[S]) Fail(err error) error { return r.failer.fail(err) }

// Initialize resolves kind through the aliaser, builds a fresh instance,
// stores it under user (releasing any instance previously stored there)
// and makes it active. On failure the mapping and active reference are
// unchanged.
func (r *Registry[S]) Initialize(user ir.UserName, kind string) (solution.Solution[S], error) {
	resolved := r.aliaser.Map(kind)
	sol, err := r.catalog.Lookup(resolved)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownKind) {
			return nil, r.failer.fail(NewUnknownKind(kind, resolved))
		}
		return nil, r.failer.fail(err)
	}
	if sol.Name() == "" {
		return nil, r.failer.fail(&Error{
			Code:    CodeCatalogIntegrity,
			Message: "manufactured solution has no name",
			Name:    string(resolved),
		})
	}

	if old, ok := r.instances[user]; ok {
		r.release(user, old)
	}
	r.instances[user] = sol
	r.kinds[user] = sol.Name()
	r.active, r.hasActive = user, true

	r.logger.Debug("instance initialized",
		"user", string(user),
		"kind", string(sol.Name()),
		"requested", kind,
	)
	return sol, nil
}

func (r *Registry[S]) release(user ir.UserName, sol solution.Solution[S]) {
	if rel, ok := sol.(Releaser); ok {
		rel.Release()
	}
	r.logger.Debug("instance released", "user", string(user), "kind", string(sol.Name()))
}

// Select makes the instance stored under user active and reports the
// selection on the diagnostics writer. For an unknown name the current
// name listing is written there instead.
func (r *Registry[S]) Select(user ir.UserName) error {
	if _, ok := r.instances[user]; !ok {
		fmt.Fprintf(r.diag, "MASA :: no manufactured solution named %q has been initialized\n", user)
		_ = r.PrintList(r.diag)
		return r.failer.fail(NewUnknownInstance(user))
	}
	r.active, r.hasActive = user, true
	fmt.Fprintf(r.diag, "MASA :: selected %s\n", user)
	r.logger.Debug("instance selected", "user", string(user), "kind", string(r.kinds[user]))
	return nil
}

// Active returns the active instance.
func (r *Registry[S]) Active() (solution.Solution[S], error) {
	if !r.hasActive {
		return nil, r.failer.fail(NewNoActive())
	}
	return r.instances[r.active], nil
}

// ActiveName returns the user name of the active instance.
func (r *Registry[S]) ActiveName() (ir.UserName, bool) {
	return r.active, r.hasActive
}

// List returns every (user name, kind name) pair sorted by user name.
func (r *Registry[S]) List() []ir.Binding {
	out := make([]ir.Binding, 0, len(r.kinds))
	for user, kind := range r.kinds {
		out = append(out, ir.Binding{User: user, Kind: kind})
	}
	slices.SortFunc(out, func(a, b ir.Binding) int {
		return strings.Compare(string(a.User), string(b.User))
	})
	return out
}

// Count returns the number of owned instances.
func (r *Registry[S]) Count() int { return len(r.instances) }

// PrintList writes the count followed by one "user : kind" line per
// instance.
func (r *Registry[S]) PrintList(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Number of initialized solutions: %d\n", r.Count()); err != nil {
		return err
	}
	for _, b := range r.List() {
		if _, err := fmt.Fprintf(w, "  %s : %s\n", b.User, b.Kind); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every instance and clears the active reference.
func (r *Registry[S]) Close() {
	for _, b := range r.List() {
		r.release(b.User, r.instances[b.User])
	}
	clear(r.instances)
	clear(r.kinds)
	r.active, r.hasActive = "", false
}
