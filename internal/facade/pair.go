package facade

import (
	"github.com/roach88/masa/internal/catalog"
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/registry"
)

// Pair bundles one façade per precision domain. The two share nothing:
// instances created through Double are invisible to Single.
type Pair struct {
	Double *Facade[float64]
	Single *Facade[float32]
}

// NewPair builds both façades over the built-in catalog with the same
// registry options.
func NewPair(opts ...registry.Option) *Pair {
	return &Pair{
		Double: New(registry.New(catalog.Default[float64](), opts...)),
		Single: New(registry.New(catalog.Default[float32](), opts...)),
	}
}

// Precisions lists the domains a Pair serves.
func (p *Pair) Precisions() []ir.Precision {
	return []ir.Precision{p.Double.Precision(), p.Single.Precision()}
}

// Close tears down both registries.
func (p *Pair) Close() {
	p.Double.Registry().Close()
	p.Single.Registry().Close()
}
