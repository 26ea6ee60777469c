// Package catalog is the static registration table of solution kinds.
//
// A Catalog is built once from factories in declaration order: diagnostic
// kinds first, then physical families grouped by equation and
// dimensionality. Construction builds every factory once to learn its
// canonical name, so lookups never allocate throwaway candidates. Each
// Lookup or Build call returns freshly constructed instances.
//
// A catalog is bound to one precision domain through its type parameter.
package catalog
