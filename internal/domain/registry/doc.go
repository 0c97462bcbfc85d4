// Package registry owns the authoritative in-memory product list for a
// running gallery and keeps it mirrored into the persisted store.
//
// Data source precedence:
//   - A non-empty persisted list is adopted verbatim; the catalog is not
//     contacted. Local edits always win over the remote catalog.
//   - Otherwise the catalog is fetched once and its result (possibly
//     empty) becomes the persisted baseline.
//   - Reload fetches again but only replaces the list when the Confirmer
//     accepts the fetched result.
//
// Every mutation overwrites the whole persisted list. New and demo items
// are prepended; updates keep position and id. Update of an unknown id is
// a silent no-op, delete of an unknown id leaves the list unchanged.
//
// Subscribers receive an Event after each change so views can re-render.
//
// Example Usage:
//
//	reg := registry.New(productStore, catalogClient, registry.WithLogger(logger))
//	origin, err := reg.Initialize(ctx)
//	p, err := reg.Create(ctx, fields)
//	matches := reg.Find("jacket")
package registry
