// Package storage provides the persisted key-value store behind the gallery.
//
// The store mirrors the semantics of a browser's origin-scoped key-value
// storage: string keys, string values, whole-value overwrites.
//
// Backends:
//   - Memory: process-local, used for tests and ephemeral runs
//   - SQLite: single-file persistence via modernc.org/sqlite (pure Go)
//
// Typed views:
//   - ProductStore: the product list under KeyProducts, JSON encoded
//     with bytedance/sonic. Load fails open: a missing, unreadable or
//     malformed value yields LoadEmpty instead of an error.
//
// Known limitation: there is no cross-process locking. Two writers share
// the last-write-wins behavior of the browser store this replaces.
//
// Example Usage:
//
//	kv, err := storage.OpenSQLite(ctx, "/var/lib/gallery/gallery.db")
//	products := storage.NewProductStore(kv, logger)
//	res := products.Load(ctx)
package storage
