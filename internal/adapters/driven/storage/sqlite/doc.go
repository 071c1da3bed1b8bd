// Package sqlite provides a SQLite-based implementation of the PlanStore
// driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A plan row holds the
// queryable metadata columns (title, file name, word count, cache key) plus
// the complete plan as a JSON payload. Reprocessing a document fully
// replaces its row; there is no incremental update path.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.studyforge/data/plans.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
