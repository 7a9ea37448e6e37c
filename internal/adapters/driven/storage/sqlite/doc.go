// Package sqlite provides the persisted embedding index store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database file holds every index:
//
//   - indexes: one row per source with the embedding model and dimensions
//   - chunks: chunk text, metadata and little-endian float32 embeddings
//
// Indexes are append-only. Re-ingesting a source adds rows after the
// existing ones; nothing is replaced or deleted.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.argonaut/vector_db/index.db
//
// # Recovery
//
// A file that is not a SQLite database is moved aside and replaced by an
// empty store. Chunk rows that cannot be decoded are skipped on read.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
