// Package storage defines the persistence ports of the musica API.
//
// Implementations:
//   - sqlite: the production store, backed by a SQLite database file
//   - memory: an in-memory store for tests
package storage
