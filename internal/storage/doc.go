// Package storage persists the question collection.
//
// It currently supports:
//   - "file": a JSON array replaced atomically (tmp + rename) on every save
//   - "sqlite": a single table rewritten inside one transaction
package storage
