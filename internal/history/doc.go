// Package history keeps a SQLite ledger of published documents: where each
// document went, how large it was and its SHA-256 digest.
package history
