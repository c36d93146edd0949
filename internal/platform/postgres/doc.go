// Package postgres provides PostgreSQL implementations of the interfaces in
// internal/store, plus the embedded schema migrations that create the
// contacts and tasks tables.
package postgres
