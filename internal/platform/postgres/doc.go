// Package postgres contains the PostgreSQL implementations of the
// persistence interfaces defined in internal/store.
package postgres
