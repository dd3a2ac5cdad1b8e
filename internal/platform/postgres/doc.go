// Package postgres provides PostgreSQL implementations of the store
// interfaces. Every store accepts a store.DBTX so the same implementation can
// run against a connection pool or inside a transaction via WithTx.
package postgres
