// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. Every store accepts a store.DBTX so
// it can run against the pool or inside a caller's transaction, and maps
// driver errors onto the store sentinels with MapError.
//
// The schema lives in the migrations subpackage and is applied with goose.
package postgres
