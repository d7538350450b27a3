// Package pgstore is a PostgreSQL implementation of the identity store
// contract, built on pgx.
//
// Uniqueness lives in the schema: one account per email, one refresh record
// per (user, device) pair, refresh tokens unique by value. Token consumption
// uses DELETE ... RETURNING, so concurrent refreshes of one value resolve to
// a single winner inside the database.
//
// The store accepts any connection that satisfies [DatabaseIface]; production
// code passes a pgxpool.Pool, tests pass a pgxmock pool.
package pgstore
