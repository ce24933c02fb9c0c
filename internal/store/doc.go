// Package store provides the SQL gateway that owns the durable mapping from
// canonical JSON value to registered id.
//
// The gateway exposes two operations: a single get-or-insert and a batch
// get-or-insert. Both are race safe under concurrent callers registering the
// same value: a uniqueness constraint on the value column guarantees exactly
// one row per canonical value, and losers of an insert race observe the
// winner's id. Ids are assigned by the database and never reassigned.
//
// Two dialects are supported through one database/sql pool:
//
//   - Postgres (pgx driver): single round trip per operation. The single
//     path is an insert-on-conflict CTE unioned with an existing-row lookup;
//     the batch path unnests the input WITH ORDINALITY, upserts, and joins
//     results back to input positions so output order matches input order.
//   - SQLite (mattn driver): the same insert-then-select contract executed
//     as separate statements, with batches wrapped in one transaction. The
//     pool is pinned to a single connection since SQLite allows one writer.
//
// Table and column names are interpolated into query text; callers must
// validate them (alphanumeric plus underscore) before constructing a
// gateway.
package store
