// Package tablestore is the central row store behind the curation
// pipeline: versioned tabular data in SQL, one table per dataset, where
// every row carries a stable row_id and a row_version bumped on update.
//
// Snapshot reads a table into a rowset.Table with per-row identity and
// column kinds mapped from the SQL column types. Apply writes a
// reconcile.Batch back in a single transaction: deletes by identity pair,
// inserts for appends, and version-checked updates, giving
// optimistic-concurrency semantics per row.
//
// A TTL snapshot cache with singleflight stampede protection is provided
// for read-heavy callers such as the dashboard refresh.
package tablestore
