// Package repositories implements the opt-in SQLite archive of loaded dashboard snapshots.
//
// [SnapshotRepository] stores each snapshot as JSON together with a few summary columns used for listing.
// Entries are immutable; deletes are soft via deleted_at and deleted entries are excluded from queries.
//
// The archive is an export. Nothing in the dashboard reads it back into view state, and no credential is
// ever written to it.
//
// Sequence numbers provide stable, human-readable handles (e.g. snapshot #15) independent of UUIDs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
