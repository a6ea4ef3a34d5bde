// Package queue persists subtitle sync tasks and the per-directory sync
// ledger in SQLite.
//
// Tasks move pending → syncing → {synced, skipped, failed}; the store claims
// work atomically so the daemon and CLI can share the database. The ledger
// records completed (subtitle, video) pairs per directory so library rescans
// skip files that were already aligned.
package queue
