// Package storage persists the full application dataset as a document:
// either a single JSON file (the compatibility format for existing saves)
// or a SQLite database. Both backends load and save the whole dataset at
// once, matching the load-on-startup / save-on-quit lifecycle.
package storage

import (
	"context"

	"copilot/internal/core"
)

// Dataset bundles every collection the application owns.
type Dataset struct {
	Entries      []core.LedgerEntry
	Transactions []core.Transaction
	Journal      []core.JournalEntry
	Snapshots    []core.NetWorthSnapshot
}

// Store is the persistence port. Load never fails on a missing or empty
// file; it returns an empty dataset so a first run starts clean.
type Store interface {
	Load(ctx context.Context) (*Dataset, error)
	Save(ctx context.Context, ds *Dataset) error
	Close() error
}
