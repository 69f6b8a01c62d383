package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the dataset in a SQLite database. Save replaces the
// whole document inside one SQL transaction, matching the save-on-quit
// lifecycle of the JSON backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, amount, entry_type, status, date_incurred, comments, tags
		 FROM ledger_entries ORDER BY date_incurred`)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e                            core.LedgerEntry
			amount, kind, status, incurred, tags string
		)
		if err := rows.Scan(&e.ID, &e.Label, &amount, &kind, &status, &incurred, &e.Comments, &tags); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse entry amount %q: %w", amount, err)
		}
		if e.DateIncurred, err = parseTimestamp(incurred); err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", incurred, err)
		}
		e.Kind = core.EntryKind(kind)
		e.Status = core.EntryStatus(status)
		if e.Tags, err = decodeTags(tags); err != nil {
			return nil, fmt.Errorf("parse entry tags: %w", err)
		}
		ds.Entries = append(ds.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	txRows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_id, transaction_type, amount, label, date_paid, comments, tags
		 FROM transactions ORDER BY date_paid`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer txRows.Close()
	for txRows.Next() {
		var (
			t                        core.Transaction
			amount, kind, paid, tags string
		)
		if err := txRows.Scan(&t.ID, &t.EntryID, &kind, &amount, &t.Label, &paid, &t.Comments, &tags); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse transaction amount %q: %w", amount, err)
		}
		if t.DatePaid, err = parseTimestamp(paid); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", paid, err)
		}
		t.Kind = core.TransactionKind(kind)
		if t.Tags, err = decodeTags(tags); err != nil {
			return nil, fmt.Errorf("parse transaction tags: %w", err)
		}
		ds.Transactions = append(ds.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	jRows, err := s.db.QueryContext(ctx,
		`SELECT id, content, date_created, tags FROM journal_entries ORDER BY date_created`)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer jRows.Close()
	for jRows.Next() {
		var (
			j             core.JournalEntry
			created, tags string
		)
		if err := jRows.Scan(&j.ID, &j.Content, &created, &tags); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		if j.DateCreated, err = parseTimestamp(created); err != nil {
			return nil, fmt.Errorf("parse journal date %q: %w", created, err)
		}
		if j.Tags, err = decodeTags(tags); err != nil {
			return nil, fmt.Errorf("parse journal tags: %w", err)
		}
		ds.Journal = append(ds.Journal, j)
	}
	if err := jRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}

	nRows, err := s.db.QueryContext(ctx,
		`SELECT id, net_position, date_recorded FROM net_worth_snapshots ORDER BY date_recorded`)
	if err != nil {
		return nil, fmt.Errorf("query net worth snapshots: %w", err)
	}
	defer nRows.Close()
	for nRows.Next() {
		var (
			snap               core.NetWorthSnapshot
			position, recorded string
		)
		if err := nRows.Scan(&snap.ID, &position, &recorded); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.NetPosition, err = decimal.NewFromString(position); err != nil {
			return nil, fmt.Errorf("parse snapshot position %q: %w", position, err)
		}
		if snap.DateRecorded, err = parseTimestamp(recorded); err != nil {
			return nil, fmt.Errorf("parse snapshot date %q: %w", recorded, err)
		}
		ds.Snapshots = append(ds.Snapshots, snap)
	}
	if err := nRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	slog.InfoContext(ctx, "Data loaded from SQLite",
		"entries", len(ds.Entries),
		"transactions", len(ds.Transactions),
		"journal_entries", len(ds.Journal),
		"snapshots", len(ds.Snapshots))
	return ds, nil
}

func (s *SQLiteStore) Save(ctx context.Context, ds *Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"ledger_entries", "transactions", "journal_entries", "net_worth_snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, e := range ds.Entries {
		tags, err := encodeTags(e.Tags)
		if err != nil {
			return fmt.Errorf("encode entry tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (id, label, amount, entry_type, status, date_incurred, comments, tags)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Label, e.Amount.String(), string(e.Kind), string(e.Status),
			formatTimestamp(e.DateIncurred), e.Comments, tags); err != nil {
			return fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
		}
	}

	for _, t := range ds.Transactions {
		tags, err := encodeTags(t.Tags)
		if err != nil {
			return fmt.Errorf("encode transaction tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, entry_id, transaction_type, amount, label, date_paid, comments, tags)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.EntryID, string(t.Kind), t.Amount.String(), t.Label,
			formatTimestamp(t.DatePaid), t.Comments, tags); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	for _, j := range ds.Journal {
		tags, err := encodeTags(j.Tags)
		if err != nil {
			return fmt.Errorf("encode journal tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO journal_entries (id, content, date_created, tags) VALUES (?, ?, ?, ?)`,
			j.ID, j.Content, formatTimestamp(j.DateCreated), tags); err != nil {
			return fmt.Errorf("insert journal entry %s: %w", j.ID, err)
		}
	}

	for _, snap := range ds.Snapshots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO net_worth_snapshots (id, net_position, date_recorded) VALUES (?, ?, ?)`,
			snap.ID, snap.NetPosition.String(), formatTimestamp(snap.DateRecorded)); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", snap.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Data saved to SQLite",
		"entries", len(ds.Entries),
		"transactions", len(ds.Transactions))
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func encodeTags(tags []string) (string, error) {
	raw, err := json.Marshal(tagsOrEmpty(tags))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tagsOrEmpty(tags), nil
}
