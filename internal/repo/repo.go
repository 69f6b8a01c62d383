// Package repo holds the in-memory record collections behind the ledger.
// Each repository generates identifiers and timestamps on add and offers
// linear-scan lookups; business rules live in the services layer.
package repo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"copilot/internal/core"
)

var ErrNotFound = errors.New("not found")

// Ledger stores debt and loan entries.
type Ledger struct {
	mu      sync.Mutex
	entries []core.LedgerEntry
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add validates and appends a new entry with a generated id, current UTC
// timestamp and active status.
func (l *Ledger) Add(label string, amount decimal.Decimal, kind core.EntryKind, comments string, tags []string) (core.LedgerEntry, error) {
	e := core.LedgerEntry{
		ID:           uuid.NewString(),
		Label:        label,
		Amount:       amount,
		Kind:         kind,
		Status:       core.StatusActive,
		DateIncurred: time.Now().UTC(),
		Comments:     comments,
		Tags:         core.NormalizeTags(tags),
	}
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("add ledger entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return e, nil
}

func (l *Ledger) All() []core.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.LedgerEntry(nil), l.entries...)
}

func (l *Ledger) ByID(id string) (core.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return core.LedgerEntry{}, ErrNotFound
}

// ByIDPrefix resolves the short ids shown in listings. The first match wins.
func (l *Ledger) ByIDPrefix(prefix string) (core.LedgerEntry, error) {
	if prefix == "" {
		return core.LedgerEntry{}, ErrNotFound
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if strings.HasPrefix(e.ID, prefix) {
			return e, nil
		}
	}
	return core.LedgerEntry{}, ErrNotFound
}

// Update replaces the stored entry with the same id.
func (l *Ledger) Update(entry core.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("update ledger entry: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == entry.ID {
			l.entries[i] = entry
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the entry with the given id. Removing an entry does not
// touch its transactions; callers cascade via Transactions.DeleteForEntry.
func (l *Ledger) Delete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceAll swaps in a hydrated collection, used on load.
func (l *Ledger) ReplaceAll(entries []core.LedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]core.LedgerEntry(nil), entries...)
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Transactions stores payments and repayments.
type Transactions struct {
	mu   sync.Mutex
	txns []core.Transaction
}

func NewTransactions() *Transactions {
	return &Transactions{}
}

func (r *Transactions) Add(entryID string, amount decimal.Decimal, kind core.TransactionKind, label, comments string, tags []string) (core.Transaction, error) {
	t := core.Transaction{
		ID:       uuid.NewString(),
		EntryID:  entryID,
		Kind:     kind,
		Amount:   amount,
		Label:    label,
		DatePaid: time.Now().UTC(),
		Comments: comments,
		Tags:     core.NormalizeTags(tags),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append(r.txns, t)
	return t, nil
}

func (r *Transactions) All() []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Transaction(nil), r.txns...)
}

func (r *Transactions) ByID(id string) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (r *Transactions) ByIDPrefix(prefix string) (core.Transaction, error) {
	if prefix == "" {
		return core.Transaction{}, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txns {
		if strings.HasPrefix(t.ID, prefix) {
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

// ForEntry returns all transactions referencing the given entry.
func (r *Transactions) ForEntry(entryID string) []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Transaction
	for _, t := range r.txns {
		if t.EntryID == entryID {
			out = append(out, t)
		}
	}
	return out
}

func (r *Transactions) Update(txn core.Transaction) error {
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.txns {
		if t.ID == txn.ID {
			r.txns[i] = txn
			return nil
		}
	}
	return ErrNotFound
}

func (r *Transactions) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.txns {
		if t.ID == id {
			r.txns = append(r.txns[:i], r.txns[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteForEntry removes every transaction referencing the given entry and
// returns how many were removed. Used for cascade delete.
func (r *Transactions) DeleteForEntry(entryID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.txns[:0]
	removed := 0
	for _, t := range r.txns {
		if t.EntryID == entryID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.txns = kept
	return removed
}

func (r *Transactions) ReplaceAll(txns []core.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append([]core.Transaction(nil), txns...)
}

func (r *Transactions) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = nil
}

// Journal stores free-text notes unrelated to the ledger.
type Journal struct {
	mu      sync.Mutex
	entries []core.JournalEntry
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) Add(content string, tags []string) (core.JournalEntry, error) {
	e := core.JournalEntry{
		ID:          uuid.NewString(),
		Content:     content,
		DateCreated: time.Now().UTC(),
		Tags:        core.NormalizeTags(tags),
	}
	if err := e.Validate(); err != nil {
		return core.JournalEntry{}, fmt.Errorf("add journal entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return e, nil
}

// All returns entries newest first.
func (j *Journal) All() []core.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := append([]core.JournalEntry(nil), j.entries...)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].DateCreated.After(out[b].DateCreated)
	})
	return out
}

func (j *Journal) Delete(id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, e := range j.entries {
		if e.ID == id {
			j.entries = append(j.entries[:i], j.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (j *Journal) ReplaceAll(entries []core.JournalEntry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append([]core.JournalEntry(nil), entries...)
}

func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// NetWorth stores net-position snapshots. Append-only: snapshots are point
// samples for trend charting and have no edit or delete operation.
type NetWorth struct {
	mu        sync.Mutex
	snapshots []core.NetWorthSnapshot
}

func NewNetWorth() *NetWorth {
	return &NetWorth{}
}

func (n *NetWorth) Add(netPosition decimal.Decimal) core.NetWorthSnapshot {
	s := core.NetWorthSnapshot{
		ID:           uuid.NewString(),
		NetPosition:  netPosition,
		DateRecorded: time.Now().UTC(),
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snapshots = append(n.snapshots, s)
	return s
}

// All returns snapshots newest first.
func (n *NetWorth) All() []core.NetWorthSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := append([]core.NetWorthSnapshot(nil), n.snapshots...)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].DateRecorded.After(out[b].DateRecorded)
	})
	return out
}

func (n *NetWorth) ReplaceAll(snapshots []core.NetWorthSnapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snapshots = append([]core.NetWorthSnapshot(nil), snapshots...)
}

func (n *NetWorth) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snapshots = nil
}
