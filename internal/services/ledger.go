// Package services holds the business operations on top of the repositories:
// the ledger orchestration, payoff advice and net-worth tracking.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
	"copilot/internal/log"
	"copilot/internal/repo"
	"copilot/internal/storage"
)

// Ledger orchestrates mutations across the record collections and keeps the
// derived entry statuses consistent after every balance-changing operation.
type Ledger struct {
	entries *repo.Ledger
	txns    *repo.Transactions
	journal *repo.Journal
	worth   *repo.NetWorth

	now func() time.Time
}

func NewLedger(entries *repo.Ledger, txns *repo.Transactions, journal *repo.Journal, worth *repo.NetWorth) *Ledger {
	return &Ledger{
		entries: entries,
		txns:    txns,
		journal: journal,
		worth:   worth,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Ledger) Entries() *repo.Ledger            { return s.entries }
func (s *Ledger) Transactions() *repo.Transactions { return s.txns }
func (s *Ledger) Journal() *repo.Journal           { return s.journal }
func (s *Ledger) NetWorth() *repo.NetWorth         { return s.worth }

// AddEntry records a new debt or loan.
func (s *Ledger) AddEntry(ctx context.Context, label string, amount decimal.Decimal, kind core.EntryKind, comments string, tags []string) (core.LedgerEntry, error) {
	e, err := s.entries.Add(label, amount, kind, comments, tags)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	slog.InfoContext(ctx, "Ledger entry added",
		log.FieldEntryID, e.ID, log.FieldEntryLabel, e.Label, log.FieldEntryKind, string(e.Kind), log.FieldAmount, e.Amount.String())
	return e, nil
}

// RecordTransaction appends a payment or repayment against an entry and then
// re-derives the owning entry's status from its new balance.
func (s *Ledger) RecordTransaction(ctx context.Context, entryID string, amount decimal.Decimal, kind core.TransactionKind, label, comments string, tags []string) (core.Transaction, error) {
	entry, err := s.entries.ByID(entryID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	if entry.Kind != kind.EntryKind() {
		return core.Transaction{}, fmt.Errorf("record transaction: %s does not apply to a %s", kind, entry.Kind)
	}

	t, err := s.txns.Add(entryID, amount, kind, label, comments, tags)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.syncStatus(ctx, entryID); err != nil {
		return core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Transaction recorded",
		log.FieldEntryID, entryID, log.FieldAmount, t.Amount.String(), "kind", string(t.Kind))
	return t, nil
}

// EditEntryAmount changes an entry's principal and re-derives its status,
// since a smaller principal may already be covered by past transactions.
func (s *Ledger) EditEntryAmount(ctx context.Context, entryID string, amount decimal.Decimal) (core.LedgerEntry, error) {
	entry, err := s.entries.ByID(entryID)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("edit entry: %w", err)
	}
	entry.Amount = amount
	if err := s.entries.Update(entry); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("edit entry: %w", err)
	}
	if err := s.syncStatus(ctx, entryID); err != nil {
		return core.LedgerEntry{}, err
	}
	return s.entries.ByID(entryID)
}

// EditTransactionAmount changes a transaction's amount and re-derives the
// owning entry's status.
func (s *Ledger) EditTransactionAmount(ctx context.Context, txnID string, amount decimal.Decimal) (core.Transaction, error) {
	t, err := s.txns.ByID(txnID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("edit transaction: %w", err)
	}
	t.Amount = amount
	if err := s.txns.Update(t); err != nil {
		return core.Transaction{}, fmt.Errorf("edit transaction: %w", err)
	}
	if err := s.syncStatus(ctx, t.EntryID); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// DeleteTransaction removes a transaction and re-derives the owning entry's
// status; deleting a payment can flip a paid entry back to active.
func (s *Ledger) DeleteTransaction(ctx context.Context, txnID string) error {
	t, err := s.txns.ByID(txnID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.txns.Delete(txnID)
	return s.syncStatus(ctx, t.EntryID)
}

// DeleteEntry removes an entry and cascades to its transactions so no orphan
// records remain.
func (s *Ledger) DeleteEntry(ctx context.Context, entryID string) error {
	if !s.entries.Delete(entryID) {
		return fmt.Errorf("delete entry: %w", repo.ErrNotFound)
	}
	removed := s.txns.DeleteForEntry(entryID)
	slog.InfoContext(ctx, "Ledger entry deleted", log.FieldEntryID, entryID, "transactions_removed", removed)
	return nil
}

// ClearAll wipes every collection. The caller confirms first.
func (s *Ledger) ClearAll(ctx context.Context) {
	s.entries.Clear()
	s.txns.Clear()
	s.journal.Clear()
	s.worth.Clear()
	slog.WarnContext(ctx, "All financial data cleared")
}

// Balance returns the current balance of the entry.
func (s *Ledger) Balance(entryID string) (decimal.Decimal, error) {
	entry, err := s.entries.ByID(entryID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return core.BalanceForEntry(entry, s.txns.All()), nil
}

// NetPosition is total loans receivable minus total debts outstanding,
// computed over remaining balances rather than principals.
func (s *Ledger) NetPosition() decimal.Decimal {
	txns := s.txns.All()
	net := decimal.Zero
	for _, e := range s.entries.All() {
		balance := core.BalanceForEntry(e, txns)
		switch e.Kind {
		case core.Loan:
			net = net.Add(balance)
		case core.Debt:
			net = net.Sub(balance)
		}
	}
	return net
}

// TakeSnapshot records the current net position for trend history.
func (s *Ledger) TakeSnapshot(ctx context.Context) core.NetWorthSnapshot {
	snap := s.worth.Add(s.NetPosition())
	slog.InfoContext(ctx, "Net worth snapshot recorded", "net_position", snap.NetPosition.String())
	return snap
}

// Summary aggregates the totals shown on the overview screen.
type Summary struct {
	TotalDebt      decimal.Decimal
	TotalPaid      decimal.Decimal
	DebtRemaining  decimal.Decimal
	TotalLoaned    decimal.Decimal
	TotalRepaid    decimal.Decimal
	LoanRemaining  decimal.Decimal
	NetPosition    decimal.Decimal
	DebtPayoffETA  string
}

// Summarize computes the overview totals and the aggregate debt payoff
// projection.
func (s *Ledger) Summarize() Summary {
	entries := s.entries.All()
	txns := s.txns.All()

	payments := core.TransactionsOfKind(txns, core.Payment)
	totalDebt := core.TotalEntryAmount(core.EntriesOfKind(entries, core.Debt))
	totalPaid := core.TotalTransactionAmount(payments)
	totalLoaned := core.TotalEntryAmount(core.EntriesOfKind(entries, core.Loan))
	totalRepaid := core.TotalTransactionAmount(core.TransactionsOfKind(txns, core.Repayment))

	return Summary{
		TotalDebt:     totalDebt,
		TotalPaid:     totalPaid,
		DebtRemaining: totalDebt.Sub(totalPaid),
		TotalLoaned:   totalLoaned,
		TotalRepaid:   totalRepaid,
		LoanRemaining: totalLoaned.Sub(totalRepaid),
		NetPosition:   s.NetPosition(),
		// The aggregate projection is over debt payoff only, so loan
		// repayments must not count toward it.
		DebtPayoffETA: core.OverallETA(entries, payments, s.now()),
	}
}

// EntryETA projects the payoff estimate for a single entry.
func (s *Ledger) EntryETA(entryID string) (string, error) {
	entry, err := s.entries.ByID(entryID)
	if err != nil {
		return "", err
	}
	return core.EntryETA(entry, s.txns.All(), s.now()), nil
}

// Hydrate replaces all collections from a loaded dataset.
func (s *Ledger) Hydrate(ds *storage.Dataset) {
	s.entries.ReplaceAll(ds.Entries)
	s.txns.ReplaceAll(ds.Transactions)
	s.journal.ReplaceAll(ds.Journal)
	s.worth.ReplaceAll(ds.Snapshots)
}

// Snapshot captures all collections into a dataset for saving.
func (s *Ledger) Snapshot() *storage.Dataset {
	return &storage.Dataset{
		Entries:      s.entries.All(),
		Transactions: s.txns.All(),
		Journal:      s.journal.All(),
		Snapshots:    s.worth.All(),
	}
}

// MatchEntriesByLabel finds entries whose labels share at least one word with
// the query, used to resolve targets named loosely in chat commands. Matching
// is case-insensitive on whole words.
func (s *Ledger) MatchEntriesByLabel(query string) []core.LedgerEntry {
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = true
	}
	if len(words) == 0 {
		return nil
	}

	var out []core.LedgerEntry
	for _, e := range s.entries.All() {
		for _, w := range strings.Fields(strings.ToLower(e.Label)) {
			if words[w] {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// syncStatus re-derives an entry's status from its current balance and stores
// the entry back when the status changed.
func (s *Ledger) syncStatus(ctx context.Context, entryID string) error {
	entry, err := s.entries.ByID(entryID)
	if err != nil {
		return fmt.Errorf("sync status: %w", err)
	}
	balance := core.BalanceForEntry(entry, s.txns.All())
	next := core.ResolveStatus(entry.Status, balance)
	if next == entry.Status {
		return nil
	}
	entry.Status = next
	if err := s.entries.Update(entry); err != nil {
		return fmt.Errorf("sync status: %w", err)
	}
	slog.InfoContext(ctx, "Entry status changed",
		log.FieldEntryID, entry.ID, log.FieldEntryLabel, entry.Label, log.FieldStatus, string(next))
	return nil
}
