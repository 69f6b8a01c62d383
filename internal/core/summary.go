package core

import "github.com/shopspring/decimal"

// BalanceForEntry returns the entry's principal minus the sum of all
// transactions referencing it. The result is not floored at zero: an
// overpayment drives the balance negative, and callers treat any balance
// <= 0 as paid off.
func BalanceForEntry(e LedgerEntry, txns []Transaction) decimal.Decimal {
	paid := decimal.Zero
	for _, t := range txns {
		if t.EntryID == e.ID {
			paid = paid.Add(t.Amount)
		}
	}
	return e.Amount.Sub(paid)
}

// TransactionsForEntry filters txns down to those owned by the entry.
func TransactionsForEntry(entryID string, txns []Transaction) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.EntryID == entryID {
			out = append(out, t)
		}
	}
	return out
}

// TotalEntryAmount sums the principal amounts of the supplied entries.
// Callers pre-filter by kind.
func TotalEntryAmount(entries []LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalTransactionAmount sums the amounts of the supplied transactions.
// Callers pre-filter by kind.
func TotalTransactionAmount(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

// EntriesOfKind filters entries down to the given kind.
func EntriesOfKind(entries []LedgerEntry, kind EntryKind) []LedgerEntry {
	var out []LedgerEntry
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// TransactionsOfKind filters transactions down to the given kind.
func TransactionsOfKind(txns []Transaction, kind TransactionKind) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// ResolveStatus applies the status derivation policy to a freshly computed
// balance: an active entry whose balance reached zero flips to paid, and a
// paid entry whose balance went positive again flips back to active. It must
// be invoked after every mutation that can change an entry's balance.
func ResolveStatus(current EntryStatus, balance decimal.Decimal) EntryStatus {
	switch {
	case current == StatusActive && !balance.IsPositive():
		return StatusPaid
	case current == StatusPaid && balance.IsPositive():
		return StatusActive
	default:
		return current
	}
}
