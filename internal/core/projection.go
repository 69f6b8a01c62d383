package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Payoff estimates are returned as display-ready text. The engine never
// fails: every degenerate input maps to one of these sentinels.
const (
	ETANoTransactions   = "N/A (no transactions yet)"
	ETAPaid             = "Paid"
	ETANotApplicable    = "N/A"
	ETAAllPaid          = "All paid off"
	ETAInsufficientData = "N/A (insufficient data)"
	ETADistantFuture    = "Over 200 years"
)

const etaDateLayout = "Jan 02, 2006"

// maxProjectionDays caps the aggregate projection at roughly 200 years so we
// never construct dates outside the representable range.
const maxProjectionDays = 73000

// EntryETA estimates when a single entry will be paid off, based on the
// transactions recorded against it so far.
//
// With no transactions there is nothing to extrapolate from. With exactly one
// transaction the estimate is a naive count of equal transactions. With two or
// more, the payment velocity over the observed span projects a calendar date.
// Checks apply in this order: no transactions, balance already settled,
// non-positive single transaction.
func EntryETA(e LedgerEntry, txns []Transaction, now time.Time) string {
	mine := TransactionsForEntry(e.ID, txns)
	if len(mine) == 0 {
		return ETANoTransactions
	}

	balance := BalanceForEntry(e, txns)
	if !balance.IsPositive() {
		return ETAPaid
	}

	if len(mine) == 1 {
		one := mine[0]
		if !one.Amount.IsPositive() {
			return ETANotApplicable
		}
		n := e.Amount.Div(one.Amount).Round(0).IntPart()
		return fmt.Sprintf("Approx. %d more transactions", n)
	}

	sort.Slice(mine, func(i, j int) bool {
		return mine[i].DatePaid.Before(mine[j].DatePaid)
	})

	totalPaid := TotalTransactionAmount(mine)
	days := daysBetween(mine[0].DatePaid, mine[len(mine)-1].DatePaid)
	if days < 1 {
		// Same-day transactions still count as one day of history.
		days = 1
	}

	velocity := totalPaid.Div(decimal.NewFromInt(days))
	if !velocity.IsPositive() {
		return ETANotApplicable
	}

	daysToGo, _ := balance.Div(velocity).Float64()
	return "ETA: " + projectDate(now, daysToGo)
}

// OverallETA estimates when all debts combined will be paid off. Callers pass
// the payment subset only; loan repayments never count toward debt payoff.
//
// Every supplied payment counts toward the total and the latest-payment date,
// including payments on entries already settled, and paid statuses win over
// the arithmetic balance. Both behaviors are part of the user-visible
// contract and are kept as-is.
func OverallETA(entries []LedgerEntry, txns []Transaction, now time.Time) string {
	if len(txns) == 0 {
		return ETANoTransactions
	}

	debts := EntriesOfKind(entries, Debt)
	totalPaid := TotalTransactionAmount(txns)
	remaining := TotalEntryAmount(debts).Sub(totalPaid)
	if !remaining.IsPositive() {
		return ETAAllPaid
	}

	var active []LedgerEntry
	for _, d := range debts {
		if d.Status == StatusActive {
			active = append(active, d)
		}
	}
	if len(active) == 0 {
		return ETAAllPaid
	}

	start := active[0].DateIncurred
	for _, d := range active[1:] {
		if d.DateIncurred.Before(start) {
			start = d.DateIncurred
		}
	}
	latest := txns[0].DatePaid
	for _, t := range txns[1:] {
		if t.DatePaid.After(latest) {
			latest = t.DatePaid
		}
	}

	// Unlike the per-entry path there is no floor here: without at least a
	// full day of history the aggregate projection bails out.
	days := daysBetween(start, latest)
	if days < 1 {
		return ETAInsufficientData
	}

	velocity := totalPaid.Div(decimal.NewFromInt(days))
	if !velocity.IsPositive() {
		return ETAInsufficientData
	}

	daysToGo := remaining.Div(velocity)
	if daysToGo.GreaterThan(decimal.NewFromInt(maxProjectionDays)) {
		return ETADistantFuture
	}

	f, _ := daysToGo.Float64()
	return "Projected payoff: " + projectDate(now, f)
}

func daysBetween(earlier, later time.Time) int64 {
	return int64(later.Sub(earlier).Hours() / 24)
}

func projectDate(now time.Time, days float64) string {
	return now.Add(time.Duration(days * 24 * float64(time.Hour))).Format(etaDateLayout)
}
