package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
)

// Advisor answers planning questions: which debt to attack next and how an
// extra monthly payment would move the debt-free date.
type Advisor struct {
	ledger *Ledger
	now    func() time.Time
}

func NewAdvisor(ledger *Ledger) *Advisor {
	return &Advisor{
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// What-if messages shown verbatim to the user.
const (
	WhatIfNoDebts      = "No debts to calculate an ETA for."
	WhatIfAllPaid      = "All debts are already paid off!"
	WhatIfNeedPositive = "Extra payment must be positive to calculate a new ETA."
)

// Average days per month used to convert a monthly payment into a daily rate.
var daysPerMonth = decimal.RequireFromString("30.44")

// SnowballPriority returns the active debt with the smallest positive balance,
// the next target under the snowball method. Ties keep the first entry
// encountered. Returns nil when no active debt has a positive balance.
func (a *Advisor) SnowballPriority() *core.LedgerEntry {
	txns := a.ledger.Transactions().All()

	var (
		best        *core.LedgerEntry
		bestBalance decimal.Decimal
	)
	for _, e := range core.EntriesOfKind(a.ledger.Entries().All(), core.Debt) {
		if e.Status != core.StatusActive {
			continue
		}
		balance := core.BalanceForEntry(e, txns)
		if !balance.IsPositive() {
			continue
		}
		if best == nil || balance.LessThan(bestBalance) {
			entry := e
			best = &entry
			bestBalance = balance
		}
	}
	return best
}

// WhatIfETA projects a hypothetical debt-free date assuming the given extra
// amount is paid every month on top of nothing else. The total outstanding
// balance is summed across all debts regardless of status.
func (a *Advisor) WhatIfETA(extra decimal.Decimal) string {
	txns := a.ledger.Transactions().All()
	debts := core.EntriesOfKind(a.ledger.Entries().All(), core.Debt)
	if len(debts) == 0 {
		return WhatIfNoDebts
	}

	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(core.BalanceForEntry(d, txns))
	}
	if !total.IsPositive() {
		return WhatIfAllPaid
	}
	if !extra.IsPositive() {
		return WhatIfNeedPositive
	}

	months := total.Div(extra)
	days, _ := months.Mul(daysPerMonth).Float64()
	date := a.now().Add(time.Duration(days * 24 * float64(time.Hour)))
	return fmt.Sprintf("Hypothetical Debt-Free Date: %s", date.Format("Jan 02, 2006"))
}
