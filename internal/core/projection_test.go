package core

import (
	"strings"
	"testing"
	"time"
)

var projNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func debtEntry(id, amount string) LedgerEntry {
	return LedgerEntry{
		ID:           id,
		Label:        "debt " + id,
		Amount:       dec(amount),
		Kind:         Debt,
		Status:       StatusActive,
		DateIncurred: projNow.AddDate(0, -3, 0),
	}
}

func payment(entryID, amount string, daysAgo int) Transaction {
	return Transaction{
		ID:       entryID + "-" + amount,
		EntryID:  entryID,
		Kind:     Payment,
		Amount:   dec(amount),
		Label:    "p",
		DatePaid: projNow.AddDate(0, 0, -daysAgo),
	}
}

func TestEntryETASentinels(t *testing.T) {
	entry := debtEntry("e1", "1000")

	t.Run("no transactions", func(t *testing.T) {
		if got := EntryETA(entry, nil, projNow); got != ETANoTransactions {
			t.Fatalf("expected %q, got %q", ETANoTransactions, got)
		}
	})

	t.Run("balance settled wins over single-transaction check", func(t *testing.T) {
		txns := []Transaction{payment("e1", "1000", 5)}
		if got := EntryETA(entry, txns, projNow); got != ETAPaid {
			t.Fatalf("expected %q, got %q", ETAPaid, got)
		}
	})

	t.Run("single non-positive transaction", func(t *testing.T) {
		txns := []Transaction{{EntryID: "e1", Amount: dec("0"), Kind: Payment, Label: "z", DatePaid: projNow}}
		if got := EntryETA(entry, txns, projNow); got != ETANotApplicable {
			t.Fatalf("expected %q, got %q", ETANotApplicable, got)
		}
	})
}

func TestEntryETANaiveEstimate(t *testing.T) {
	entry := debtEntry("e1", "1000")
	txns := []Transaction{payment("e1", "300", 10)}
	// 1000 / 300 = 3.33 -> rounds to 3.
	if got := EntryETA(entry, txns, projNow); got != "Approx. 3 more transactions" {
		t.Fatalf("unexpected estimate: %q", got)
	}
}

func TestEntryETAVelocityProjection(t *testing.T) {
	entry := debtEntry("e1", "1000")
	// 200 paid over 10 days -> velocity 20/day, balance 800 -> 40 days out.
	txns := []Transaction{
		payment("e1", "100", 10),
		payment("e1", "100", 0),
	}
	want := "ETA: " + projNow.AddDate(0, 0, 40).Format("Jan 02, 2006")
	if got := EntryETA(entry, txns, projNow); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEntryETASameDayTransactionsFloorToOneDay(t *testing.T) {
	entry := debtEntry("e1", "300")
	// Two same-day payments: duration floors to 1 day, velocity 200/day,
	// balance 100 -> tomorrow-ish, never a division by zero.
	txns := []Transaction{
		payment("e1", "100", 0),
		payment("e1", "100", 0),
	}
	got := EntryETA(entry, txns, projNow)
	if !strings.HasPrefix(got, "ETA: ") {
		t.Fatalf("expected a projected date, got %q", got)
	}
}

func TestOverallETA(t *testing.T) {
	t.Run("no transactions", func(t *testing.T) {
		entries := []LedgerEntry{debtEntry("e1", "100")}
		if got := OverallETA(entries, nil, projNow); got != ETANoTransactions {
			t.Fatalf("expected %q, got %q", ETANoTransactions, got)
		}
	})

	t.Run("arithmetically settled", func(t *testing.T) {
		entries := []LedgerEntry{debtEntry("e1", "100")}
		txns := []Transaction{payment("e1", "100", 1)}
		if got := OverallETA(entries, txns, projNow); got != ETAAllPaid {
			t.Fatalf("expected %q, got %q", ETAAllPaid, got)
		}
	})

	t.Run("stale paid statuses win over positive balance", func(t *testing.T) {
		paidOff := debtEntry("e1", "500")
		paidOff.Status = StatusPaid
		txns := []Transaction{payment("e1", "100", 1)}
		if got := OverallETA([]LedgerEntry{paidOff}, txns, projNow); got != ETAAllPaid {
			t.Fatalf("expected %q, got %q", ETAAllPaid, got)
		}
	})

	t.Run("under a day of history bails out", func(t *testing.T) {
		entry := debtEntry("e1", "500")
		entry.DateIncurred = projNow
		txns := []Transaction{payment("e1", "100", 0)}
		if got := OverallETA([]LedgerEntry{entry}, txns, projNow); got != ETAInsufficientData {
			t.Fatalf("expected %q, got %q", ETAInsufficientData, got)
		}
	})

	t.Run("glacial progress caps at two centuries", func(t *testing.T) {
		entry := debtEntry("e1", "10000000")
		entry.DateIncurred = projNow.AddDate(0, 0, -100)
		txns := []Transaction{payment("e1", "1", 99)}
		if got := OverallETA([]LedgerEntry{entry}, txns, projNow); got != ETADistantFuture {
			t.Fatalf("expected %q, got %q", ETADistantFuture, got)
		}
	})

	t.Run("projects a date from aggregate velocity", func(t *testing.T) {
		entry := debtEntry("e1", "1000")
		entry.DateIncurred = projNow.AddDate(0, 0, -10)
		// 200 paid over 10 days of history -> 20/day, 800 left -> 40 days.
		txns := []Transaction{
			payment("e1", "100", 5),
			payment("e1", "100", 0),
		}
		want := "Projected payoff: " + projNow.AddDate(0, 0, 40).Format("Jan 02, 2006")
		if got := OverallETA([]LedgerEntry{entry}, txns, projNow); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("payments on settled debts still count toward velocity", func(t *testing.T) {
		settled := debtEntry("a", "100")
		settled.Status = StatusPaid
		settled.DateIncurred = projNow.AddDate(0, 0, -20)
		open := debtEntry("b", "110")
		open.DateIncurred = projNow.AddDate(0, 0, -10)

		// 150 paid over the active entry's 10 days of history -> 15/day,
		// 60 left across both debts -> 4 days.
		txns := []Transaction{
			payment("a", "100", 10),
			payment("b", "50", 0),
		}
		want := "Projected payoff: " + projNow.AddDate(0, 0, 4).Format("Jan 02, 2006")
		if got := OverallETA([]LedgerEntry{settled, open}, txns, projNow); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}
