package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
	"copilot/internal/repo"
)

func newTestLedger() *Ledger {
	return NewLedger(repo.NewLedger(), repo.NewTransactions(), repo.NewJournal(), repo.NewNetWorth())
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestRecordTransactionFlipsStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	entry, err := s.AddEntry(ctx, "Car Loan", dec(t, "1000"), core.Debt, "", nil)
	if err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}

	if _, err := s.RecordTransaction(ctx, entry.ID, dec(t, "400"), core.Payment, "first", "", nil); err != nil {
		t.Fatalf("RecordTransaction() error = %v", err)
	}
	got, _ := s.Entries().ByID(entry.ID)
	if got.Status != core.StatusActive {
		t.Fatalf("status after partial payment = %q, want %q", got.Status, core.StatusActive)
	}
	balance, _ := s.Balance(entry.ID)
	if !balance.Equal(dec(t, "600")) {
		t.Fatalf("balance = %s, want 600", balance)
	}

	if _, err := s.RecordTransaction(ctx, entry.ID, dec(t, "600"), core.Payment, "final", "", nil); err != nil {
		t.Fatalf("RecordTransaction() error = %v", err)
	}
	got, _ = s.Entries().ByID(entry.ID)
	if got.Status != core.StatusPaid {
		t.Errorf("status after full payment = %q, want %q", got.Status, core.StatusPaid)
	}
}

func TestRecordTransactionRejectsKindMismatch(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	entry, err := s.AddEntry(ctx, "Loan to Sam", dec(t, "200"), core.Loan, "", nil)
	if err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}

	if _, err := s.RecordTransaction(ctx, entry.ID, dec(t, "50"), core.Payment, "payment", "", nil); err == nil {
		t.Error("RecordTransaction() with payment against a loan should fail")
	}
	if _, err := s.RecordTransaction(ctx, entry.ID, dec(t, "50"), core.Repayment, "repayment", "", nil); err != nil {
		t.Errorf("RecordTransaction() with repayment against a loan error = %v", err)
	}
}

func TestEditEntryAmountResyncsStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	entry, _ := s.AddEntry(ctx, "Credit Card", dec(t, "1000"), core.Debt, "", nil)
	if _, err := s.RecordTransaction(ctx, entry.ID, dec(t, "500"), core.Payment, "payment", "", nil); err != nil {
		t.Fatal(err)
	}

	// Lowering the principal below what has been paid flips the entry to paid.
	got, err := s.EditEntryAmount(ctx, entry.ID, dec(t, "400"))
	if err != nil {
		t.Fatalf("EditEntryAmount() error = %v", err)
	}
	if got.Status != core.StatusPaid {
		t.Errorf("status after lowering principal = %q, want %q", got.Status, core.StatusPaid)
	}

	// Raising it again reopens the entry.
	got, err = s.EditEntryAmount(ctx, entry.ID, dec(t, "2000"))
	if err != nil {
		t.Fatalf("EditEntryAmount() error = %v", err)
	}
	if got.Status != core.StatusActive {
		t.Errorf("status after raising principal = %q, want %q", got.Status, core.StatusActive)
	}
}

func TestDeleteTransactionReopensEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	entry, _ := s.AddEntry(ctx, "Phone Plan", dec(t, "300"), core.Debt, "", nil)
	txn, err := s.RecordTransaction(ctx, entry.ID, dec(t, "300"), core.Payment, "payment", "", nil)
	if err != nil {
		t.Fatalf("RecordTransaction() error = %v", err)
	}

	got, _ := s.Entries().ByID(entry.ID)
	if got.Status != core.StatusPaid {
		t.Fatalf("status = %q, want %q", got.Status, core.StatusPaid)
	}

	if err := s.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	got, _ = s.Entries().ByID(entry.ID)
	if got.Status != core.StatusActive {
		t.Errorf("status after deleting payment = %q, want %q", got.Status, core.StatusActive)
	}
}

func TestDeleteEntryCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	entry, _ := s.AddEntry(ctx, "Car Loan", dec(t, "1000"), core.Debt, "", nil)
	other, _ := s.AddEntry(ctx, "Rent Debt", dec(t, "500"), core.Debt, "", nil)
	s.RecordTransaction(ctx, entry.ID, dec(t, "100"), core.Payment, "payment", "", nil)
	s.RecordTransaction(ctx, entry.ID, dec(t, "100"), core.Payment, "payment", "", nil)
	s.RecordTransaction(ctx, other.ID, dec(t, "50"), core.Payment, "payment", "", nil)

	if err := s.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if _, err := s.Entries().ByID(entry.ID); err == nil {
		t.Error("deleted entry should not resolve")
	}
	remaining := s.Transactions().All()
	if len(remaining) != 1 || remaining[0].EntryID != other.ID {
		t.Errorf("transactions after cascade = %+v, want only the unrelated one", remaining)
	}
}

func TestNetPositionUsesBalances(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	debt, _ := s.AddEntry(ctx, "Debt", dec(t, "1000"), core.Debt, "", nil)
	loan, _ := s.AddEntry(ctx, "Loan", dec(t, "400"), core.Loan, "", nil)
	s.RecordTransaction(ctx, debt.ID, dec(t, "300"), core.Payment, "payment", "", nil)
	s.RecordTransaction(ctx, loan.ID, dec(t, "100"), core.Repayment, "repayment", "", nil)

	// Owed 700, owed to us 300.
	if got := s.NetPosition(); !got.Equal(dec(t, "-400")) {
		t.Errorf("NetPosition() = %s, want -400", got)
	}

	snap := s.TakeSnapshot(ctx)
	if !snap.NetPosition.Equal(dec(t, "-400")) {
		t.Errorf("snapshot position = %s, want -400", snap.NetPosition)
	}
}

func TestSummarizeTotals(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	debt, _ := s.AddEntry(ctx, "Debt", dec(t, "1000"), core.Debt, "", nil)
	s.AddEntry(ctx, "Loan", dec(t, "250"), core.Loan, "", nil)
	s.RecordTransaction(ctx, debt.ID, dec(t, "400"), core.Payment, "payment", "", nil)

	sum := s.Summarize()
	if !sum.TotalDebt.Equal(dec(t, "1000")) || !sum.TotalPaid.Equal(dec(t, "400")) || !sum.DebtRemaining.Equal(dec(t, "600")) {
		t.Errorf("debt totals = %s/%s/%s, want 1000/400/600", sum.TotalDebt, sum.TotalPaid, sum.DebtRemaining)
	}
	if !sum.TotalLoaned.Equal(dec(t, "250")) || !sum.LoanRemaining.Equal(dec(t, "250")) {
		t.Errorf("loan totals = %s/%s, want 250/250", sum.TotalLoaned, sum.LoanRemaining)
	}
	if sum.DebtPayoffETA == "" {
		t.Error("DebtPayoffETA should never be empty")
	}
}

func TestSummarizeDebtETAIgnoresRepayments(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	debt, _ := s.AddEntry(ctx, "Debt", dec(t, "100"), core.Debt, "", nil)
	s.RecordTransaction(ctx, debt.ID, dec(t, "10"), core.Payment, "payment", "", nil)
	loan, _ := s.AddEntry(ctx, "Loan", dec(t, "1000"), core.Loan, "", nil)
	s.RecordTransaction(ctx, loan.ID, dec(t, "200"), core.Repayment, "repayment", "", nil)

	// Repayments outweigh the debt principal here. If they leaked into the
	// debt aggregate the projection would report everything as paid off
	// while 90 is still outstanding.
	sum := s.Summarize()
	if !sum.TotalPaid.Equal(dec(t, "10")) || !sum.DebtRemaining.Equal(dec(t, "90")) {
		t.Fatalf("debt totals = %s/%s, want 10/90", sum.TotalPaid, sum.DebtRemaining)
	}
	if sum.DebtPayoffETA == core.ETAAllPaid {
		t.Fatalf("DebtPayoffETA = %q with 90 outstanding", sum.DebtPayoffETA)
	}
	// All records share the same timestamp, so there is no payment history
	// to project a rate from.
	if sum.DebtPayoffETA != core.ETAInsufficientData {
		t.Errorf("DebtPayoffETA = %q, want %q", sum.DebtPayoffETA, core.ETAInsufficientData)
	}
}

func TestHydrateSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()

	entry, _ := s.AddEntry(ctx, "Debt", dec(t, "100"), core.Debt, "", []string{"transport"})
	s.RecordTransaction(ctx, entry.ID, dec(t, "25"), core.Payment, "payment", "", nil)
	s.Journal().Add("note", nil)
	s.TakeSnapshot(ctx)

	ds := s.Snapshot()

	fresh := newTestLedger()
	fresh.Hydrate(ds)
	if len(fresh.Entries().All()) != 1 || len(fresh.Transactions().All()) != 1 {
		t.Fatal("Hydrate() should restore entries and transactions")
	}
	if len(fresh.Journal().All()) != 1 || len(fresh.NetWorth().All()) != 1 {
		t.Error("Hydrate() should restore journal and snapshots")
	}
}

func TestMatchEntriesByLabel(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger()
	s.AddEntry(ctx, "Car Loan", dec(t, "100"), core.Debt, "", nil)
	s.AddEntry(ctx, "Student Loan", dec(t, "100"), core.Debt, "", nil)
	s.AddEntry(ctx, "Rent", dec(t, "100"), core.Debt, "", nil)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"exact word", "car", 1},
		{"shared word", "loan", 2},
		{"case insensitive", "RENT", 1},
		{"no match", "mortgage", 0},
		{"empty query", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.MatchEntriesByLabel(tt.query); len(got) != tt.want {
				t.Errorf("MatchEntriesByLabel(%q) = %d entries, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}
