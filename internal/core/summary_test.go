package core

import "testing"

func TestBalanceForEntry(t *testing.T) {
	entry := LedgerEntry{ID: "e1", Label: "Car Loan", Amount: dec("1000.00"), Kind: Debt, Status: StatusActive}
	txns := []Transaction{
		{ID: "t1", EntryID: "e1", Kind: Payment, Amount: dec("400.00"), Label: "p1"},
		{ID: "t2", EntryID: "other", Kind: Payment, Amount: dec("999.00"), Label: "noise"},
		{ID: "t3", EntryID: "e1", Kind: Payment, Amount: dec("100.50"), Label: "p2"},
	}
	if got := BalanceForEntry(entry, txns); !got.Equal(dec("499.50")) {
		t.Fatalf("expected 499.50, got %s", got)
	}

	// Ordering must not matter.
	reversed := []Transaction{txns[2], txns[1], txns[0]}
	if got := BalanceForEntry(entry, reversed); !got.Equal(dec("499.50")) {
		t.Fatalf("reversed order: expected 499.50, got %s", got)
	}
}

func TestBalanceGoesNegativeOnOverpayment(t *testing.T) {
	entry := LedgerEntry{ID: "e1", Label: "x", Amount: dec("100"), Kind: Debt}
	txns := []Transaction{{EntryID: "e1", Amount: dec("150"), Kind: Payment, Label: "big"}}
	if got := BalanceForEntry(entry, txns); !got.Equal(dec("-50")) {
		t.Fatalf("expected -50, got %s", got)
	}
}

func TestTotals(t *testing.T) {
	entries := []LedgerEntry{
		{ID: "a", Amount: dec("10.25")},
		{ID: "b", Amount: dec("0.75")},
	}
	if got := TotalEntryAmount(entries); !got.Equal(dec("11")) {
		t.Fatalf("expected 11, got %s", got)
	}
	if got := TotalEntryAmount(nil); !got.IsZero() {
		t.Fatalf("expected zero for empty input, got %s", got)
	}

	txns := []Transaction{
		{Amount: dec("1.10")},
		{Amount: dec("2.20")},
		{Amount: dec("3.30")},
	}
	if got := TotalTransactionAmount(txns); !got.Equal(dec("6.60")) {
		t.Fatalf("expected 6.60, got %s", got)
	}
}

func TestResolveStatus(t *testing.T) {
	cases := []struct {
		name    string
		current EntryStatus
		balance string
		want    EntryStatus
	}{
		{"active stays active", StatusActive, "10", StatusActive},
		{"active flips to paid at zero", StatusActive, "0", StatusPaid},
		{"active flips to paid when negative", StatusActive, "-5", StatusPaid},
		{"paid flips back to active", StatusPaid, "0.01", StatusActive},
		{"paid stays paid", StatusPaid, "-1", StatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveStatus(tc.current, dec(tc.balance)); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestKindFilters(t *testing.T) {
	entries := []LedgerEntry{
		{ID: "d1", Kind: Debt},
		{ID: "l1", Kind: Loan},
		{ID: "d2", Kind: Debt},
	}
	debts := EntriesOfKind(entries, Debt)
	if len(debts) != 2 || debts[0].ID != "d1" || debts[1].ID != "d2" {
		t.Fatalf("unexpected debt filter result: %+v", debts)
	}

	txns := []Transaction{
		{ID: "p1", Kind: Payment},
		{ID: "r1", Kind: Repayment},
	}
	if got := TransactionsOfKind(txns, Repayment); len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("unexpected repayment filter result: %+v", got)
	}
}
