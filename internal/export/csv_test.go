package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	entries := []core.LedgerEntry{{
		ID:           "e1",
		Label:        "Car Loan",
		Amount:       decimal.RequireFromString("1000"),
		Kind:         core.Debt,
		Status:       core.StatusActive,
		DateIncurred: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		Comments:     "48 months",
		Tags:         []string{"transport", "other:lease"},
	}}
	txns := []core.Transaction{{
		ID:       "t1",
		EntryID:  "e1",
		Kind:     core.Payment,
		Amount:   decimal.RequireFromString("100"),
		Label:    "january",
		DatePaid: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
	}}

	res, err := WriteCSV(context.Background(), dir, entries, txns)
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	ledgerRows := readCSV(t, res.LedgerPath)
	if len(ledgerRows) != 2 {
		t.Fatalf("ledger file has %d rows, want header plus 1", len(ledgerRows))
	}
	wantHeader := []string{"id", "label", "amount", "entry_type", "status", "date_incurred", "comments", "tags"}
	for i, col := range wantHeader {
		if ledgerRows[0][i] != col {
			t.Errorf("ledger header[%d] = %q, want %q", i, ledgerRows[0][i], col)
		}
	}
	row := ledgerRows[1]
	if row[1] != "Car Loan" || row[2] != "1000" || row[3] != "debt" || row[7] != "transport, other:lease" {
		t.Errorf("ledger row = %v", row)
	}

	txnRows := readCSV(t, res.TransactionPath)
	if len(txnRows) != 2 {
		t.Fatalf("transaction file has %d rows, want header plus 1", len(txnRows))
	}
	if txnRows[1][1] != "e1" || txnRows[1][2] != "payment" {
		t.Errorf("transaction row = %v", txnRows[1])
	}

	if filepath.Dir(res.LedgerPath) != dir {
		t.Errorf("ledger file written to %s, want %s", filepath.Dir(res.LedgerPath), dir)
	}
}

func TestWriteCSVMissingDir(t *testing.T) {
	_, err := WriteCSV(context.Background(), filepath.Join(t.TempDir(), "nope"), nil, nil)
	if err == nil {
		t.Error("WriteCSV() into a missing directory should fail")
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}
