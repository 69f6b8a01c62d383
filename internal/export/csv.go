// Package export writes ledger data to CSV files for use outside the app.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"copilot/internal/core"
)

const filenameTimeLayout = "2006-01-02_15-04-05"

// Result names the files a successful export produced.
type Result struct {
	LedgerPath      string
	TransactionPath string
}

// WriteCSV writes two timestamped CSV files into dir, one for ledger entries
// and one for transactions. The directory must already exist.
func WriteCSV(ctx context.Context, dir string, entries []core.LedgerEntry, txns []core.Transaction) (Result, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("output directory not found: %s", dir)
	}

	stamp := time.Now().Format(filenameTimeLayout)
	res := Result{
		LedgerPath:      filepath.Join(dir, "ledger_entries_"+stamp+".csv"),
		TransactionPath: filepath.Join(dir, "transaction_entries_"+stamp+".csv"),
	}

	ledgerRows := [][]string{{"id", "label", "amount", "entry_type", "status", "date_incurred", "comments", "tags"}}
	for _, e := range entries {
		ledgerRows = append(ledgerRows, []string{
			e.ID,
			e.Label,
			e.Amount.String(),
			string(e.Kind),
			string(e.Status),
			e.DateIncurred.Format(time.RFC3339Nano),
			e.Comments,
			strings.Join(e.Tags, ", "),
		})
	}
	if err := writeRows(res.LedgerPath, ledgerRows); err != nil {
		return Result{}, err
	}

	txnRows := [][]string{{"id", "entry_id", "transaction_type", "label", "amount", "date_paid", "comments", "tags"}}
	for _, t := range txns {
		txnRows = append(txnRows, []string{
			t.ID,
			t.EntryID,
			string(t.Kind),
			t.Label,
			t.Amount.String(),
			t.DatePaid.Format(time.RFC3339Nano),
			t.Comments,
			strings.Join(t.Tags, ", "),
		})
	}
	if err := writeRows(res.TransactionPath, txnRows); err != nil {
		return Result{}, err
	}

	slog.InfoContext(ctx, "Data exported to CSV",
		"entries", len(entries), "transactions", len(txns), "dir", dir)
	return res, nil
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
