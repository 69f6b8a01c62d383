package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
)

func init() {
	// Existing documents store amounts as bare JSON numbers; keep writing
	// them that way instead of decimal's default quoted form.
	decimal.MarshalJSONWithoutQuotes = true
}

// Wire shapes for the saved document. Field names are the storage contract
// and must round-trip exactly; old documents may omit status, comments and
// tags, which default below.
type (
	document struct {
		LedgerEntries     []entryDoc       `json:"ledger_entries"`
		Transactions      []transactionDoc `json:"transactions"`
		JournalEntries    []journalDoc     `json:"journal_entries"`
		NetWorthSnapshots []snapshotDoc    `json:"net_worth_snapshots"`
	}

	entryDoc struct {
		ID           string          `json:"id"`
		Label        string          `json:"label"`
		Amount       decimal.Decimal `json:"amount"`
		EntryType    string          `json:"entry_type"`
		Status       string          `json:"status,omitempty"`
		DateIncurred time.Time       `json:"date_incurred"`
		Comments     string          `json:"comments,omitempty"`
		Tags         []string        `json:"tags"`
	}

	transactionDoc struct {
		ID              string          `json:"id"`
		EntryID         string          `json:"entry_id"`
		TransactionType string          `json:"transaction_type"`
		Amount          decimal.Decimal `json:"amount"`
		Label           string          `json:"label"`
		DatePaid        time.Time       `json:"date_paid"`
		Comments        string          `json:"comments,omitempty"`
		Tags            []string        `json:"tags"`
	}

	journalDoc struct {
		ID          string    `json:"id"`
		Content     string    `json:"content"`
		DateCreated time.Time `json:"date_created"`
		Tags        []string  `json:"tags"`
	}

	snapshotDoc struct {
		ID           string          `json:"id"`
		NetPosition  decimal.Decimal `json:"net_position"`
		DateRecorded time.Time       `json:"date_recorded"`
	}
)

func encodeDocument(ds *Dataset) document {
	doc := document{
		LedgerEntries:     []entryDoc{},
		Transactions:      []transactionDoc{},
		JournalEntries:    []journalDoc{},
		NetWorthSnapshots: []snapshotDoc{},
	}
	for _, e := range ds.Entries {
		doc.LedgerEntries = append(doc.LedgerEntries, entryDoc{
			ID:           e.ID,
			Label:        e.Label,
			Amount:       e.Amount,
			EntryType:    string(e.Kind),
			Status:       string(e.Status),
			DateIncurred: e.DateIncurred,
			Comments:     e.Comments,
			Tags:         tagsOrEmpty(e.Tags),
		})
	}
	for _, t := range ds.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDoc{
			ID:              t.ID,
			EntryID:         t.EntryID,
			TransactionType: string(t.Kind),
			Amount:          t.Amount,
			Label:           t.Label,
			DatePaid:        t.DatePaid,
			Comments:        t.Comments,
			Tags:            tagsOrEmpty(t.Tags),
		})
	}
	for _, j := range ds.Journal {
		doc.JournalEntries = append(doc.JournalEntries, journalDoc{
			ID:          j.ID,
			Content:     j.Content,
			DateCreated: j.DateCreated,
			Tags:        tagsOrEmpty(j.Tags),
		})
	}
	for _, s := range ds.Snapshots {
		doc.NetWorthSnapshots = append(doc.NetWorthSnapshots, snapshotDoc{
			ID:           s.ID,
			NetPosition:  s.NetPosition,
			DateRecorded: s.DateRecorded,
		})
	}
	return doc
}

func decodeDocument(doc document) *Dataset {
	ds := &Dataset{}
	for _, d := range doc.LedgerEntries {
		status := core.EntryStatus(d.Status)
		if status == "" {
			// Documents written before status tracking existed.
			status = core.StatusActive
		}
		ds.Entries = append(ds.Entries, core.LedgerEntry{
			ID:           d.ID,
			Label:        d.Label,
			Amount:       d.Amount,
			Kind:         core.EntryKind(d.EntryType),
			Status:       status,
			DateIncurred: d.DateIncurred,
			Comments:     d.Comments,
			Tags:         tagsOrEmpty(d.Tags),
		})
	}
	for _, d := range doc.Transactions {
		ds.Transactions = append(ds.Transactions, core.Transaction{
			ID:       d.ID,
			EntryID:  d.EntryID,
			Kind:     core.TransactionKind(d.TransactionType),
			Amount:   d.Amount,
			Label:    d.Label,
			DatePaid: d.DatePaid,
			Comments: d.Comments,
			Tags:     tagsOrEmpty(d.Tags),
		})
	}
	for _, d := range doc.JournalEntries {
		ds.Journal = append(ds.Journal, core.JournalEntry{
			ID:          d.ID,
			Content:     d.Content,
			DateCreated: d.DateCreated,
			Tags:        tagsOrEmpty(d.Tags),
		})
	}
	for _, d := range doc.NetWorthSnapshots {
		ds.Snapshots = append(ds.Snapshots, core.NetWorthSnapshot{
			ID:           d.ID,
			NetPosition:  d.NetPosition,
			DateRecorded: d.DateRecorded,
		})
	}
	return ds
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
