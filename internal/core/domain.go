package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Debt EntryKind = "debt"
	Loan EntryKind = "loan"

	Payment   TransactionKind = "payment"
	Repayment TransactionKind = "repayment"

	StatusActive EntryStatus = "active"
	StatusPaid   EntryStatus = "paid"
)

type (
	EntryKind       string
	TransactionKind string
	EntryStatus     string

	// LedgerEntry is a debt owed by the user or a loan extended by the user.
	LedgerEntry struct {
		ID           string
		Label        string
		Amount       decimal.Decimal
		Kind         EntryKind
		Status       EntryStatus
		DateIncurred time.Time
		Comments     string
		Tags         []string
	}

	// Transaction is a payment against a debt or a repayment received on a
	// loan. EntryID refers to the owning LedgerEntry and never changes after
	// creation.
	Transaction struct {
		ID       string
		EntryID  string
		Kind     TransactionKind
		Amount   decimal.Decimal
		Label    string
		DatePaid time.Time
		Comments string
		Tags     []string
	}

	JournalEntry struct {
		ID          string
		Content     string
		DateCreated time.Time
		Tags        []string
	}

	// NetWorthSnapshot is a point sample of (loan balances owed to the user)
	// minus (debt balances owed by the user).
	NetWorthSnapshot struct {
		ID           string
		NetPosition  decimal.Decimal
		DateRecorded time.Time
	}
)

var (
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrEmptyLabel             = errors.New("empty label")
	ErrEmptyContent           = errors.New("empty content")
	ErrInvalidEntryKind       = errors.New("invalid entry kind")
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrMissingEntryID         = errors.New("missing owning entry id")
)

func (k EntryKind) Valid() bool {
	return k == Debt || k == Loan
}

func (k TransactionKind) Valid() bool {
	return k == Payment || k == Repayment
}

// EntryKind returns the ledger entry kind this transaction kind settles:
// payments go against debts, repayments against loans.
func (k TransactionKind) EntryKind() EntryKind {
	if k == Repayment {
		return Loan
	}
	return Debt
}

func (e LedgerEntry) Validate() error {
	if len(strings.TrimSpace(e.Label)) == 0 {
		return ErrEmptyLabel
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.Kind.Valid() {
		return ErrInvalidEntryKind
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.EntryID == "" {
		return ErrMissingEntryID
	}
	if len(strings.TrimSpace(t.Label)) == 0 {
		return ErrEmptyLabel
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Kind.Valid() {
		return ErrInvalidTransactionKind
	}
	return nil
}

func (j JournalEntry) Validate() error {
	if len(strings.TrimSpace(j.Content)) == 0 {
		return ErrEmptyContent
	}
	return nil
}
