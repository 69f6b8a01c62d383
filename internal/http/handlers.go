package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
	"copilot/internal/log"
	"copilot/internal/repo"
)

// Wire shapes for the JSON API. Amounts travel as strings so clients never
// lose precision to float parsing.
type entryResponse struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Amount       string   `json:"amount"`
	Balance      string   `json:"balance"`
	EntryType    string   `json:"entry_type"`
	Status       string   `json:"status"`
	DateIncurred string   `json:"date_incurred"`
	Comments     string   `json:"comments,omitempty"`
	Tags         []string `json:"tags"`
	ETA          string   `json:"eta,omitempty"`
}

type transactionResponse struct {
	ID              string   `json:"id"`
	EntryID         string   `json:"entry_id"`
	TransactionType string   `json:"transaction_type"`
	Amount          string   `json:"amount"`
	Label           string   `json:"label"`
	DatePaid        string   `json:"date_paid"`
	Comments        string   `json:"comments,omitempty"`
	Tags            []string `json:"tags"`
}

func (s *Server) entryResponse(e core.LedgerEntry) entryResponse {
	resp := entryResponse{
		ID:           e.ID,
		Label:        e.Label,
		Amount:       e.Amount.String(),
		Balance:      core.BalanceForEntry(e, s.ledger.Transactions().All()).String(),
		EntryType:    string(e.Kind),
		Status:       string(e.Status),
		DateIncurred: e.DateIncurred.Format(time.RFC3339),
		Comments:     e.Comments,
		Tags:         e.Tags,
	}
	if e.Status == core.StatusActive {
		if eta, err := s.ledger.EntryETA(e.ID); err == nil {
			resp.ETA = eta
		}
	}
	return resp
}

func transactionToResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		EntryID:         t.EntryID,
		TransactionType: string(t.Kind),
		Amount:          t.Amount.String(),
		Label:           t.Label,
		DatePaid:        t.DatePaid.Format(time.RFC3339),
		Comments:        t.Comments,
		Tags:            t.Tags,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	out := []entryResponse{}
	for _, e := range s.ledger.Entries().All() {
		if kind != "" && string(e.Kind) != kind {
			continue
		}
		out = append(out, s.entryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label     string   `json:"label"`
		Amount    string   `json:"amount"`
		EntryType string   `json:"entry_type"`
		Comments  string   `json:"comments"`
		Tags      []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	kind := core.EntryKind(req.EntryType)
	if !kind.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "entry_type must be 'debt' or 'loan'")
		return
	}

	entry, err := s.ledger.AddEntry(r.Context(), req.Label, amount, kind, req.Comments, req.Tags)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.entryResponse(entry))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteEntry(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Entry delete failed", log.FieldEntryID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Amount          string   `json:"amount"`
		TransactionType string   `json:"transaction_type"`
		Label           string   `json:"label"`
		Comments        string   `json:"comments"`
		Tags            []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	kind := core.TransactionKind(req.TransactionType)
	if !kind.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "transaction_type must be 'payment' or 'repayment'")
		return
	}

	txn, err := s.ledger.RecordTransaction(r.Context(), id, amount, kind, req.Label, req.Comments, req.Tags)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, transactionToResponse(txn))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	out := []transactionResponse{}
	for _, t := range s.ledger.Transactions().All() {
		out = append(out, transactionToResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Transaction delete failed", "transaction_id", id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.ledger.Summarize()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_debt":      sum.TotalDebt.String(),
		"total_paid":      sum.TotalPaid.String(),
		"debt_remaining":  sum.DebtRemaining.String(),
		"total_loaned":    sum.TotalLoaned.String(),
		"total_repaid":    sum.TotalRepaid.String(),
		"loan_remaining":  sum.LoanRemaining.String(),
		"net_position":    sum.NetPosition.String(),
		"debt_payoff_eta": sum.DebtPayoffETA,
	})
}

func (s *Server) handleSnowball(w http.ResponseWriter, r *http.Request) {
	priority := s.advisor.SnowballPriority()
	if priority == nil {
		writeJSON(w, http.StatusOK, map[string]any{"priority": nil})
		return
	}
	balance := core.BalanceForEntry(*priority, s.ledger.Transactions().All())
	writeJSON(w, http.StatusOK, map[string]any{
		"priority": s.entryResponse(*priority),
		"balance":  balance.String(),
	})
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	extra, err := decimal.NewFromString(r.URL.Query().Get("extra"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "query parameter 'extra' must be a number")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": s.advisor.WhatIfETA(extra)})
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	type journalResponse struct {
		ID          string   `json:"id"`
		Content     string   `json:"content"`
		DateCreated string   `json:"date_created"`
		Tags        []string `json:"tags"`
	}
	out := []journalResponse{}
	for _, e := range s.ledger.Journal().All() {
		out = append(out, journalResponse{
			ID:          e.ID,
			Content:     e.Content,
			DateCreated: e.DateCreated.Format(time.RFC3339),
			Tags:        e.Tags,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := s.ledger.Journal().Add(req.Content, req.Tags)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": entry.ID})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	type snapshotResponse struct {
		ID           string `json:"id"`
		NetPosition  string `json:"net_position"`
		DateRecorded string `json:"date_recorded"`
	}
	out := []snapshotResponse{}
	for _, snap := range s.ledger.NetWorth().All() {
		out = append(out, snapshotResponse{
			ID:           snap.ID,
			NetPosition:  snap.NetPosition.String(),
			DateRecorded: snap.DateRecorded.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTakeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.TakeSnapshot(r.Context())
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":            snap.ID,
		"net_position":  snap.NetPosition.String(),
		"date_recorded": snap.DateRecorded.Format(time.RFC3339),
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !s.analyser.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "AI feature disabled")
		return
	}
	text := s.analyser.GenerateInsights(r.Context(), s.ledger.Entries().All(), s.ledger.Transactions().All())
	writeJSON(w, http.StatusOK, map[string]string{"insights": text})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if !s.analyser.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "AI feature disabled")
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	text := s.analyser.AnswerQuestion(r.Context(), req.Question, s.ledger.Entries().All(), s.ledger.Transactions().All())
	writeJSON(w, http.StatusOK, map[string]string{"answer": text})
}
