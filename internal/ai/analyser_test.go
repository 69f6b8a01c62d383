package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
)

func chatServer(t *testing.T, reply string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Fatalf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyserDisabledWithoutKey(t *testing.T) {
	a := NewAnalyser(Config{})
	if a.Enabled() {
		t.Error("Enabled() without key = true, want false")
	}
	if got := a.GenerateInsights(context.Background(), nil, nil); got != DisabledMessage {
		t.Errorf("GenerateInsights() = %q, want disabled message", got)
	}
}

func TestGenerateInsightsNewUser(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, "Welcome!", &captured)
	defer srv.Close()

	a := NewAnalyser(Config{APIKey: "test-key", BaseURL: srv.URL})
	got := a.GenerateInsights(context.Background(), nil, nil)
	if got != "Welcome!" {
		t.Fatalf("GenerateInsights() = %q", got)
	}
	if captured.Model != DefaultModel {
		t.Errorf("model = %q, want %q", captured.Model, DefaultModel)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[1].Content, "new here") {
		t.Errorf("empty ledger should use the starter question, got %q", captured.Messages[1].Content)
	}
}

func TestAnswerQuestionIncludesContext(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, "You owe $900.00.", &captured)
	defer srv.Close()

	entries := []core.LedgerEntry{{
		ID:           "e1",
		Label:        "Car Loan",
		Amount:       decimal.RequireFromString("1000"),
		Kind:         core.Debt,
		Status:       core.StatusActive,
		DateIncurred: time.Now(),
	}}
	txns := []core.Transaction{{
		ID: "t1", EntryID: "e1", Kind: core.Payment,
		Amount: decimal.RequireFromString("100"), Label: "first", DatePaid: time.Now(),
	}}

	a := NewAnalyser(Config{APIKey: "test-key", BaseURL: srv.URL})
	a.AnswerQuestion(context.Background(), "how much do I owe?", entries, txns)

	user := captured.Messages[1].Content
	if !strings.Contains(user, "Total Debt Owed: $900.00") {
		t.Errorf("context should carry the computed balance, got:\n%s", user)
	}
	if !strings.Contains(user, "how much do I owe?") {
		t.Errorf("context should carry the question, got:\n%s", user)
	}
}

func TestParseCommand(t *testing.T) {
	reply := `{"commands": [{"action": "add_entry", "payload": {"entry_type": "debt", "label": "groceries", "amount": 50.0}}]}`
	var captured chatRequest
	srv := chatServer(t, reply, &captured)
	defer srv.Close()

	a := NewAnalyser(Config{APIKey: "test-key", BaseURL: srv.URL})
	plan := a.ParseCommand(context.Background(), "add a $50 debt for groceries")

	if len(plan.Commands) != 1 {
		t.Fatalf("plan has %d commands, want 1", len(plan.Commands))
	}
	cmd := plan.Commands[0]
	if cmd.Action != ActionAddEntry || cmd.Payload.EntryType != "debt" || cmd.Payload.Amount != 50 {
		t.Errorf("command = %+v", cmd)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Error("parser calls should request JSON mode")
	}
}

func TestParseCommandBadReply(t *testing.T) {
	srv := chatServer(t, "sorry, I cannot do that", nil)
	defer srv.Close()

	a := NewAnalyser(Config{APIKey: "test-key", BaseURL: srv.URL})
	plan := a.ParseCommand(context.Background(), "do something")

	if len(plan.Commands) != 1 || plan.Commands[0].Action != ActionUnknown {
		t.Fatalf("plan = %+v, want a single unknown command", plan)
	}
}

func TestCallUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewAnalyser(Config{APIKey: "test-key", BaseURL: srv.URL})
	got := a.GenerateInsights(context.Background(), nil, nil)
	if !strings.HasPrefix(got, "Error connecting to AI service:") {
		t.Errorf("upstream failure should fold into display text, got %q", got)
	}
}
