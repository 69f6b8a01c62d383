// Package ai talks to an OpenRouter-compatible chat completion API to
// produce financial insights, answer questions over the ledger and parse
// natural-language commands into structured actions.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
	"copilot/internal/log"
)

const (
	DefaultModel   = "mistralai/mistral-7b-instruct:free"
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultTimeout = 90 * time.Second
)

// DisabledMessage is returned from every operation when no API key is set.
const DisabledMessage = "AI feature disabled. An API key from OpenRouter.ai is required."

// Config holds the connection settings for the AI service.
type Config struct {
	APIKey      string
	Model       string
	ParserModel string
	BaseURL     string
	Timeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.ParserModel == "" {
		c.ParserModel = c.Model
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Analyser is the chat-completion client. All operations degrade to
// user-facing text instead of returning errors so the conversational surface
// never crashes on a flaky upstream.
type Analyser struct {
	cfg    Config
	client *http.Client
}

func NewAnalyser(cfg Config) *Analyser {
	cfg = cfg.withDefaults()
	return &Analyser{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether an API key is configured.
func (a *Analyser) Enabled() bool {
	return a.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// call sends one system+user exchange and returns the reply text. Transport
// and format failures fold into display strings.
func (a *Analyser) call(ctx context.Context, system, user, model string, jsonMode bool) string {
	if !a.Enabled() {
		return DisabledMessage
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if jsonMode {
		reqBody.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Sprintf("Error connecting to AI service: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return fmt.Sprintf("Error connecting to AI service: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "Financial Co-Pilot")

	slog.InfoContext(ctx, "Contacting AI assistant", log.FieldModel, model)
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Error connecting to AI service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error connecting to AI service: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || len(parsed.Choices) == 0 {
		return "Error: Received an unexpected response format from the AI service."
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content)
}

// GenerateInsights produces a structured financial health check. A fresh
// ledger gets starter advice instead of an analysis over nothing.
func (a *Analyser) GenerateInsights(ctx context.Context, entries []core.LedgerEntry, txns []core.Transaction) string {
	if len(entries) == 0 && len(txns) == 0 {
		return a.call(ctx, newUserSystemPrompt, newUserQuestion, a.cfg.Model, false)
	}
	user := "Here is my financial data. Please provide your analysis.\n\n" + financialContext(entries, txns)
	return a.call(ctx, insightsSystemPrompt, user, a.cfg.Model, false)
}

// AnswerQuestion answers a free-form question grounded on the ledger data.
func (a *Analyser) AnswerQuestion(ctx context.Context, question string, entries []core.LedgerEntry, txns []core.Transaction) string {
	user := fmt.Sprintf("**Current Financial Context:**\n%s\n\n**My question is:** %q",
		financialContext(entries, txns), question)
	return a.call(ctx, questionSystemPrompt, user, a.cfg.Model, false)
}

// Command actions the parser may emit.
const (
	ActionAddEntry       = "add_entry"
	ActionAddTransaction = "add_transaction"
	ActionList           = "list"
	ActionDeleteEntry    = "delete_entry"
	ActionShowSummary    = "show_summary"
	ActionUnknown        = "unknown"
)

// Payload carries the extracted fields of one command. Unused fields stay at
// their zero value.
type Payload struct {
	EntryType        string  `json:"entry_type,omitempty"`
	TransactionType  string  `json:"transaction_type,omitempty"`
	TargetEntryLabel string  `json:"target_entry_label,omitempty"`
	Label            string  `json:"label,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	FilterByType     string  `json:"filter_by_type,omitempty"`
	Reason           string  `json:"reason,omitempty"`
}

// Command is one structured action extracted from natural language.
type Command struct {
	Action  string  `json:"action"`
	Payload Payload `json:"payload"`
}

// Plan is the full parser output, possibly several commands per utterance.
type Plan struct {
	Commands []Command `json:"commands"`
}

// unknownPlan is returned when the model output cannot be decoded.
func unknownPlan(reason string) Plan {
	return Plan{Commands: []Command{{Action: ActionUnknown, Payload: Payload{Reason: reason}}}}
}

// ParseCommand converts a natural-language instruction into a plan of
// structured commands. Undecodable model output degrades to one unknown
// command rather than an error.
func (a *Analyser) ParseCommand(ctx context.Context, command string) Plan {
	user := fmt.Sprintf("Convert this command to JSON: %q", command)
	reply := a.call(ctx, parserSystemPrompt, user, a.cfg.ParserModel, true)

	var plan Plan
	if err := json.Unmarshal([]byte(reply), &plan); err != nil {
		slog.WarnContext(ctx, "AI returned non-JSON command output", "reply", reply)
		return unknownPlan("AI failed to generate a valid command.")
	}
	return plan
}

// financialContext renders the ledger into the readable markdown block the
// prompts reference: overall totals, open entries sorted by kind then label,
// and the ten most recent transactions.
func financialContext(entries []core.LedgerEntry, txns []core.Transaction) string {
	var b strings.Builder

	debtBalance := decimal.Zero
	for _, d := range core.EntriesOfKind(entries, core.Debt) {
		debtBalance = debtBalance.Add(core.BalanceForEntry(d, txns))
	}
	loanBalance := decimal.Zero
	for _, l := range core.EntriesOfKind(entries, core.Loan) {
		loanBalance = loanBalance.Add(core.BalanceForEntry(l, txns))
	}
	fmt.Fprintf(&b, "### Overall Financial Snapshot\n- Total Debt Owed: $%s\n- Total Owed to You (Loans): $%s\n",
		debtBalance.StringFixed(2), loanBalance.StringFixed(2))

	if len(entries) > 0 {
		sorted := append([]core.LedgerEntry(nil), entries...)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Kind != sorted[j].Kind {
				return sorted[i].Kind < sorted[j].Kind
			}
			return sorted[i].Label < sorted[j].Label
		})
		b.WriteString("\n### Detailed Ledger Entries\n")
		for _, e := range sorted {
			balance := core.BalanceForEntry(e, txns)
			if balance.LessThanOrEqual(decimal.RequireFromString("0.01")) {
				continue
			}
			fmt.Fprintf(&b, "- **%s** (%s, Status: %s)\n  - Original Amount: $%s\n  - Current Balance: $%s\n",
				e.Label, titleCase(string(e.Kind)), titleCase(string(e.Status)),
				e.Amount.StringFixed(2), balance.StringFixed(2))
		}
	}

	if len(txns) > 0 {
		sorted := append([]core.Transaction(nil), txns...)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].DatePaid.After(sorted[j].DatePaid)
		})
		if len(sorted) > 10 {
			sorted = sorted[:10]
		}
		b.WriteString("\n### Recent Transactions (last 10)\n")
		for _, t := range sorted {
			fmt.Fprintf(&b, "- %s: %s ($%s)\n", t.DatePaid.Format("2006-01-02"), t.Label, t.Amount.StringFixed(2))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
