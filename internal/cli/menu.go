package cli

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"copilot/internal/ai"
	"copilot/internal/core"
	"copilot/internal/export"
	"copilot/internal/services"
)

// Runner drives the interactive terminal session over a ledger service, the
// advisors and the optional AI assistant.
type Runner struct {
	p         prompter
	ledger    *services.Ledger
	advisor   *services.Advisor
	analyser  *ai.Analyser
	exportDir string
}

func NewRunner(in io.Reader, out io.Writer, ledger *services.Ledger, advisor *services.Advisor, analyser *ai.Analyser, exportDir string) *Runner {
	return &Runner{
		p:         prompter{in: bufio.NewReader(in), out: out},
		ledger:    ledger,
		advisor:   advisor,
		analyser:  analyser,
		exportDir: exportDir,
	}
}

// Run loops over the main menu until the user quits or the context ends.
func (r *Runner) Run(ctx context.Context) {
	r.p.println("Welcome to your Financial Co-Pilot!")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r.p.println("\n--- Main Menu ---")
		r.p.println("[1] Add Debt     | [2] Add Loan       | [3] Make Payment | [4] Receive Repayment")
		r.p.println("[L] List All     | [E] Edit Entry     | [D] Delete Entry | [X] Clear All Data")
		r.p.println("[S] Summary      | [P] Export to CSV")
		r.p.println("\n--- Advanced Tools ---")
		r.p.println("[A] Analyze Debt | [N] Log Net Worth  | [J] Journal      | [W] What-If Calc | [O] AI Assistant")
		r.p.println("[Q] Quit and Save")

		r.p.printf("Enter your choice: ")
		choice, ok := r.p.readLine()
		if !ok {
			return
		}

		switch strings.ToLower(choice) {
		case "1":
			r.addEntry(ctx, core.Debt)
		case "2":
			r.addEntry(ctx, core.Loan)
		case "3":
			r.addTransaction(ctx, core.Payment)
		case "4":
			r.addTransaction(ctx, core.Repayment)
		case "l":
			r.listAll()
		case "e":
			r.editMenu(ctx)
		case "d":
			r.deleteEntry(ctx)
		case "x":
			r.clearAll(ctx)
		case "s":
			r.showSummary()
		case "p":
			r.exportCSV(ctx)
		case "a":
			r.analyzeDebt()
		case "n":
			r.logNetWorth(ctx)
		case "j":
			r.journalMenu()
		case "w":
			r.whatIf()
		case "o":
			r.aiMenu(ctx)
		case "q":
			return
		default:
			r.p.println("Invalid choice.")
		}
	}
}

func (r *Runner) addEntry(ctx context.Context, kind core.EntryKind) {
	r.p.printf("\n--- Add New %s ---\n", titleCase(string(kind)))

	label, ok := r.p.askString("Enter " + string(kind) + " name")
	if !ok {
		return
	}
	amount, ok := r.p.askAmount("Enter a positive amount")
	if !ok {
		return
	}
	tags, ok := r.p.askTags()
	if !ok {
		return
	}
	comments, ok := r.p.askOptionalString("Enter comments")
	if !ok {
		return
	}

	if _, err := r.ledger.AddEntry(ctx, label, amount, kind, comments, tags); err != nil {
		r.p.printf("Error: %v\n", err)
		return
	}
	r.p.printf("Added %s '%s' for $%s.\n", kind, label, amount.StringFixed(2))
}

func (r *Runner) addTransaction(ctx context.Context, kind core.TransactionKind) {
	entryKind := kind.EntryKind()
	r.p.printf("\n--- Record a %s on a %s ---\n", titleCase(string(kind)), titleCase(string(entryKind)))

	txns := r.ledger.Transactions().All()
	var active []core.LedgerEntry
	for _, e := range r.ledger.Entries().All() {
		if e.Kind == entryKind && e.Status == core.StatusActive {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		r.p.printf("There are no active %ss to process a %s for.\n", entryKind, kind)
		return
	}

	r.p.printf("Select an active %s to apply this %s to:\n", entryKind, kind)
	for _, e := range active {
		balance := core.BalanceForEntry(e, txns)
		r.p.printf("ID: %s | Label: %-20s | Remaining: $%s\n", shortID(e.ID), e.Label, balance.StringFixed(2))
	}

	prefix, ok := r.p.askString("\nEnter ID of the " + string(entryKind))
	if !ok {
		return
	}
	var target *core.LedgerEntry
	for i := range active {
		if strings.HasPrefix(active[i].ID, prefix) {
			target = &active[i]
			break
		}
	}
	if target == nil {
		r.p.printf("Error: No active %s found with that ID.\n", entryKind)
		return
	}

	amount, ok := r.p.askAmount("Enter " + string(kind) + " amount for '" + target.Label + "'")
	if !ok {
		return
	}
	label, ok := r.p.askString("Enter a label for this " + string(kind))
	if !ok {
		return
	}
	comments, ok := r.p.askOptionalString("Enter comments")
	if !ok {
		return
	}
	tags, ok := r.p.askTags()
	if !ok {
		return
	}

	if _, err := r.ledger.RecordTransaction(ctx, target.ID, amount, kind, label, comments, tags); err != nil {
		r.p.printf("Error: %v\n", err)
		return
	}
	r.p.printf("Successfully recorded a %s of $%s.\n", kind, amount.StringFixed(2))

	updated, err := r.ledger.Entries().ByID(target.ID)
	if err == nil && updated.Status == core.StatusPaid {
		r.p.printf("\n--- Congratulations! '%s' has been fully settled! ---\n", updated.Label)
	}
}

func (r *Runner) listAll() {
	entries := r.ledger.Entries().All()
	txns := r.ledger.Transactions().All()

	r.p.println("\n--- All Ledger Entries (Debts & Loans) ---")
	if len(entries) == 0 {
		r.p.println("No entries recorded.")
	} else {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].DateIncurred.Before(entries[j].DateIncurred)
		})
		for _, e := range entries {
			r.p.printf("\n[%s] (%s) ID: %s | Label: %s\n",
				strings.ToUpper(string(e.Status)), titleCase(string(e.Kind)), shortID(e.ID), e.Label)
			r.p.printf("      Amount: $%s | Date: %s\n", e.Amount.StringFixed(2), e.DateIncurred.Format("2006-01-02"))
			if len(e.Tags) > 0 {
				r.p.printf("      -> Tags: %s\n", strings.Join(e.Tags, ", "))
			}
			if e.Status == core.StatusActive {
				if eta, err := r.ledger.EntryETA(e.ID); err == nil {
					r.p.printf("      -> ETA: %s\n", eta)
				}
			}
			if e.Comments != "" {
				r.p.printf("      -> Comments: %s\n", e.Comments)
			}
		}
	}

	r.p.println("\n\n--- All Transactions (Payments & Repayments) ---")
	if len(txns) == 0 {
		r.p.println("No transactions recorded.")
		return
	}
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].DatePaid.Before(txns[j].DatePaid)
	})
	for _, t := range txns {
		display := "Payment on Debt"
		if t.Kind == core.Repayment {
			display = "Repayment on Loan"
		}
		r.p.printf("\n  %s | $%s | %s\n", t.DatePaid.Format("2006-01-02"), t.Amount.StringFixed(2), display)
		r.p.printf("      Towards: '%s' (Entry ID: %s)\n", t.Label, shortID(t.EntryID))
		if len(t.Tags) > 0 {
			r.p.printf("      -> Tags: %s\n", strings.Join(t.Tags, ", "))
		}
		if t.Comments != "" {
			r.p.printf("      -> Comments: %s\n", t.Comments)
		}
	}
}

func (r *Runner) editMenu(ctx context.Context) {
	r.p.println("\n--- Edit Menu ---")
	r.p.println("[1] A Debt or Loan")
	r.p.println("[2] A Payment or Repayment")

	choice, ok := r.p.askString("What would you like to edit?")
	if !ok {
		return
	}
	switch choice {
	case "1":
		r.editEntry(ctx)
	case "2":
		r.editTransaction(ctx)
	default:
		r.p.println("Invalid choice.")
	}
}

func (r *Runner) editEntry(ctx context.Context) {
	entries := r.ledger.Entries().All()
	if len(entries) == 0 {
		r.p.println("There are no entries to edit.")
		return
	}

	r.p.println("Select an entry to edit:")
	for _, e := range entries {
		r.p.printf("ID: %s | (%s) | Label: %s\n", shortID(e.ID), titleCase(string(e.Kind)), e.Label)
	}
	prefix, ok := r.p.askString("\nEnter the 8-character ID of the entry to edit")
	if !ok {
		return
	}
	entry, err := r.ledger.Entries().ByIDPrefix(prefix)
	if err != nil {
		r.p.println("Error: No entry found with that ID.")
		return
	}

	for {
		entry, err = r.ledger.Entries().ByID(entry.ID)
		if err != nil {
			return
		}
		r.p.printf("\n--- Editing '%s' (%s) ---\n", entry.Label, titleCase(string(entry.Kind)))
		r.p.printf("  Current Amount: $%s\n", entry.Amount.StringFixed(2))
		r.p.println("[1] Edit Label, [2] Edit Amount, [3] Edit Comments, [4] Edit Tags")
		r.p.println("[c] Finish Editing")

		choice, ok := r.p.readLineWithPrompt("Select an option: ")
		if !ok || strings.EqualFold(choice, cancelInput) {
			r.p.printf("Finished editing '%s'.\n", entry.Label)
			return
		}
		switch choice {
		case "1":
			if label, ok := r.p.askString("Enter the new label for '" + entry.Label + "'"); ok {
				entry.Label = label
				if err := r.ledger.Entries().Update(entry); err == nil {
					r.p.println("Label updated successfully.")
				}
			}
		case "2":
			if amount, ok := r.p.askAmount("Enter the new positive amount"); ok {
				if _, err := r.ledger.EditEntryAmount(ctx, entry.ID, amount); err != nil {
					r.p.printf("Error: %v\n", err)
				} else {
					r.p.println("Amount updated successfully.")
				}
			}
		case "3":
			if comments, ok := r.p.askOptionalString("Enter new comments"); ok {
				entry.Comments = comments
				if err := r.ledger.Entries().Update(entry); err == nil {
					r.p.println("Comments updated successfully.")
				}
			}
		case "4":
			if tags, ok := r.p.askTags(); ok {
				entry.Tags = tags
				if err := r.ledger.Entries().Update(entry); err == nil {
					r.p.println("Tags updated successfully.")
				}
			}
		default:
			r.p.println("Invalid choice.")
		}
	}
}

func (r *Runner) editTransaction(ctx context.Context) {
	txns := r.ledger.Transactions().All()
	if len(txns) == 0 {
		r.p.println("There are no transactions to edit.")
		return
	}

	sort.Slice(txns, func(i, j int) bool {
		return txns[i].DatePaid.Before(txns[j].DatePaid)
	})
	r.p.println("Select a transaction to edit:")
	for _, t := range txns {
		r.p.printf("ID: %s | Date: %s | Label: %s | Amount: $%s\n",
			shortID(t.ID), t.DatePaid.Format("2006-01-02"), t.Label, t.Amount.StringFixed(2))
	}
	prefix, ok := r.p.askString("\nEnter the 8-character ID of the transaction to edit")
	if !ok {
		return
	}
	txn, err := r.ledger.Transactions().ByIDPrefix(prefix)
	if err != nil {
		r.p.println("Error: No transaction found with that ID.")
		return
	}

	for {
		txn, err = r.ledger.Transactions().ByID(txn.ID)
		if err != nil {
			return
		}
		r.p.printf("\n--- Editing '%s' (%s) ---\n", txn.Label, titleCase(string(txn.Kind)))
		r.p.printf("  Current Amount: $%s\n", txn.Amount.StringFixed(2))
		r.p.println("[1] Edit Label, [2] Edit Amount, [3] Edit Comments, [4] Edit Tags")
		r.p.println("[5] Delete This Transaction")
		r.p.println("[c] Finish Editing")

		choice, ok := r.p.readLineWithPrompt("Select an option: ")
		if !ok || strings.EqualFold(choice, cancelInput) {
			r.p.printf("Finished editing '%s'.\n", txn.Label)
			return
		}
		switch choice {
		case "1":
			if label, ok := r.p.askString("Enter new label for '" + txn.Label + "'"); ok {
				txn.Label = label
				if err := r.ledger.Transactions().Update(txn); err == nil {
					r.p.println("Label updated.")
				}
			}
		case "2":
			if amount, ok := r.p.askAmount("Enter new positive amount"); ok {
				if _, err := r.ledger.EditTransactionAmount(ctx, txn.ID, amount); err != nil {
					r.p.printf("Error: %v\n", err)
				} else {
					r.p.println("Amount updated.")
				}
			}
		case "3":
			if comments, ok := r.p.askOptionalString("Enter new comments"); ok {
				txn.Comments = comments
				if err := r.ledger.Transactions().Update(txn); err == nil {
					r.p.println("Comments updated.")
				}
			}
		case "4":
			if tags, ok := r.p.askTags(); ok {
				txn.Tags = tags
				if err := r.ledger.Transactions().Update(txn); err == nil {
					r.p.println("Tags updated.")
				}
			}
		case "5":
			if !r.p.askConfirmDelete("This will permanently delete the transaction '" + txn.Label + "'.") {
				r.p.println("Deletion cancelled.")
				continue
			}
			if err := r.ledger.DeleteTransaction(ctx, txn.ID); err != nil {
				r.p.printf("Error: %v\n", err)
				continue
			}
			r.p.printf("Transaction '%s' deleted. The owning entry's status has been recalculated.\n", txn.Label)
			return
		default:
			r.p.println("Invalid choice.")
		}
	}
}

func (r *Runner) deleteEntry(ctx context.Context) {
	r.p.println("\n--- Delete an Entry ---")
	entries := r.ledger.Entries().All()
	if len(entries) == 0 {
		r.p.println("There are no entries to delete.")
		return
	}

	r.p.println("Select an entry to delete:")
	for _, e := range entries {
		r.p.printf("ID: %s | (%s) | Label: %s\n", shortID(e.ID), titleCase(string(e.Kind)), e.Label)
	}
	prefix, ok := r.p.askString("\nEnter the 8-character ID")
	if !ok {
		return
	}
	entry, err := r.ledger.Entries().ByIDPrefix(prefix)
	if err != nil {
		r.p.println("Error: No entry found with that ID.")
		return
	}

	if !r.p.askConfirmDelete("This will permanently delete '" + entry.Label + "' and all its transactions.") {
		return
	}
	if err := r.ledger.DeleteEntry(ctx, entry.ID); err != nil {
		r.p.printf("Error: %v\n", err)
		return
	}
	r.p.printf("'%s' has been deleted.\n", entry.Label)
}

func (r *Runner) clearAll(ctx context.Context) {
	if !r.p.askConfirmDelete("WARNING! This will delete all data across the entire application.") {
		r.p.println("Operation cancelled.")
		return
	}
	r.ledger.ClearAll(ctx)
	r.p.println("All data has been cleared.")
}

func (r *Runner) showSummary() {
	r.p.println("\n--- Financial Summary ---")
	sum := r.ledger.Summarize()

	r.p.println("\n-- Debts (Money You Owe) --")
	r.p.printf("  Total Debt Incurred: $%s\n", sum.TotalDebt.StringFixed(2))
	r.p.printf("  Total Payments Made:  $%s\n", sum.TotalPaid.StringFixed(2))
	r.p.printf("  Remaining Debt:       $%s\n", sum.DebtRemaining.StringFixed(2))
	if sum.DebtRemaining.IsPositive() {
		r.p.printf("  %s\n", sum.DebtPayoffETA)
	}

	r.p.println("\n-- Loans (Money Owed To You) --")
	r.p.printf("  Total Loaned Out:     $%s\n", sum.TotalLoaned.StringFixed(2))
	r.p.printf("  Total Repaid To You:  $%s\n", sum.TotalRepaid.StringFixed(2))
	r.p.printf("  Remaining to Collect: $%s\n", sum.LoanRemaining.StringFixed(2))

	r.p.println("\n-----------------------------")
	r.p.printf("  Net Financial Position: $%s\n", sum.NetPosition.StringFixed(2))
	r.p.println("-----------------------------")
}

func (r *Runner) exportCSV(ctx context.Context) {
	r.p.println("\nExporting all data to CSV files...")
	res, err := export.WriteCSV(ctx, r.exportDir, r.ledger.Entries().All(), r.ledger.Transactions().All())
	if err != nil {
		r.p.printf("\nAn error occurred during export: %v\n", err)
		return
	}
	r.p.printf("Data export completed successfully: %s, %s\n", res.LedgerPath, res.TransactionPath)
}

func (r *Runner) analyzeDebt() {
	r.p.println("\n--- Debt Payoff Strategy: Snowball Method ---")
	r.p.println("This method suggests paying off the debt with the smallest remaining balance first.")

	priority := r.advisor.SnowballPriority()
	if priority == nil {
		r.p.println("No active debts to prioritize.")
		return
	}
	balance := core.BalanceForEntry(*priority, r.ledger.Transactions().All())
	r.p.printf("\nRecommendation: Focus extra payments on '%s'.\n", priority.Label)
	r.p.printf("  -> Remaining Balance: $%s\n", balance.StringFixed(2))
}

func (r *Runner) logNetWorth(ctx context.Context) {
	r.p.println("\n--- Net Worth Tracker ---")
	r.ledger.TakeSnapshot(ctx)

	r.p.println("\nRecent Snapshots:")
	snapshots := r.ledger.NetWorth().All()
	if len(snapshots) > 5 {
		snapshots = snapshots[:5]
	}
	for _, s := range snapshots {
		r.p.printf("  %s: $%s\n", s.DateRecorded.Format("2006-01-02"), s.NetPosition.StringFixed(2))
	}
}

func (r *Runner) journalMenu() {
	r.p.println("\n--- Financial Journal ---")
	r.p.println("[1] Add New Journal Entry")
	r.p.println("[2] View Recent Entries")

	choice, ok := r.p.askString("Select an option")
	if !ok {
		return
	}
	switch choice {
	case "1":
		content, ok := r.p.askString("Enter your journal entry")
		if !ok {
			return
		}
		if _, err := r.ledger.Journal().Add(content, nil); err != nil {
			r.p.printf("Error: %v\n", err)
		}
	case "2":
		entries := r.ledger.Journal().All()
		if len(entries) == 0 {
			r.p.println("No journal entries found.")
			return
		}
		for _, e := range entries {
			r.p.printf("\n- %s -\n", e.DateCreated.Format("2006-01-02 15:04"))
			r.p.printf("  %s\n", e.Content)
		}
	default:
		r.p.println("Invalid choice.")
	}
}

func (r *Runner) whatIf() {
	r.p.println("\n--- What-If Payoff Calculator ---")
	extra, ok := r.p.askAmount("Enter a hypothetical EXTRA monthly payment amount")
	if !ok {
		return
	}
	r.p.printf("\nResult: %s\n", r.advisor.WhatIfETA(extra))
}

func (r *Runner) aiMenu(ctx context.Context) {
	for {
		r.p.println("\n--- AI Co-Pilot Assistant ---")
		r.p.println("[1] Get Financial Health Check")
		r.p.println("[2] Start a Chat with the AI")
		r.p.println("[3] Use AI Command Bar")
		r.p.println("[c] Return to Main Menu")

		choice, ok := r.p.readLineWithPrompt("Select an AI tool: ")
		if !ok || strings.EqualFold(choice, cancelInput) {
			return
		}
		switch choice {
		case "1":
			insight := r.analyser.GenerateInsights(ctx, r.ledger.Entries().All(), r.ledger.Transactions().All())
			r.p.println("\n--- Your AI Health Check ---")
			r.p.println(insight)
			r.p.println("----------------------------")
		case "2":
			r.aiChat(ctx)
		case "3":
			r.aiCommandBar(ctx)
		default:
			r.p.println("Invalid choice.")
		}
	}
}

func (r *Runner) aiChat(ctx context.Context) {
	r.p.println("\n--- AI Financial Chat ---")
	r.p.println("Ask a question about your finances, or type 'exit' or 'c' to finish.")

	entries := r.ledger.Entries().All()
	txns := r.ledger.Transactions().All()
	for {
		question, ok := r.p.readLineWithPrompt("\nYou: ")
		if !ok {
			return
		}
		switch strings.ToLower(question) {
		case "exit", "quit", cancelInput:
			r.p.println("AI Assistant: Goodbye!")
			return
		}
		reply := r.analyser.AnswerQuestion(ctx, question, entries, txns)
		r.p.printf("\nAI Assistant: %s\n", reply)
	}
}

func (r *Runner) aiCommandBar(ctx context.Context) {
	r.p.println("\n--- AI Command Bar ---")
	r.p.println("You can give complex commands like 'Add $50 grocery debt and then show summary'.")
	r.p.println("Type 'exit' or 'c' to finish.")

	for {
		command, ok := r.p.readLineWithPrompt("\nAI Command > ")
		if !ok {
			return
		}
		switch strings.ToLower(command) {
		case "exit", "quit", cancelInput:
			return
		case "":
			continue
		}

		plan := r.analyser.ParseCommand(ctx, command)
		if len(plan.Commands) == 0 {
			r.p.println("Sorry, I didn't find any specific financial commands in your request.")
			continue
		}

		valid := true
		for _, cmd := range plan.Commands {
			if cmd.Action == ai.ActionAddTransaction && cmd.Payload.TargetEntryLabel == "" {
				r.p.println("Error: The AI understood you want to make a transaction, but couldn't identify which debt or loan to apply it to.")
				r.p.println("Please be more specific, e.g., '...repayment on my friend loan'.")
				valid = false
				break
			}
		}
		if !valid {
			continue
		}

		r.p.println("\n--- AI Understood the Following Plan ---")
		for i, cmd := range plan.Commands {
			r.p.printf("Step %d: %s with details: %+v\n", i+1,
				titleCase(strings.ReplaceAll(cmd.Action, "_", " ")), cmd.Payload)
		}
		confirm, ok := r.p.readLineWithPrompt("Press Enter to execute this plan, or type 'c' to cancel: ")
		if !ok {
			return
		}
		if strings.EqualFold(confirm, cancelInput) {
			r.p.println("Plan cancelled.")
			continue
		}

		r.p.println("\n--- Executing Plan ---")
		for _, cmd := range plan.Commands {
			r.executeCommand(ctx, cmd)
		}
	}
}

// executeCommand applies one parsed AI command, asking the user to confirm or
// disambiguate whenever the extraction is loose.
func (r *Runner) executeCommand(ctx context.Context, cmd ai.Command) {
	switch cmd.Action {
	case ai.ActionAddEntry:
		kind := core.EntryKind(cmd.Payload.EntryType)
		if !kind.Valid() {
			r.p.printf("Skipping command: AI tried to create an entry with an invalid type (%q). An entry must be a 'debt' or 'loan'.\n", cmd.Payload.EntryType)
			return
		}
		label := cmd.Payload.Label
		if label == "" {
			var ok bool
			if label, ok = r.p.askString("Confirm label for new " + string(kind)); !ok {
				return
			}
		}
		amount := decimal.NewFromFloat(cmd.Payload.Amount)
		if !amount.IsPositive() {
			var ok bool
			if amount, ok = r.p.askAmount("Confirm amount"); !ok {
				return
			}
		}
		comments, ok := r.p.askOptionalString("Enter comments")
		if !ok {
			return
		}
		if _, err := r.ledger.AddEntry(ctx, label, amount, kind, comments, nil); err != nil {
			r.p.printf("Error: %v\n", err)
		}

	case ai.ActionAddTransaction:
		target := r.resolveTarget(cmd.Payload.TargetEntryLabel)
		if target == nil {
			return
		}
		amount := decimal.NewFromFloat(cmd.Payload.Amount)
		if !amount.IsPositive() {
			r.p.println("Skipping transaction: Amount must be positive.")
			return
		}
		kind := core.TransactionKind(cmd.Payload.TransactionType)
		if !kind.Valid() {
			kind = core.Payment
		}
		label := cmd.Payload.Label
		if label == "" {
			label = "Transaction for " + target.Label
		}
		if _, err := r.ledger.RecordTransaction(ctx, target.ID, amount, kind, label, "", nil); err != nil {
			r.p.printf("Error: %v\n", err)
		}

	case ai.ActionList:
		r.listAll()

	case ai.ActionShowSummary:
		r.showSummary()

	case ai.ActionDeleteEntry:
		target := r.resolveTarget(cmd.Payload.TargetEntryLabel)
		if target == nil {
			return
		}
		confirm, ok := r.p.readLineWithPrompt("Final confirmation to delete '" + target.Label + "'. Type 'yes' to confirm: ")
		if !ok || !strings.EqualFold(confirm, "yes") {
			r.p.println("Deletion cancelled.")
			return
		}
		if err := r.ledger.DeleteEntry(ctx, target.ID); err != nil {
			r.p.printf("Error: %v\n", err)
			return
		}
		r.p.printf("'%s' has been deleted.\n", target.Label)

	default:
		reason := cmd.Payload.Reason
		if reason == "" {
			reason = "I'm not sure how to do that."
		}
		r.p.printf("Skipping unknown step: %s\n", reason)
	}
}

// resolveTarget maps the AI's loose label guess to one active entry, asking
// the user to pick when several match.
func (r *Runner) resolveTarget(guess string) *core.LedgerEntry {
	if guess == "" {
		r.p.println("AI did not specify a target for the command (e.g., 'car loan').")
		return nil
	}

	var candidates []core.LedgerEntry
	for _, e := range r.ledger.MatchEntriesByLabel(guess) {
		if e.Status == core.StatusActive {
			candidates = append(candidates, e)
		}
	}
	switch len(candidates) {
	case 0:
		r.p.printf("Sorry, I couldn't find any active entry related to '%s'.\n", guess)
		return nil
	case 1:
		return &candidates[0]
	}

	r.p.printf("AI's command is ambiguous. I found these possible targets for '%s':\n", guess)
	for i, e := range candidates {
		r.p.printf("  [%d] %s (%s)\n", i+1, e.Label, titleCase(string(e.Kind)))
	}
	choice, ok := r.p.askString("Please select the correct one")
	if !ok {
		return nil
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(candidates) {
		r.p.println("Invalid selection. Action cancelled.")
		return nil
	}
	return &candidates[idx-1]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
