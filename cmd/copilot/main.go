package main

import (
	"context"
	"os"
	"time"

	"copilot/internal/ai"
	"copilot/internal/cli"
	"copilot/internal/repo"
	"copilot/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenStore(logger, cfg)
	defer store.Close()

	ctx := context.Background()
	dataset, err := store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load data", "error", err)
		os.Exit(1)
	}

	ledger := services.NewLedger(repo.NewLedger(), repo.NewTransactions(), repo.NewJournal(), repo.NewNetWorth())
	ledger.Hydrate(dataset)
	advisor := services.NewAdvisor(ledger)

	analyser := ai.NewAnalyser(ai.Config{
		APIKey:      cfg.OpenRouterAPIKey,
		Model:       cfg.AIModel,
		ParserModel: cfg.AIParserModel,
		Timeout:     cfg.AITimeout,
	})
	if !analyser.Enabled() {
		logger.Info("AI features disabled, set OPENROUTER_API_KEY to enable them")
	}

	// Save on interrupt as well as on a normal quit.
	runCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := store.Save(context.Background(), ledger.Snapshot()); err != nil {
			logger.Error("Failed to save data on shutdown", "error", err)
		}
	})

	runner := cli.NewRunner(os.Stdin, os.Stdout, ledger, advisor, analyser, cfg.ExportDir)
	runner.Run(runCtx)

	select {
	case <-done:
		// Signal path already saved.
	default:
		if err := store.Save(ctx, ledger.Snapshot()); err != nil {
			logger.Error("Failed to save data", "error", err)
			os.Exit(1)
		}
		logger.Info("Data saved, goodbye")
	}
}
