package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"copilot/internal/ai"
	"copilot/internal/cli"
	apphttp "copilot/internal/http"
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

	srv := apphttp.NewServer(":"+cfg.Port, logger, ledger, advisor, analyser)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 120 * time.Second // AI calls can run long
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		logger.Info("Starting copilot server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := store.Save(shutdownCtx, ledger.Snapshot()); err != nil {
			logger.Error("Failed to save data on shutdown", "error", err)
			return err
		}
		logger.Info("Data saved")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
