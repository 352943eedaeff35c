package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"rupped-negotiator/internal/config"
	"rupped-negotiator/internal/http"
	"rupped-negotiator/internal/llm"
	"rupped-negotiator/internal/service"
	"rupped-negotiator/internal/storage"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API relays price negotiations between the Rupped storefront and a local Ollama model.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Rupped AI Negotiation API
//   description: |
//     Negotiation backend for the Rupped storefront. Replies are streamed sentence by sentence,
//     returned in one piece, or computed by a rule-based fallback that needs no model.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json
//   - text/event-stream

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Transcripts are optional; the interfaces stay nil when disabled.
	var (
		recorder        service.TranscriptRecorder
		transcriptStore storage.TranscriptStore
	)
	if cfg.DBPath != "" {
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer func() {
			_ = db.Close()
		}()

		if err := storage.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		repo := storage.NewTranscriptRepo(db)
		recorder = repo
		transcriptStore = repo
		slog.Info("Database initialized", "path", cfg.DBPath)
	} else {
		slog.Info("Transcript logging disabled")
	}

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.OllamaBaseURL, cfg.ModelName, llm.Timeouts{
		Generate: cfg.GenerateTimeout,
		List:     cfg.ListTimeout,
		Pull:     cfg.PullTimeout,
	})

	negotiationService := service.NewNegotiationService(llmClient, recorder, service.Options{
		Model:       cfg.ModelName,
		Temperature: cfg.Temperature,
		WindowSize:  cfg.HistoryWindow,
		MockDelay:   cfg.MockDelay,
	})

	// Create router with dependencies
	router := http.NewRouter(&http.Deps{
		NegotiationService: negotiationService,
		Catalog:            llmClient,
		ModelName:          cfg.ModelName,
		HealthTimeout:      cfg.HealthTimeout,
		TranscriptStore:    transcriptStore,
		AllowedOrigins:     cfg.AllowedOrigins,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)

	// Start API server
	eg.Go(func() error {
		slog.Info("Starting API server", "addr", server.Addr)
		slog.Debug("LLM configuration", "base_url", cfg.OllamaBaseURL, "model", cfg.ModelName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Shut down when a signal arrives or the server fails
	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		slog.Error("API server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("API server stopped")
}
