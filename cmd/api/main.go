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

	"tanya-konstitusi/internal/config"
	"tanya-konstitusi/internal/engine"
	"tanya-konstitusi/internal/http"
	"tanya-konstitusi/internal/proofing"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/service"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers questions about the Indonesian constitution by ranking a
// question/answer corpus with TF-IDF, word2vec or doc2vec.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Tanya Konstitusi API
//   description: |
//     Retrieval QA API. Ask with GET /{algorithm}/?q=...&num_rank=N where
//     algorithm is one of tfidf, word2vec or doc2vec.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing bundle is not fatal: the model stays unavailable and
	// /api/health reports it.
	models := make(map[retrieval.Kind]service.Retriever, len(cfg.Models))
	for _, k := range cfg.Models {
		m, err := engine.Load(ctx, cfg.CacheDir, k)
		if err != nil {
			slog.Warn("Model not loaded", "model", k.String(), "dir", engine.CacheDir(cfg.CacheDir, k), "error", err)
			continue
		}
		models[k] = m
		slog.Info("Model loaded", "model", k.String(), "id", m.ID(), "records", m.Corpus().Len())
	}
	if len(models) == 0 {
		slog.Warn("No models loaded; run `qa train` first", "cache_dir", cfg.CacheDir)
	}

	var checker service.Checker
	if cfg.EnableProofing {
		c, err := proofing.Load(cfg.DictionaryPath, cfg.CustomDictionaryPath)
		if err != nil {
			log.Fatalf("Failed to load dictionary: %v", err)
		}
		checker = c
		slog.Info("Dictionary loaded", "path", cfg.DictionaryPath, "words", c.Len())
	}

	qaService := service.NewQAService(models, checker)

	router := http.NewRouter(&http.Deps{
		QAService: qaService,
		Models:    cfg.Models,
		NumRank:   cfg.NumRank,
	})

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
