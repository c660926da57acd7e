package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/config"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/setup"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	reset := flag.Bool("reset", false, "Delete the collection before ingesting")
	count := flag.Bool("count", false, "Print the number of stored chunks and exit")
	flag.Parse()

	logger.SetupConsole("info")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.SetupConsole(cfg.LogLevel)

	purpose := config.PurposeIngest
	if *count {
		purpose = config.PurposeMaintenance
	}
	if err := cfg.Validate(purpose); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, purpose)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer deps.Close()

	if *count {
		total, err := deps.Store.CountDocuments(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to count documents")
		}
		fmt.Printf("%d chunks in collection %s\n", total, cfg.Collection)
		return
	}

	if *reset {
		if err := deps.Store.DeleteCollection(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset collection")
		}
	}

	written, err := deps.Pipeline.Ingest(ctx, cfg.PDFPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.PDFPath).Msg("Ingestion failed")
	}

	fmt.Printf("Ingested %d chunks from %s into %s\n", written, cfg.PDFPath, cfg.Collection)
}
