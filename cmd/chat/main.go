package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/chat"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/config"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/setup"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.SetupConsole("info")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.SetupConsole(cfg.LogLevel)

	if err := cfg.Validate(config.PurposeQuery); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, config.PurposeQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer deps.Close()

	loop := chat.NewLoop(deps.Service, os.Stdin, os.Stdout)
	if err := loop.Run(ctx); err != nil {
		deps.Close()
		log.Fatal().Err(err).Str("state", loop.State().String()).Msg("Chat session failed")
	}
}
