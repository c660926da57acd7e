package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/config"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/setup"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

const serverVersion = "1.0.0"

func main() {
	logger.SetupConsole("info")

	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	logger.SetupConsole(cfg.LogLevel)

	if err := cfg.Validate(config.PurposeQuery); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	deps, err := setup.Wire(ctx, cfg, config.PurposeQuery)
	if err != nil {
		log.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := mcpadapter.NewServer(deps.Service, deps.Retriever, serverVersion)

	// Run over stdio
	err = server.Run(ctx, &mcp.StdioTransport{})
	deps.Close()
	if err != nil {
		// stdin closing ends the session
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			log.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		log.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
