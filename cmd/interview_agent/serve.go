package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-agents/internal/config"
	"github.com/jonathan/interview-agents/internal/llm"
	"github.com/jonathan/interview-agents/internal/logger"
	"github.com/jonathan/interview-agents/internal/pipeline"
	"github.com/jonathan/interview-agents/internal/search"
	"github.com/jonathan/interview-agents/internal/server"
	"github.com/jonathan/interview-agents/internal/store"
)

var (
	serveAddr  string
	serveJSON  bool
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running interviews.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to LISTEN_ADDR or :8000)")
	serveCmd.Flags().BoolVar(&serveJSON, "json", true, "Log in JSON format")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		settings.ListenAddr = serveAddr
	}

	log, err := logger.New(serveJSON, serveDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	llmCfg, err := settings.LLMConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(log)}
	serverOpts := []server.Option{server.WithLogger(log)}

	if settings.DatabaseURL != "" {
		st, err := store.Connect(ctx, settings.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		pipelineOpts = append(pipelineOpts, pipeline.WithStore(st))
		serverOpts = append(serverOpts, server.WithStore(st))
	} else {
		log.Warn("DATABASE_URL not set, running without persistence")
	}

	if vs, err := search.New(ctx, settings.OpenSearchHost, settings.OpenSearchPort); err != nil {
		log.Warn("OpenSearch unavailable, running without vector indexing", zap.Error(err))
	} else {
		pipelineOpts = append(pipelineOpts, pipeline.WithSearch(vs))
		serverOpts = append(serverOpts, server.WithSearch(vs))
	}

	orchestrator := pipeline.New(client, pipelineOpts...)
	srv := server.New(server.Config{Addr: settings.ListenAddr}, orchestrator, serverOpts...)

	log.Info("configured LLM gateway",
		zap.String(logger.FieldProvider, settings.Provider),
		zap.String(logger.FieldModel, client.Model()))

	return srv.Start()
}
