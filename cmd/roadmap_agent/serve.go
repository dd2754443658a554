package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-roadmap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for roadmap generation, graph layout, and per-skill knowledge checks.`,
	RunE:  runServe,
}

var (
	servePort       int
	serveConfigPath string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadRuntimeConfig(serveConfigPath)
	if err != nil {
		return err
	}
	port := servePort
	if cfg.Port != 0 {
		port = cfg.Port
	}

	client, err := newReasoningClient(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	store, closeStore, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeStore()

	srv, err := server.New(server.Config{
		Port:          port,
		Client:        client,
		Store:         store,
		Timeout:       cfg.Timeout(),
		MaxConcurrent: int(cfg.MaxConcurrent),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
