package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/skill-roadmap/internal/cache"
	"github.com/jonathan/skill-roadmap/internal/config"
	"github.com/jonathan/skill-roadmap/internal/llm"
)

// loadRuntimeConfig merges an optional JSON config file with environment
// fallbacks. Flag values are applied on top by each command.
func loadRuntimeConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newReasoningClient creates the Gemini-backed reasoning client.
func newReasoningClient(ctx context.Context, apiKey string) (llm.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set (set the environment variable or the api_key config field)")
	}
	return llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
}

// openStore connects to the PostgreSQL cache when a database URL is
// configured, and falls back to an in-process cache otherwise. The returned
// cleanup closes the connection pool when one was opened.
func openStore(ctx context.Context, databaseURL string) (cache.Store, func(), error) {
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "Warning: DATABASE_URL not set, using in-process cache (results are not persisted)")
		return cache.NewMemoryStore(), func() {}, nil
	}

	store, err := cache.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, store.Close, nil
}
