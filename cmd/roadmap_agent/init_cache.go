package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-roadmap/internal/cache"
)

var initCacheCmd = &cobra.Command{
	Use:   "init-cache",
	Short: "Create the cache tables in PostgreSQL",
	Long:  "Creates the tier lookup, allocation, and content cache tables if they do not already exist.",
	RunE:  runInitCache,
}

var initCacheDatabaseURL string

func init() {
	initCacheCmd.Flags().StringVar(&initCacheDatabaseURL, "db-url", "", "Database URL (default: DATABASE_URL environment variable)")
	rootCmd.AddCommand(initCacheCmd)
}

func runInitCache(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := initCacheDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}

	store, err := cache.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.CreateSchema(ctx); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}

	fmt.Println("Cache schema created")
	return nil
}
