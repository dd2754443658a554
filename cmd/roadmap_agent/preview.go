package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-roadmap/internal/fetch"
)

var previewCmd = &cobra.Command{
	Use:   "preview <url>",
	Short: "Fetch title metadata for a resource link",
	Long:  "Fetches a learning resource URL and prints its page title and HTTP status, the same check the roadmap UI uses before surfacing a link.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, args []string) error {
	preview, err := fetch.ResourcePreview(context.Background(), args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to fetch preview: %w", err)
	}

	fmt.Printf("URL:    %s\n", preview.URL)
	fmt.Printf("Status: %d\n", preview.StatusCode)
	if preview.Title != "" {
		fmt.Printf("Title:  %s\n", preview.Title)
	}
	return nil
}
