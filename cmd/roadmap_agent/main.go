// Package main provides the entry point for the skill roadmap generator CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "roadmap_agent",
	Short: "Skill Roadmap Generator",
	Long:  "Skill Roadmap Generator turns a learning topic, self-described level, and end goal into a tiered, dependency-linked skill graph via a cached three-stage reasoning pipeline.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
