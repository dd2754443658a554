package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-roadmap/internal/observability"
	"github.com/jonathan/skill-roadmap/internal/roadmap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a skill roadmap for a topic",
	Long:  "Runs the three-stage reasoning pipeline (tier ranking, skill allocation, content enrichment) for a topic and prints the assembled roadmap as JSON. Stage results are cached so repeated requests for the same topic are served without new reasoning calls.",
	RunE:  runGenerate,
}

var (
	generateTopic      string
	generateLevel      string
	generateGoal       string
	generateConfigPath string
	generateOutput     string
	generateTimeout    int
	generateVerbose    bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateTopic, "topic", "t", "", "Topic to learn (required)")
	generateCmd.Flags().StringVarP(&generateLevel, "level", "l", "", "Self-described current level (required)")
	generateCmd.Flags().StringVarP(&generateGoal, "goal", "g", "", "End goal for learning the topic (required)")
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to JSON config file")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().IntVar(&generateTimeout, "timeout", 0, "End-to-end deadline in seconds (default: 300)")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print stage progress and a roadmap summary")

	if err := generateCmd.MarkFlagRequired("topic"); err != nil {
		panic(fmt.Sprintf("failed to mark topic flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("level"); err != nil {
		panic(fmt.Sprintf("failed to mark level flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("goal"); err != nil {
		panic(fmt.Sprintf("failed to mark goal flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadRuntimeConfig(generateConfigPath)
	if err != nil {
		return err
	}
	if generateTimeout > 0 {
		cfg.TimeoutSeconds = generateTimeout
	}
	if generateVerbose {
		cfg.Verbose = true
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

	printer := observability.NewPrinter(os.Stdout)
	req := roadmap.Request{
		Topic:            generateTopic,
		LevelDescription: generateLevel,
		EndGoal:          generateGoal,
	}

	opts := roadmap.Options{
		Client:        client,
		Store:         store,
		Timeout:       cfg.Timeout(),
		MaxConcurrent: cfg.MaxConcurrent,
	}
	if cfg.Verbose {
		printer.PrintRequest(req)
		opts.OnProgress = printer.PrintStage
	}

	gen, err := roadmap.NewGenerator(opts)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := gen.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("roadmap generation failed: %w", err)
	}

	if cfg.Verbose {
		fmt.Printf("Generated in %v\n", time.Since(start).Round(time.Millisecond))
		printer.PrintRoadmap(result.Roadmap)
		printer.PrintDroppedEdges(result.DroppedEdges)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap: %w", err)
	}

	if generateOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(generateOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Roadmap written to %s\n", generateOutput)
	return nil
}
