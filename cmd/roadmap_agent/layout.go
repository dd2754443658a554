package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-roadmap/internal/layout"
	"github.com/jonathan/skill-roadmap/internal/roadmap"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Compute graph geometry for a generated roadmap",
	Long:  "Reads a roadmap JSON file and computes node boxes and dependency edge curves for the given surface width. With --node, prints the one-hop highlight set for that node instead.",
	RunE:  runLayout,
}

var (
	layoutInput  string
	layoutWidth  float64
	layoutNodeID string
)

func init() {
	layoutCmd.Flags().StringVarP(&layoutInput, "input", "i", "", "Roadmap JSON file (required)")
	layoutCmd.Flags().Float64VarP(&layoutWidth, "width", "w", 1200, "Surface width to lay out against")
	layoutCmd.Flags().StringVar(&layoutNodeID, "node", "", "Node ID to compute the highlight set for")

	if err := layoutCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(layoutCmd)
}

// readRoadmapFile loads a roadmap from a JSON file, accepting either a bare
// roadmap object or the wrapped result the generate command emits.
func readRoadmapFile(path string) (*roadmap.Roadmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roadmap file: %w", err)
	}

	var wrapped roadmap.Result
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Roadmap != nil && len(wrapped.Roadmap.Tiers) > 0 {
		return wrapped.Roadmap, nil
	}

	var rm roadmap.Roadmap
	if err := json.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("failed to parse roadmap JSON: %w", err)
	}
	return &rm, nil
}

func runLayout(_ *cobra.Command, _ []string) error {
	if layoutWidth <= 0 {
		return fmt.Errorf("width must be greater than 0, got %v", layoutWidth)
	}

	rm, err := readRoadmapFile(layoutInput)
	if err != nil {
		return err
	}

	var out any
	if layoutNodeID != "" {
		highlighted := layout.HighlightSet(rm, layoutNodeID)
		ids := make([]string, 0, len(highlighted))
		for id := range highlighted {
			ids = append(ids, id)
		}
		out = map[string]any{"node": layoutNodeID, "highlighted": ids}
	} else {
		out = layout.Compute(rm, layoutWidth)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
