// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skill-roadmap/internal/roadmap"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStage outputs a one-line progress marker for a resolved stage.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStage(stage roadmap.Stage, cacheHit bool) {
	source := "generated"
	if cacheHit {
		source = "cache hit"
	}
	fmt.Fprintf(p.out, "  [%s] %s\n", stage, source)
}

// PrintRequest outputs a summary of the incoming topic request.
func (p *Printer) PrintRequest(req roadmap.Request) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:  %s\n", req.Topic))
	sb.WriteString(fmt.Sprintf("Level:  %s\n", req.LevelDescription))
	sb.WriteString(fmt.Sprintf("Goal:   %s", req.EndGoal))
	p.printBox("Roadmap Request", sb.String())
}

// PrintRoadmap outputs a human-readable summary of the assembled roadmap.
func (p *Printer) PrintRoadmap(r *roadmap.Roadmap) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tiers:  %d\n", len(r.Tiers)))
	sb.WriteString(fmt.Sprintf("Skills: %d\n", r.NodeCount()))

	for i, tier := range r.Tiers {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more tiers\n", len(r.Tiers)-maxItemsToShow))
			break
		}
		names := make([]string, 0, len(tier.Skills))
		for _, s := range tier.Skills {
			names = append(names, s.Name)
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, tier.Label, strings.Join(names, ", ")))
	}

	p.printBox(fmt.Sprintf("Roadmap: %s", r.Topic), strings.TrimRight(sb.String(), "\n"))
}

// PrintDroppedEdges reports dependency edges removed by cycle validation.
func (p *Printer) PrintDroppedEdges(dropped []roadmap.DroppedEdge) {
	if len(dropped) == 0 {
		return
	}

	var sb strings.Builder
	for _, d := range dropped {
		sb.WriteString(fmt.Sprintf("%s -> %s\n", d.NodeID, d.DependencyID))
	}
	p.printBox("Dropped cyclic dependencies", strings.TrimRight(sb.String(), "\n"))
}
