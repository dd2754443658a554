// Package layout computes spatial positions, drawable dependency edges, and
// hover-highlight sets for an assembled roadmap. It operates purely on tier
// membership, per-tier ordering, and fixed geometry constants so that
// position computation is unit-testable without a rendering surface; mapping
// to real pixels is the presentation layer's problem.
package layout

import (
	"github.com/jonathan/skill-roadmap/internal/roadmap"
)

// Geometry constants, in abstract surface units.
const (
	NodeWidth  = 160.0
	NodeHeight = 56.0
	NodeGapX   = 32.0
	RowGapY    = 120.0
	PaddingX   = 24.0
	PaddingY   = 24.0
)

// Point is a 2D coordinate on the layout surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeBox is the computed anchor rectangle for one skill node.
type NodeBox struct {
	ID        string  `json:"id"`
	TierIndex int     `json:"tier_index"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Top returns the top-center anchor, where incoming edges attach.
func (b NodeBox) Top() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y}
}

// Bottom returns the bottom-center anchor, where outgoing edges leave.
func (b NodeBox) Bottom() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height}
}

// Edge is one drawable dependency curve from a prerequisite's anchor to the
// dependent node's anchor, with cubic Bezier control points.
type Edge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	From   Point  `json:"from"`
	To     Point  `json:"to"`
	C1     Point  `json:"c1"`
	C2     Point  `json:"c2"`
}

// Layout holds the computed geometry for one roadmap. It is derived state:
// recomputed whenever the node set or surface changes, never persisted.
type Layout struct {
	Width  float64            `json:"width"`
	Height float64            `json:"height"`
	Rows   [][]string         `json:"rows"`
	Boxes  map[string]NodeBox `json:"boxes"`
	Edges  []Edge             `json:"edges"`
}

// Compute lays the roadmap out on a surface of the given width. Nodes in a
// tier form one horizontal row; tiers stack vertically in ascending order.
// The computation is idempotent: the same roadmap and width always produce
// the same layout.
func Compute(r *roadmap.Roadmap, surfaceWidth float64) *Layout {
	l := &Layout{
		Width: surfaceWidth,
		Rows:  make([][]string, 0, len(r.Tiers)),
		Boxes: make(map[string]NodeBox),
	}

	for i, tier := range r.Tiers {
		row := make([]string, 0, len(tier.Skills))
		y := PaddingY + float64(i)*(NodeHeight+RowGapY)

		rowWidth := float64(len(tier.Skills))*NodeWidth + float64(max(len(tier.Skills)-1, 0))*NodeGapX
		startX := (surfaceWidth - rowWidth) / 2
		if startX < PaddingX {
			startX = PaddingX
		}

		for j, skill := range tier.Skills {
			box := NodeBox{
				ID:        skill.ID,
				TierIndex: i,
				X:         startX + float64(j)*(NodeWidth+NodeGapX),
				Y:         y,
				Width:     NodeWidth,
				Height:    NodeHeight,
			}
			l.Boxes[skill.ID] = box
			row = append(row, skill.ID)
		}
		l.Rows = append(l.Rows, row)
	}

	if n := len(r.Tiers); n > 0 {
		l.Height = PaddingY*2 + float64(n)*NodeHeight + float64(n-1)*RowGapY
	}

	l.Edges = computeEdges(r, l.Boxes)
	return l
}

// computeEdges produces one drawable curve per resolvable dependency. An edge
// whose endpoint is missing from the position index is silently dropped,
// which supports partial layout while nodes stream in.
func computeEdges(r *roadmap.Roadmap, boxes map[string]NodeBox) []Edge {
	edges := make([]Edge, 0)
	for _, tier := range r.Tiers {
		for _, skill := range tier.Skills {
			to, ok := boxes[skill.ID]
			if !ok {
				continue
			}
			for _, depID := range skill.Dependencies {
				from, ok := boxes[depID]
				if !ok {
					continue
				}
				start := from.Bottom()
				end := to.Top()
				midY := (start.Y + end.Y) / 2
				edges = append(edges, Edge{
					FromID: depID,
					ToID:   skill.ID,
					From:   start,
					To:     end,
					C1:     Point{X: start.X, Y: midY},
					C2:     Point{X: end.X, Y: midY},
				})
			}
		}
	}
	return edges
}
