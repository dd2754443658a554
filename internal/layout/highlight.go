package layout

import (
	"github.com/jonathan/skill-roadmap/internal/roadmap"
)

// HighlightSet returns the IDs to emphasize while hoveredID is hovered:
// exactly the hovered node and its direct one-hop dependencies. Transitive
// dependencies and dependents are never included. An empty or unknown
// hoveredID yields an empty set.
func HighlightSet(r *roadmap.Roadmap, hoveredID string) map[string]bool {
	set := make(map[string]bool)
	if hoveredID == "" {
		return set
	}

	node := r.Node(hoveredID)
	if node == nil {
		return set
	}

	set[hoveredID] = true
	for _, depID := range node.Dependencies {
		set[depID] = true
	}
	return set
}

// TierComplete reports whether every skill node in the tier is in the local
// completion set. It is a pure derived predicate over client-local state.
func TierComplete(tier roadmap.Tier, completed map[string]bool) bool {
	for _, skill := range tier.Skills {
		if !completed[skill.ID] {
			return false
		}
	}
	return true
}

// CompletedTierCount returns how many tiers of the roadmap are complete.
func CompletedTierCount(r *roadmap.Roadmap, completed map[string]bool) int {
	count := 0
	for _, tier := range r.Tiers {
		if TierComplete(tier, completed) {
			count++
		}
	}
	return count
}
