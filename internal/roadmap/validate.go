package roadmap

// The tier-monotonic, acyclic dependency property is a soft contract obtained
// by prompting the reasoning service, not a structural guarantee. The checks
// here make it structural after assembly.

// DroppedEdge records a dependency edge removed to restore acyclicity.
type DroppedEdge struct {
	NodeID       string `json:"node_id"`
	DependencyID string `json:"dependency_id"`
}

const (
	unvisited = 0
	visiting  = 1
	visited   = 2
)

// ValidateAcyclic reports a ValidationError if the roadmap's dependency graph
// contains a cycle. The roadmap is not modified.
func ValidateAcyclic(r *Roadmap) error {
	if len(detectBackEdges(r, false)) > 0 {
		return &ValidationError{Field: "dependencies", Message: "dependency graph contains a cycle"}
	}
	return nil
}

// DropCyclicEdges removes the back edges that close dependency cycles and
// returns them. Traversal follows tier and intra-tier order, so the removal
// is deterministic for a given roadmap. The result is always acyclic.
func DropCyclicEdges(r *Roadmap) []DroppedEdge {
	return detectBackEdges(r, true)
}

// detectBackEdges runs a three-color DFS over the dependency edges. When drop
// is set, back edges are removed from the nodes' dependency lists.
func detectBackEdges(r *Roadmap, drop bool) []DroppedEdge {
	index := make(map[string]*SkillNode)
	order := make([]string, 0, r.NodeCount())
	for ti := range r.Tiers {
		for si := range r.Tiers[ti].Skills {
			node := &r.Tiers[ti].Skills[si]
			index[node.ID] = node
			order = append(order, node.ID)
		}
	}

	state := make(map[string]int, len(order))
	var back []DroppedEdge

	var dfs func(id string)
	dfs = func(id string) {
		state[id] = visiting
		node := index[id]
		kept := make([]string, 0, len(node.Dependencies))
		for _, dep := range node.Dependencies {
			if index[dep] == nil {
				// Unknown reference; assembly normally strips these, but a
				// caller-constructed roadmap may still carry them.
				continue
			}
			switch state[dep] {
			case visiting:
				back = append(back, DroppedEdge{NodeID: id, DependencyID: dep})
				continue
			case unvisited:
				dfs(dep)
			}
			kept = append(kept, dep)
		}
		if drop {
			node.Dependencies = kept
		}
		state[id] = visited
	}

	for _, id := range order {
		if state[id] == unvisited {
			dfs(id)
		}
	}

	return back
}
