package roadmap

import "fmt"

// NoContentDescription is the sentinel substituted when the enricher returned
// nothing for a skill.
const NoContentDescription = "No content available"

// Assemble joins the three stage outputs into the final roadmap. It is a pure
// function: identical inputs always yield identical IDs and ordering, which
// the cache-hit reproducibility contract depends on.
//
// Node IDs follow the scheme tier{tierIndex}-skill{positionWithinTier}.
// Dependency names are resolved to sibling node IDs; a name that resolves to
// no assembled node is dropped rather than treated as an error. A skill
// appearing in multiple tiers keeps one node per tier, and dependency
// references to it resolve to its earliest tier's node.
func Assemble(topic string, tiers TierList, alloc *Allocation, content ContentMap) *Roadmap {
	r := &Roadmap{Topic: topic, Tiers: make([]Tier, 0, len(tiers))}

	nameToID := make(map[string]string)
	for i, label := range tiers {
		names := alloc.TierAssignment[label]
		tier := Tier{TierIndex: i, Label: label, Skills: make([]SkillNode, 0, len(names))}

		for j, name := range names {
			id := fmt.Sprintf("tier%d-skill%d", i, j)
			if _, seen := nameToID[name]; !seen {
				nameToID[name] = id
			}

			rec, ok := content[name]
			if !ok {
				rec = ContentRecord{Description: NoContentDescription}
			}
			tips := rec.Tips
			if tips == nil {
				tips = []string{}
			}

			tier.Skills = append(tier.Skills, SkillNode{
				ID:           id,
				Name:         name,
				TierIndex:    i,
				Description:  rec.Description,
				Tips:         tips,
				URL:          rec.URL,
				Dependencies: []string{},
			})
		}
		r.Tiers = append(r.Tiers, tier)
	}

	// Second pass: resolve dependency names now that every node has an ID.
	for ti := range r.Tiers {
		for si := range r.Tiers[ti].Skills {
			node := &r.Tiers[ti].Skills[si]
			for _, depName := range alloc.Dependencies[node.Name] {
				depID, ok := nameToID[depName]
				if !ok || depID == node.ID {
					continue
				}
				node.Dependencies = append(node.Dependencies, depID)
			}
		}
	}

	return r
}
