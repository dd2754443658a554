// Package roadmap implements the three-stage, cache-backed pipeline that
// turns (topic, self-described level, end goal) into a tiered,
// dependency-linked graph of skill nodes.
package roadmap

import "github.com/go-playground/validator/v10"

// Request is the immutable input to the pipeline.
type Request struct {
	Topic            string `json:"topic" validate:"required"`
	LevelDescription string `json:"level_description" validate:"required"`
	EndGoal          string `json:"end_goal" validate:"required"`
}

// Validate validates the Request using the validator.
func (r *Request) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// TierList is an ordered sequence of tier labels, ascending in difficulty.
// Order is significant and is preserved through every later stage.
type TierList []string

// Allocation is the output of the skill-allocation stage: per-tier skill
// lists, the flattened de-duplicated skill set, and the dependency map
// between skill names.
type Allocation struct {
	TierAssignment map[string][]string `json:"tier_assignment"`
	SkillSet       []string            `json:"skill_set"`
	Dependencies   map[string][]string `json:"dependencies"`
}

// ContentRecord holds the learning content generated for a single skill.
// URL is nil when the reasoning service found no reasonable resource, which
// is an expected state rather than an error.
type ContentRecord struct {
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
	URL         *string  `json:"url"`
}

// ContentMap keys content records by skill name. A skill absent from the map
// simply has no content available.
type ContentMap map[string]ContentRecord

// SkillNode is an assembled, content-enriched unit of learning with a stable
// ID, tier membership, and dependency edges referencing sibling node IDs.
// Completed is client-local state and is never persisted server-side.
type SkillNode struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	TierIndex    int      `json:"tier_index"`
	Description  string   `json:"description"`
	Tips         []string `json:"tips"`
	URL          *string  `json:"url"`
	Dependencies []string `json:"dependencies"`
	Completed    bool     `json:"completed"`
}

// Tier is one ordered difficulty bucket of the assembled roadmap.
type Tier struct {
	TierIndex int         `json:"tier_index"`
	Label     string      `json:"label"`
	Skills    []SkillNode `json:"skills"`
}

// Roadmap is the fully assembled result. It is produced fresh per request and
// never mutated after assembly except by the client's completion overlay.
type Roadmap struct {
	Topic string `json:"topic"`
	Tiers []Tier `json:"tiers"`
}

// Node returns the skill node with the given ID, or nil if absent.
func (r *Roadmap) Node(id string) *SkillNode {
	for ti := range r.Tiers {
		for si := range r.Tiers[ti].Skills {
			if r.Tiers[ti].Skills[si].ID == id {
				return &r.Tiers[ti].Skills[si]
			}
		}
	}
	return nil
}

// NodeCount returns the total number of skill nodes across all tiers.
func (r *Roadmap) NodeCount() int {
	n := 0
	for _, t := range r.Tiers {
		n += len(t.Skills)
	}
	return n
}
