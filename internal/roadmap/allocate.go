package roadmap

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/skill-roadmap/internal/cache"
	"github.com/jonathan/skill-roadmap/internal/llm"
	"github.com/jonathan/skill-roadmap/internal/prompts"
)

// skillHarvest mirrors the harvest response: { "skills": [...] }.
type skillHarvest struct {
	Skills []string `json:"skills"`
}

// categorization mirrors the categorization response:
// { "layering": {tier: [skill...]}, "dependencies": {skill: [skill...]} }.
type categorization struct {
	Layering     map[string][]string `json:"layering"`
	Dependencies map[string][]string `json:"dependencies"`
}

// allocateSkills derives the full skill set, assigns skills to tiers, and
// derives dependency edges. The two reasoning-service sub-calls are strictly
// sequential: the categorization prompt embeds the harvest output, so it is
// not issued until the harvest completes. Neither sub-call's partial result
// is ever cached on failure.
func (g *Generator) allocateSkills(ctx context.Context, topic string, tiers TierList) (*Allocation, error) {
	key, err := compositeKey(topic, tiers)
	if err != nil {
		return nil, err
	}

	payload, hit, err := g.flight.GetOrFill(ctx, cache.NamespaceAllocation, key, func(ctx context.Context) (json.RawMessage, error) {
		// 1. Harvest the full candidate skill set, independent of tiering.
		harvestPrompt := prompts.Format(prompts.MustGet("roadmap.json", "harvest-skills"), map[string]string{
			"Topic": topic,
		})
		raw, err := g.client.GenerateJSON(ctx, harvestPrompt, llm.TierStandard)
		if err != nil {
			return nil, &ServiceError{Stage: StageAllocation, Message: "skill harvest call failed", Cause: err}
		}
		var harvest skillHarvest
		if err := json.Unmarshal([]byte(raw), &harvest); err != nil {
			return nil, &ServiceError{Stage: StageAllocation, Message: "malformed harvest response", Cause: err}
		}
		if len(harvest.Skills) == 0 {
			return nil, &ServiceError{Stage: StageAllocation, Message: "harvest response contained no skills"}
		}

		// 2. Categorize the harvested skills into tiers and derive dependencies.
		categorizePrompt := prompts.Format(prompts.MustGet("roadmap.json", "categorize-skills"), map[string]string{
			"Topic":  topic,
			"Skills": strings.Join(harvest.Skills, ", "),
			"Tiers":  strings.Join(tiers, ", "),
		})
		raw, err = g.client.GenerateJSON(ctx, categorizePrompt, llm.TierAdvanced)
		if err != nil {
			return nil, &ServiceError{Stage: StageAllocation, Message: "categorization call failed", Cause: err}
		}
		var cat categorization
		if err := json.Unmarshal([]byte(raw), &cat); err != nil {
			return nil, &ServiceError{Stage: StageAllocation, Message: "malformed categorization response", Cause: err}
		}

		alloc := Allocation{
			TierAssignment: cat.Layering,
			SkillSet:       flattenSkills(tiers, cat.Layering),
			Dependencies:   cat.Dependencies,
		}
		return json.Marshal(alloc)
	})
	if err != nil {
		return nil, err
	}
	g.progress(StageAllocation, hit)

	var alloc Allocation
	if err := json.Unmarshal(payload, &alloc); err != nil {
		return nil, &ServiceError{Stage: StageAllocation, Message: "corrupt cache entry", Cause: err}
	}
	return &alloc, nil
}

// flattenSkills flattens the per-tier lists into a de-duplicated skill set.
// A skill appearing in multiple tiers counts once. Iteration follows the tier
// list order rather than map order so the result is deterministic; layering
// labels that are not in the tier list contribute nothing.
func flattenSkills(tiers TierList, layering map[string][]string) []string {
	seen := make(map[string]bool)
	flat := make([]string, 0)
	for _, label := range tiers {
		for _, skill := range layering[label] {
			if !seen[skill] {
				seen[skill] = true
				flat = append(flat, skill)
			}
		}
	}
	return flat
}
