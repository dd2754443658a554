package roadmap

import (
	"context"
	"encoding/json"

	"github.com/jonathan/skill-roadmap/internal/cache"
	"github.com/jonathan/skill-roadmap/internal/llm"
	"github.com/jonathan/skill-roadmap/internal/prompts"
)

// tierRanking mirrors the reasoning-service response for the tier-lookup
// stage: { "ranking": ["v4", "v5", ...] }.
type tierRanking struct {
	Ranking []string `json:"ranking"`
}

// resolveTiers derives the ordered difficulty tiers for the topic. The
// tier-lookup namespace is keyed by the raw topic string, so two users with
// different level descriptions share one ranking per topic.
func (g *Generator) resolveTiers(ctx context.Context, req Request) (TierList, error) {
	payload, hit, err := g.flight.GetOrFill(ctx, cache.NamespaceTierLookup, req.Topic, func(ctx context.Context) (json.RawMessage, error) {
		template := prompts.MustGet("roadmap.json", "rank-tiers")
		prompt := prompts.Format(template, map[string]string{
			"Topic":            req.Topic,
			"LevelDescription": req.LevelDescription,
			"EndGoal":          req.EndGoal,
		})

		raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			return nil, &ServiceError{Stage: StageTierLookup, Message: "ranking call failed", Cause: err}
		}

		var parsed tierRanking
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, &ServiceError{Stage: StageTierLookup, Message: "malformed ranking response", Cause: err}
		}
		if len(parsed.Ranking) == 0 {
			return nil, &ServiceError{Stage: StageTierLookup, Message: "ranking response contained no tiers"}
		}

		return json.Marshal(parsed)
	})
	if err != nil {
		return nil, err
	}
	g.progress(StageTierLookup, hit)

	var parsed tierRanking
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &ServiceError{Stage: StageTierLookup, Message: "corrupt cache entry", Cause: err}
	}
	return TierList(parsed.Ranking), nil
}
