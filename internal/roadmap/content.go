package roadmap

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/skill-roadmap/internal/cache"
	"github.com/jonathan/skill-roadmap/internal/llm"
	"github.com/jonathan/skill-roadmap/internal/prompts"
)

// enrichContent derives description/tips/resource content for every skill in
// the de-duplicated set with one reasoning-service call. A skill absent from
// the returned map is "no content available", handled by the assembler; only
// malformed top-level JSON is fatal for the stage.
func (g *Generator) enrichContent(ctx context.Context, topic string, skillSet []string) (ContentMap, error) {
	key, err := compositeKey(topic, skillSet)
	if err != nil {
		return nil, err
	}

	payload, hit, err := g.flight.GetOrFill(ctx, cache.NamespaceContent, key, func(ctx context.Context) (json.RawMessage, error) {
		prompt := prompts.Format(prompts.MustGet("roadmap.json", "skill-content"), map[string]string{
			"Topic":  topic,
			"Skills": strings.Join(skillSet, ", "),
		})

		raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			return nil, &ServiceError{Stage: StageContent, Message: "content call failed", Cause: err}
		}

		var content ContentMap
		if err := json.Unmarshal([]byte(raw), &content); err != nil {
			return nil, &ServiceError{Stage: StageContent, Message: "malformed content response", Cause: err}
		}

		return json.Marshal(content)
	})
	if err != nil {
		return nil, err
	}
	g.progress(StageContent, hit)

	var content ContentMap
	if err := json.Unmarshal(payload, &content); err != nil {
		return nil, &ServiceError{Stage: StageContent, Message: "corrupt cache entry", Cause: err}
	}
	return content, nil
}
