package roadmap

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-roadmap/internal/cache"
	"github.com/jonathan/skill-roadmap/internal/llm"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

// stageCalls counts reasoning-service calls per stage prompt.
type stageCalls struct {
	ranking    atomic.Int32
	harvest    atomic.Int32
	categorize atomic.Int32
	content    atomic.Int32
}

// scriptedClient answers each pipeline prompt with a fixed rust-programming
// fixture matching the prompt templates in internal/prompts/roadmap.json.
func scriptedClient(calls *stageCalls) *MockLLMClient {
	return &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			switch {
			case strings.Contains(prompt, `"ranking"`):
				calls.ranking.Add(1)
				return `{"ranking": ["beginner", "intermediate", "advanced"]}`, nil
			case strings.Contains(prompt, `"skills"`):
				calls.harvest.Add(1)
				return `{"skills": ["ownership", "lifetimes", "async"]}`, nil
			case strings.Contains(prompt, `"layering"`):
				calls.categorize.Add(1)
				return `{
					"layering": {"beginner": ["ownership"], "intermediate": ["lifetimes"], "advanced": ["async"]},
					"dependencies": {"lifetimes": ["ownership"], "async": ["lifetimes"]}
				}`, nil
			case strings.Contains(prompt, "web resource"):
				calls.content.Add(1)
				return `{
					"ownership": {"description": "Move semantics", "tips": ["Read the book"], "url": "https://example.com/ownership"},
					"lifetimes": {"description": "Reference validity", "tips": ["Elision first"], "url": null},
					"async": {"description": "Futures", "tips": ["Use tokio"], "url": null}
				}`, nil
			}
			return "", assert.AnError
		},
	}
}

func rustRequest() Request {
	return Request{
		Topic:            "rust programming",
		LevelDescription: "wrote hello world once",
		EndGoal:          "ship a web service",
	}
}

func newTestGenerator(t *testing.T, client llm.Client, store cache.Store) *Generator {
	t.Helper()
	gen, err := NewGenerator(Options{Client: client, Store: store})
	require.NoError(t, err)
	return gen
}

func TestGenerate_EndToEnd(t *testing.T) {
	var calls stageCalls
	gen := newTestGenerator(t, scriptedClient(&calls), cache.NewMemoryStore())

	result, err := gen.Generate(context.Background(), rustRequest())
	require.NoError(t, err)
	require.NotNil(t, result.Roadmap)
	assert.Empty(t, result.DroppedEdges)

	r := result.Roadmap
	require.Len(t, r.Tiers, 3)
	assert.Equal(t, "tier0-skill0", r.Tiers[0].Skills[0].ID)
	assert.Equal(t, "ownership", r.Tiers[0].Skills[0].Name)
	assert.Equal(t, []string{"tier0-skill0"}, r.Tiers[1].Skills[0].Dependencies)
	assert.Equal(t, []string{"tier1-skill0"}, r.Tiers[2].Skills[0].Dependencies)
	require.NotNil(t, r.Tiers[0].Skills[0].URL)
	assert.Equal(t, "https://example.com/ownership", *r.Tiers[0].Skills[0].URL)
}

func TestGenerate_IdempotentCacheHit(t *testing.T) {
	var calls stageCalls
	store := cache.NewMemoryStore()
	gen := newTestGenerator(t, scriptedClient(&calls), store)
	ctx := context.Background()

	first, err := gen.Generate(ctx, rustRequest())
	require.NoError(t, err)

	second, err := gen.Generate(ctx, rustRequest())
	require.NoError(t, err)

	// At most one reasoning-service call per stage across both runs.
	assert.Equal(t, int32(1), calls.ranking.Load())
	assert.Equal(t, int32(1), calls.harvest.Load())
	assert.Equal(t, int32(1), calls.categorize.Load())
	assert.Equal(t, int32(1), calls.content.Load())

	// Byte-identical outputs.
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestGenerate_HarvestStrictlyPrecedesCategorization(t *testing.T) {
	var order []string
	var mu sync.Mutex

	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			switch {
			case strings.Contains(prompt, `"ranking"`):
				order = append(order, "ranking")
				return `{"ranking": ["beginner"]}`, nil
			case strings.Contains(prompt, `"skills"`):
				order = append(order, "harvest")
				return `{"skills": ["basics"]}`, nil
			case strings.Contains(prompt, `"layering"`):
				order = append(order, "categorize")
				// The categorization prompt must embed the harvest output.
				assert.Contains(t, prompt, "basics")
				return `{"layering": {"beginner": ["basics"]}, "dependencies": {}}`, nil
			default:
				order = append(order, "content")
				return `{}`, nil
			}
		},
	}

	gen := newTestGenerator(t, client, cache.NewMemoryStore())
	_, err := gen.Generate(context.Background(), rustRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"ranking", "harvest", "categorize", "content"}, order)
}

func TestGenerate_ConcurrentRequestsOneWritePerNamespace(t *testing.T) {
	var calls stageCalls
	store := cache.NewMemoryStore()
	gen := newTestGenerator(t, scriptedClient(&calls), store)

	const callers = 6
	var wg sync.WaitGroup
	errs := make([]error, callers)
	results := make([]*Result, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = gen.Generate(context.Background(), rustRequest())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i].Roadmap)
	}

	// Exactly one successful write per namespace key, no conflicts surfaced.
	assert.Equal(t, 1, store.Len(cache.NamespaceTierLookup))
	assert.Equal(t, 1, store.Len(cache.NamespaceAllocation))
	assert.Equal(t, 1, store.Len(cache.NamespaceContent))
	assert.Equal(t, int32(1), calls.ranking.Load())
	assert.Equal(t, int32(1), calls.harvest.Load())
}

func TestGenerate_MalformedRankingIsFatal(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "not json at all", nil
		},
	}
	store := cache.NewMemoryStore()
	gen := newTestGenerator(t, client, store)

	_, err := gen.Generate(context.Background(), rustRequest())
	require.Error(t, err)

	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, StageTierLookup, serr.Stage)

	// Nothing was cached for the failed stage.
	assert.Equal(t, 0, store.Len(cache.NamespaceTierLookup))
}

func TestGenerate_CategorizationFailureCachesNothingForStage(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			switch {
			case strings.Contains(prompt, `"ranking"`):
				return `{"ranking": ["beginner"]}`, nil
			case strings.Contains(prompt, `"skills"`):
				return `{"skills": ["basics"]}`, nil
			default:
				return "", assert.AnError
			}
		},
	}
	store := cache.NewMemoryStore()
	gen := newTestGenerator(t, client, store)

	_, err := gen.Generate(context.Background(), rustRequest())
	require.Error(t, err)

	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, StageAllocation, serr.Stage)

	// The tier lookup stays valid for retry; the failed stage cached nothing.
	assert.Equal(t, 1, store.Len(cache.NamespaceTierLookup))
	assert.Equal(t, 0, store.Len(cache.NamespaceAllocation))
}

func TestGenerate_InvalidRequestRejected(t *testing.T) {
	gen := newTestGenerator(t, &MockLLMClient{}, cache.NewMemoryStore())

	_, err := gen.Generate(context.Background(), Request{Topic: "rust programming"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request")
}

func TestGenerate_ProgressReportsCacheHits(t *testing.T) {
	var calls stageCalls
	store := cache.NewMemoryStore()

	var mu sync.Mutex
	hits := map[Stage][]bool{}
	gen, err := NewGenerator(Options{
		Client: scriptedClient(&calls),
		Store:  store,
		OnProgress: func(stage Stage, cacheHit bool) {
			mu.Lock()
			hits[stage] = append(hits[stage], cacheHit)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = gen.Generate(ctx, rustRequest())
	require.NoError(t, err)
	_, err = gen.Generate(ctx, rustRequest())
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true}, hits[StageTierLookup])
	assert.Equal(t, []bool{false, true}, hits[StageAllocation])
	assert.Equal(t, []bool{false, true}, hits[StageContent])
}

func TestFlattenSkills_DedupPreservesFirstSeenOrder(t *testing.T) {
	tiers := TierList{"beginner", "intermediate", "advanced"}
	layering := map[string][]string{
		"beginner":     {"footwork", "grip"},
		"intermediate": {"grip", "flagging"},
		"advanced":     {"dyno", "footwork"},
	}

	flat := flattenSkills(tiers, layering)
	assert.Equal(t, []string{"footwork", "grip", "flagging", "dyno"}, flat)
}

func TestFlattenSkills_IgnoresLabelsOutsideTierList(t *testing.T) {
	tiers := TierList{"beginner"}
	layering := map[string][]string{
		"beginner": {"basics"},
		"legend":   {"mythic technique"},
	}

	flat := flattenSkills(tiers, layering)
	assert.Equal(t, []string{"basics"}, flat)
}

func TestNewGenerator_RequiresClientAndStore(t *testing.T) {
	_, err := NewGenerator(Options{Store: cache.NewMemoryStore()})
	assert.Error(t, err)

	_, err = NewGenerator(Options{Client: &MockLLMClient{}})
	assert.Error(t, err)
}
