package roadmap

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/skill-roadmap/internal/cache"
	"github.com/jonathan/skill-roadmap/internal/llm"
)

// DefaultTimeout is the end-to-end deadline applied to a single request.
const DefaultTimeout = 5 * time.Minute

// DefaultMaxConcurrent bounds how many requests may generate at once, to
// respect reasoning-service rate limits. Requests beyond the bound wait.
const DefaultMaxConcurrent = 4

// ProgressFunc is invoked after each stage resolves, reporting whether the
// stage was served from cache.
type ProgressFunc func(stage Stage, cacheHit bool)

// Options configures a Generator.
type Options struct {
	Client        llm.Client  // required
	Store         cache.Store // required
	Timeout       time.Duration
	MaxConcurrent int64
	OnProgress    ProgressFunc
}

// Generator runs the three-stage roadmap pipeline. It is safe for concurrent
// use; the cache store is shared across all in-flight requests and a per-key
// single-flight guard keeps concurrent misses from issuing duplicate
// reasoning-service calls.
type Generator struct {
	client     llm.Client
	flight     *cache.Flight
	sem        *semaphore.Weighted
	timeout    time.Duration
	onProgress ProgressFunc
}

// Result is a successfully generated roadmap plus the dependency edges that
// had to be dropped to keep the graph acyclic.
type Result struct {
	Roadmap      *Roadmap      `json:"roadmap"`
	DroppedEdges []DroppedEdge `json:"dropped_edges,omitempty"`
}

// NewGenerator creates a Generator from options.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("reasoning-service client is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	return &Generator{
		client:     opts.Client,
		flight:     cache.NewFlight(opts.Store),
		sem:        semaphore.NewWeighted(maxConcurrent),
		timeout:    timeout,
		onProgress: opts.OnProgress,
	}, nil
}

// Generate runs the pipeline end to end. Stages are strictly sequential by
// data dependency: each stage's prompt or cache key is built from the prior
// stage's output. The caller receives either a complete roadmap or a single
// terminal error naming the stage that failed; there is no partial success.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer g.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tiers, err := g.resolveTiers(ctx, req)
	if err != nil {
		return nil, err
	}

	alloc, err := g.allocateSkills(ctx, req.Topic, tiers)
	if err != nil {
		return nil, err
	}

	content, err := g.enrichContent(ctx, req.Topic, alloc.SkillSet)
	if err != nil {
		return nil, err
	}

	rm := Assemble(req.Topic, tiers, alloc, content)
	dropped := DropCyclicEdges(rm)

	return &Result{Roadmap: rm, DroppedEdges: dropped}, nil
}

func (g *Generator) progress(stage Stage, cacheHit bool) {
	if g.onProgress != nil {
		g.onProgress(stage, cacheHit)
	}
}
