package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func rustAllocation() (TierList, *Allocation, ContentMap) {
	tiers := TierList{"beginner", "intermediate", "advanced"}
	alloc := &Allocation{
		TierAssignment: map[string][]string{
			"beginner":     {"ownership"},
			"intermediate": {"lifetimes"},
			"advanced":     {"async"},
		},
		SkillSet: []string{"ownership", "lifetimes", "async"},
		Dependencies: map[string][]string{
			"lifetimes": {"ownership"},
			"async":     {"lifetimes"},
		},
	}
	content := ContentMap{
		"ownership": {Description: "Move semantics and borrowing", Tips: []string{"Read the book chapter"}, URL: strPtr("https://doc.rust-lang.org/book/ch04-00-understanding-ownership.html")},
		"lifetimes": {Description: "Reference validity annotations", Tips: []string{"Start with elision rules"}},
		"async":     {Description: "Futures and executors", Tips: []string{"Use tokio"}},
	}
	return tiers, alloc, content
}

func TestAssemble_RustScenario(t *testing.T) {
	tiers, alloc, content := rustAllocation()

	r := Assemble("rust programming", tiers, alloc, content)

	require.Len(t, r.Tiers, 3)
	assert.Equal(t, "rust programming", r.Topic)

	ownership := r.Tiers[0].Skills[0]
	assert.Equal(t, "tier0-skill0", ownership.ID)
	assert.Equal(t, "ownership", ownership.Name)
	assert.Empty(t, ownership.Dependencies)

	lifetimes := r.Tiers[1].Skills[0]
	assert.Equal(t, "tier1-skill0", lifetimes.ID)
	assert.Equal(t, []string{"tier0-skill0"}, lifetimes.Dependencies)

	async := r.Tiers[2].Skills[0]
	assert.Equal(t, "tier2-skill0", async.ID)
	assert.Equal(t, []string{"tier1-skill0"}, async.Dependencies)
}

func TestAssemble_Deterministic(t *testing.T) {
	tiers, alloc, content := rustAllocation()

	first := Assemble("rust programming", tiers, alloc, content)
	for i := 0; i < 5; i++ {
		again := Assemble("rust programming", tiers, alloc, content)
		assert.Equal(t, first, again)
	}
}

func TestAssemble_MissingContentGetsPlaceholder(t *testing.T) {
	tiers, alloc, content := rustAllocation()
	delete(content, "lifetimes")

	r := Assemble("rust programming", tiers, alloc, content)

	lifetimes := r.Tiers[1].Skills[0]
	assert.Equal(t, NoContentDescription, lifetimes.Description)
	assert.Empty(t, lifetimes.Tips)
	assert.NotNil(t, lifetimes.Tips)
	assert.Nil(t, lifetimes.URL)
}

func TestAssemble_UnknownDependencyDropped(t *testing.T) {
	tiers, alloc, content := rustAllocation()
	alloc.Dependencies["async"] = []string{"lifetimes", "monads"}

	r := Assemble("rust programming", tiers, alloc, content)

	async := r.Tiers[2].Skills[0]
	assert.Equal(t, []string{"tier1-skill0"}, async.Dependencies)
}

func TestAssemble_MultiTierSkillResolvesToEarliestNode(t *testing.T) {
	tiers := TierList{"beginner", "advanced"}
	alloc := &Allocation{
		TierAssignment: map[string][]string{
			"beginner": {"footwork"},
			"advanced": {"footwork", "dyno"},
		},
		SkillSet:     []string{"footwork", "dyno"},
		Dependencies: map[string][]string{"dyno": {"footwork"}},
	}

	r := Assemble("rock climbing", tiers, alloc, ContentMap{})

	// footwork appears in both tiers but keeps one node per tier.
	require.Len(t, r.Tiers[0].Skills, 1)
	require.Len(t, r.Tiers[1].Skills, 2)
	assert.Equal(t, "tier0-skill0", r.Tiers[0].Skills[0].ID)
	assert.Equal(t, "tier1-skill0", r.Tiers[1].Skills[0].ID)

	// The dependency resolves to the earliest tier's node.
	dyno := r.Tiers[1].Skills[1]
	assert.Equal(t, []string{"tier0-skill0"}, dyno.Dependencies)
}

func TestAssemble_TierAbsentFromAssignmentIsEmpty(t *testing.T) {
	tiers := TierList{"beginner", "intermediate"}
	alloc := &Allocation{
		TierAssignment: map[string][]string{"beginner": {"basics"}},
		SkillSet:       []string{"basics"},
		Dependencies:   map[string][]string{},
	}

	r := Assemble("chess", tiers, alloc, ContentMap{})

	require.Len(t, r.Tiers, 2)
	assert.Empty(t, r.Tiers[1].Skills)
	assert.Equal(t, "intermediate", r.Tiers[1].Label)
}

func TestRoadmap_NodeLookup(t *testing.T) {
	tiers, alloc, content := rustAllocation()
	r := Assemble("rust programming", tiers, alloc, content)

	node := r.Node("tier1-skill0")
	require.NotNil(t, node)
	assert.Equal(t, "lifetimes", node.Name)

	assert.Nil(t, r.Node("tier9-skill9"))
	assert.Equal(t, 3, r.NodeCount())
}
