package quiz

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestQuestion_GeneratedOncePerSkill(t *testing.T) {
	var calls atomic.Int32
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			calls.Add(1)
			assert.Contains(t, prompt, "ownership")
			return "What does the borrow checker enforce?\n", nil
		},
	}

	session := NewSession(client, "rust programming")
	ctx := context.Background()

	first, err := session.Question(ctx, "ownership")
	require.NoError(t, err)
	assert.Equal(t, "What does the borrow checker enforce?", first)

	second, err := session.Question(ctx, "ownership")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQuestion_SeparateSessionsDoNotShare(t *testing.T) {
	var calls atomic.Int32
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			calls.Add(1)
			return "A question", nil
		},
	}
	ctx := context.Background()

	a := NewSession(client, "rust programming")
	b := NewSession(client, "rust programming")

	_, err := a.Question(ctx, "ownership")
	require.NoError(t, err)
	_, err = b.Question(ctx, "ownership")
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestQuestion_EmptyResponseIsError(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "   ", nil
		},
	}

	_, err := NewSession(client, "rust programming").Question(context.Background(), "ownership")
	assert.Error(t, err)
}

func TestGradeAnswer_Pass(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "What is ownership?")
			assert.Contains(t, prompt, "memory safety")
			return `{"pass": 1, "reason": null}`, nil
		},
	}

	grade, err := NewSession(client, "rust programming").GradeAnswer(
		context.Background(), "ownership", "What is ownership?", "It guarantees memory safety")
	require.NoError(t, err)
	assert.Equal(t, Pass, grade.Pass)
	assert.Nil(t, grade.Reason)
}

func TestGradeAnswer_FailCarriesReason(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return `{"pass": 0, "reason": "The answer never mentions borrowing"}`, nil
		},
	}

	grade, err := NewSession(client, "rust programming").GradeAnswer(
		context.Background(), "ownership", "Q", "wrong answer")
	require.NoError(t, err)
	assert.Equal(t, Fail, grade.Pass)
	require.NotNil(t, grade.Reason)
	assert.Contains(t, *grade.Reason, "borrowing")
}

func TestGradeAnswer_InvalidPassValue(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return `{"pass": 7, "reason": null}`, nil
		},
	}

	_, err := NewSession(client, "rust programming").GradeAnswer(context.Background(), "s", "q", "a")
	assert.Error(t, err)
}

func TestGradeAnswer_MalformedJSON(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "not json", nil
		},
	}

	_, err := NewSession(client, "rust programming").GradeAnswer(context.Background(), "s", "q", "a")
	assert.Error(t, err)
}
