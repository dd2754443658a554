// Package quiz generates knowledge-check questions for roadmap skills and
// grades free-text answers via the reasoning service.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/skill-roadmap/internal/llm"
	"github.com/jonathan/skill-roadmap/internal/prompts"
)

// Grade outcomes.
const (
	Fail        = 0
	Pass        = 1
	PartialPass = 2
)

// Grade is the reasoning service's verdict on an answer. Reason is nil on a
// clean pass.
type Grade struct {
	Pass   int     `json:"pass"`
	Reason *string `json:"reason"`
}

// Session owns question state for one roadmap-viewing context. Questions are
// cached per skill for the session's lifetime so re-opening a skill repeats
// the same question; the cache dies with the session rather than living in
// process-global state.
type Session struct {
	client llm.Client
	topic  string

	mu        sync.Mutex
	questions map[string]string
}

// NewSession creates a quiz session for one topic.
func NewSession(client llm.Client, topic string) *Session {
	return &Session{
		client:    client,
		topic:     topic,
		questions: make(map[string]string),
	}
}

// Question returns the session's question for a skill, generating it on
// first use.
func (s *Session) Question(ctx context.Context, skill string) (string, error) {
	s.mu.Lock()
	if q, ok := s.questions[skill]; ok {
		s.mu.Unlock()
		return q, nil
	}
	s.mu.Unlock()

	prompt := prompts.Format(prompts.MustGet("quiz.json", "knowledge-question"), map[string]string{
		"Topic": s.topic,
		"Skill": skill,
	})

	question, err := s.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("failed to generate question for %q: %w", skill, err)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty question generated for %q", skill)
	}

	s.mu.Lock()
	s.questions[skill] = question
	s.mu.Unlock()
	return question, nil
}

// GradeAnswer grades a free-text answer to a previously asked question.
func (s *Session) GradeAnswer(ctx context.Context, skill, question, answer string) (*Grade, error) {
	prompt := prompts.Format(prompts.MustGet("quiz.json", "grade-answer"), map[string]string{
		"Topic":    s.topic,
		"Skill":    skill,
		"Question": question,
		"Answer":   answer,
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("failed to grade answer for %q: %w", skill, err)
	}

	var grade Grade
	if err := json.Unmarshal([]byte(raw), &grade); err != nil {
		return nil, fmt.Errorf("malformed grading response for %q: %w", skill, err)
	}
	if grade.Pass < Fail || grade.Pass > PartialPass {
		return nil, fmt.Errorf("grading response for %q has invalid pass value %d", skill, grade.Pass)
	}
	return &grade, nil
}
