// Package coherence implements the scoring oracles behind the
// coherence selector: an LLM judge and an embedding-similarity scorer
// over a small memory of recent dialogue turns. Scores land in [0,1];
// errors are surfaced to the caller, who treats them as a zero score.
package coherence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dialogkit/replygen/internal/llm"
)

const scorePrompt = "You judge dialogue coherence. Given a dialogue context and a candidate " +
	"next utterance, rate from 0 to 1 how naturally the candidate follows the context. " +
	"Reply with only the number."

// LLMScorer asks a chat model to judge candidate replies.
type LLMScorer struct {
	provider llm.Provider
	model    string
}

// NewLLMScorer builds a scorer around an LLM provider.
func NewLLMScorer(provider llm.Provider, model string) *LLMScorer {
	return &LLMScorer{provider: provider, model: model}
}

// Score rates how well candidate follows dialogue.
func (s *LLMScorer) Score(ctx context.Context, dialogue, candidate string) (float64, error) {
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: scorePrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("CONTEXT: %s\nCANDIDATE: %s", dialogue, candidate)},
		},
		MaxTokens: 8,
	})
	if err != nil {
		return 0, fmt.Errorf("scoring candidate: %w", err)
	}

	raw := strings.TrimSpace(resp.Content)
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing coherence score %q: %w", raw, err)
	}
	return clamp01(score), nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
