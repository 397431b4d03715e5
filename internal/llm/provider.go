// Package llm abstracts the chat models the reply pipeline can call:
// the paraphrasing phraser and the coherence scorer both speak through
// Provider. The pipeline treats these calls as opaque oracles; any
// error degrades to a rendering miss upstream, never a crash.
package llm

import "context"

// Role labels a chat message author.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a provider-neutral chat completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the provider-neutral result.
type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
}

// Provider sends chat completions to some LLM backend.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
