// Package chattypes defines the shared value types for claudechat.
// This file contains the provider client abstraction the session depends on.
package chattypes

import "context"

// LLMClient defines the interface for LLM provider implementations.
// It abstracts different providers (Anthropic, OpenAI, Gemini) behind the
// provider-neutral CompletionRequest. Implementations must classify provider
// failures into *Error so the session can apply its retry policy.
type LLMClient interface {
	// SendChatCompletion sends a completion request and returns the full
	// generated text. The context governs cancellation and timeouts.
	SendChatCompletion(ctx context.Context, req *CompletionRequest) (string, error)

	// ProviderName returns the name of the LLM provider (e.g., "anthropic").
	ProviderName() string

	// IsConfigured returns true if the client has valid configuration and
	// can make requests.
	IsConfigured() bool
}
