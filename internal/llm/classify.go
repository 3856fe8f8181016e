// Package llm provides LLM provider client implementations for claudechat.
// Each client translates the provider-neutral completion request into the
// provider SDK's wire format and classifies SDK failures into the shared
// error taxonomy.
package llm

import (
	"context"
	"errors"
	"fmt"

	"claudechat/pkg/chattypes"
)

// kindForStatus maps an HTTP status code from a provider API to an error
// classification.
func kindForStatus(status int) chattypes.ErrorKind {
	switch {
	case status == 401 || status == 403:
		return chattypes.ErrAuthentication
	case status == 429:
		return chattypes.ErrRateLimited
	case status == 400 || status == 404 || status == 413 || status == 422:
		return chattypes.ErrInvalidRequest
	case status == 408 || status == 504:
		return chattypes.ErrTimeout
	case status >= 500:
		// Includes Anthropic's 529 overloaded_error.
		return chattypes.ErrServiceUnavailable
	default:
		return chattypes.ErrUnknown
	}
}

// classifyStatusError builds a classified error from an HTTP status. The
// message is a safe summary; the raw response stays in Cause for logs.
func classifyStatusError(provider string, status int, cause error) *chattypes.Error {
	return &chattypes.Error{
		Kind:     kindForStatus(status),
		Provider: provider,
		Message:  fmt.Sprintf("request rejected with HTTP %d", status),
		Cause:    cause,
	}
}

// classifyTransportError handles failures that never produced an HTTP
// response: cancellations, deadlines, connection errors.
func classifyTransportError(provider string, err error) *chattypes.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &chattypes.Error{
			Kind:     chattypes.ErrTimeout,
			Provider: provider,
			Message:  "request timed out or was cancelled",
			Cause:    err,
		}
	}
	return &chattypes.Error{
		Kind:     chattypes.ErrUnknown,
		Provider: provider,
		Message:  "request failed before receiving a response",
		Cause:    err,
	}
}
