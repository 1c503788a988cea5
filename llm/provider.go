// Package llm provides the text-completion boundary for the pipeline.
//
// Provider is the abstract interface for completion backends. Each
// implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
package llm

import (
	"context"
)

// Provider defines the abstract interface for completion backends.
type Provider interface {
	// Name returns the provider name (for logging/accounting).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Complete sends a text-completion request.
	Complete(ctx context.Context, req Request) (Response, error)
}
