package generator

import (
	"context"
	"fmt"
)

// LLMClient abstracts the chat model so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt, params Params) (string, error)
}

// Params are the sampling settings for one call.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// LLMSettings is the provider configuration shared by implementations.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// UpstreamError is returned by LLMClient implementations when the provider
// call fails. Retryable marks rate limits, server errors and timeouts.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
