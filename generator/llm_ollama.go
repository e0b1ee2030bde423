package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaLLM implements LLMClient against a local or remote Ollama server.
type OllamaLLM struct {
	Model  string
	client *api.Client
}

func NewOllamaLLMFromConfig(cfg *LLMSettings, httpClient *http.Client) (*OllamaLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOllamaURL
	}
	// the native API lives at the root, not under the OpenAI-compatible /v1
	base = strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/v1")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url %q: %w", base, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaLLM{Model: cfg.Model, client: api.NewClient(u, httpClient)}, nil
}

func (o *OllamaLLM) Complete(ctx context.Context, prompt Prompt, params Params) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: o.Model,
		Messages: []api.Message{
			{Role: string(RoleSystem), Content: prompt.System},
			{Role: string(RoleUser), Content: prompt.User},
		},
		Stream:  &stream,
		Options: map[string]interface{}{},
	}
	if params.Temperature > 0 {
		req.Options["temperature"] = params.Temperature
	}
	if params.MaxTokens > 0 {
		req.Options["num_predict"] = params.MaxTokens
	}

	var resp api.ChatResponse
	err := o.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return "", o.upstreamError(err)
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

func (o *OllamaLLM) upstreamError(err error) *UpstreamError {
	ue := &UpstreamError{Provider: "ollama", Err: err}
	var statusErr api.StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		ue.StatusCode = statusErr.StatusCode
		ue.Retryable = retryableStatus(statusErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		ue.Retryable = true
	case errors.As(err, &netErr) && netErr.Timeout():
		ue.Retryable = true
	}
	return ue
}
