package generator

import (
	"context"
	"errors"
	"net"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// It also serves OpenAI-compatible providers such as DeepSeek through BaseURL.
type OpenAILLM struct {
	Provider string
	Model    string
	client   openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	// retries are decided by the agent, not the SDK
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	return &OpenAILLM{
		Provider: provider,
		Model:    cfg.Model,
		client:   openai.NewClient(opts...),
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt, params Params) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if params.Temperature > 0 {
		req.Temperature = openai.Float(params.Temperature)
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(int64(params.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", o.upstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Provider: o.Provider, Err: errors.New("empty choices")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAILLM) upstreamError(err error) *UpstreamError {
	ue := &UpstreamError{Provider: o.Provider, Err: err}
	var apiErr *openai.Error
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr):
		ue.StatusCode = apiErr.StatusCode
		ue.Retryable = retryableStatus(apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		ue.Retryable = true
	case errors.As(err, &netErr) && netErr.Timeout():
		ue.Retryable = true
	}
	return ue
}
