package speech

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend synthesizes MP3 audio with the OpenAI speech endpoint.
type OpenAIBackend struct {
	Model  string
	Voice  string
	client openai.Client
}

// NewOpenAIBackend creates a backend. Extra options are applied after the
// defaults, e.g. option.WithBaseURL for a compatible gateway.
func NewOpenAIBackend(apiKey, model, voice string, opts ...option.RequestOption) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if model == "" {
		model = string(openai.SpeechModelTTS1)
	}
	if voice == "" {
		voice = string(openai.AudioSpeechNewParamsVoiceAlloy)
	}
	// a failed chunk drops the audio; the SDK must not retry behind our back
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &OpenAIBackend{
		Model:  model,
		Voice:  voice,
		client: openai.NewClient(reqOpts...),
	}, nil
}

func (o *OpenAIBackend) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(o.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(o.Voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	return b, nil
}
