package summary

import (
	"context"
	"errors"
	"fmt"

	"go-forum-app/internal/config"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAISummarizer calls an OpenAI-compatible chat completion endpoint.
type OpenAISummarizer struct {
	client     openai.Client
	model      string
	configured bool
}

// NewOpenAISummarizer creates a summarizer from cfg. Without an API key every
// call fails with ErrNotConfigured.
func NewOpenAISummarizer(cfg config.SummaryConfig) *OpenAISummarizer {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAISummarizer{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		configured: cfg.APIKey != "",
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	if !s.configured {
		return "", ErrNotConfigured
	}
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("failed to generate summary: empty response")
	}
	return completion.Choices[0].Message.Content, nil
}
