package completion

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"fee-server/internal/config"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	api   *openai.Client
	model string
	log   zerolog.Logger
}

func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	clientConfig := openai.DefaultConfig(cfg.CompletionAPIKey)
	if cfg.CompletionBaseURL != "" {
		clientConfig.BaseURL = cfg.CompletionBaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.CompletionTimeout}

	return &Client{
		api:   openai.NewClientWithConfig(clientConfig),
		model: cfg.CompletionModel,
		log:   log.With().Str("component", "completion-client").Logger(),
	}
}

// Complete sends the system persona prompt plus the rendered prompt and
// returns the first choice's content.
func (c *Client) Complete(ctx context.Context, systemPrompt, prompt string, maxTokens int, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	c.log.Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("completion finished")

	return resp.Choices[0].Message.Content, nil
}
