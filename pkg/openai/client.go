package openai

import (
	"context"
	"errors"
	"strings"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/ghartak/ghartak-backend/pkg/config"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

var errAPIKeyRequired = errors.New("openai api key is required")

// Message is one conversational turn handed to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client wraps the OpenAI chat-completion API with the configured model
// parameters.
type Client struct {
	api         *gopenai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewClient initializes the model client once with the configured key.
func NewClient(cfg config.OpenAIConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = gopenai.GPT3Dot5Turbo
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	return &Client{
		api:         gopenai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Complete runs one chat completion over the full message history and returns
// the assistant's reply. Provider failures carry the upstream status through.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	request := gopenai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	for _, msg := range messages {
		request.Messages = append(request.Messages, gopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, request)
	if err != nil {
		var apiErr *gopenai.APIError
		if errors.As(err, &apiErr) {
			return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "model api error").
				WithHTTPStatus(apiErr.HTTPStatusCode).
				WithSuggestion("Please try again later.")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "call model api").
			WithSuggestion("Please try again later.")
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
