package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"contextbot/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/sashabaranov/go-openai"
)

const maxCompletionDuration = 30 * time.Second

type Client struct {
	cfg        *config.Config
	client     *openai.Client
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewClientWithConfig(cfg), nil
}

func NewClientWithConfig(cfg *config.Config) *Client {
	httpClient := &http.Client{
		Timeout: maxCompletionDuration,
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAI.Token)
	clientConfig.BaseURL = cfg.OpenAI.BaseURL
	clientConfig.HTTPClient = httpClient

	return &Client{
		cfg:        cfg,
		client:     openai.NewClientWithConfig(clientConfig),
		httpClient: httpClient,
	}
}

// Complete sends the messages as a chat completion and returns the first
// choice's trimmed content.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, maxCompletionDuration)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:     c.cfg.OpenAI.Model,
			Messages:  messages,
			MaxTokens: c.cfg.OpenAI.MaxTokens,
		},
	)
	if err != nil {
		return "", oops.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", oops.Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}

// CompleteRaw sends the same request but returns the provider's HTTP
// status and body untouched, for callers that forward the provider
// response verbatim.
func (c *Client) CompleteRaw(ctx context.Context, messages []openai.ChatCompletionMessage) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, maxCompletionDuration)
	defer cancel()

	payload, err := json.Marshal(openai.ChatCompletionRequest{
		Model:     c.cfg.OpenAI.Model,
		Messages:  messages,
		MaxTokens: c.cfg.OpenAI.MaxTokens,
	})
	if err != nil {
		return 0, nil, oops.Errorf("failed to marshal completion request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.OpenAI.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, oops.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAI.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, oops.Errorf("failed to call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, oops.Errorf("failed to read completion response: %w", err)
	}

	return resp.StatusCode, body, nil
}
