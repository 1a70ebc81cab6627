package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/rs/zerolog"
)

// Client talks to an Anthropic-style messages API. One outbound request per
// generation; no automatic retry.
type Client struct {
	cfg    config.AnthropicConfig
	http   *http.Client
	logger zerolog.Logger
}

func NewClient(cfg config.AnthropicConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "llm").Logger(),
	}
}

type Request struct {
	Model       string
	System      string
	UserMessage string
	MaxTokens   int
	Temperature float64
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

type Reply struct {
	Text  string
	Usage Usage
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	System      string       `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage Usage `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one message exchange and returns the model's raw text reply.
func (c *Client) Complete(ctx context.Context, req Request) (*Reply, error) {
	if c.cfg.APIKey == "" || c.cfg.APIKey == "placeholder-anthropic-key" {
		return nil, apperr.ErrMissingAPIKey
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	body, err := json.Marshal(apiRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []apiMessage{{Role: "user", Content: req.UserMessage}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", c.cfg.Version)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", apperr.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("model", req.Model).
			Str("body", string(raw)).
			Msg("upstream API error")
		return nil, fmt.Errorf("%w: status %d", apperr.ErrUpstream, resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", apperr.ErrUpstream, err)
	}

	text := ""
	if len(parsed.Content) > 0 {
		text = parsed.Content[0].Text
	}

	return &Reply{Text: text, Usage: parsed.Usage}, nil
}
