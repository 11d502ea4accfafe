package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/booklingua/booklingua/internal/engine"
)

// Client implements engine.Engine over the Gemini API.
type Client struct {
	client *genai.Client
	log    *slog.Logger
}

var _ engine.Engine = (*Client)(nil)

func NewClient(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, log: logger}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Generate(ctx context.Context, req engine.Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("engine.generate.start",
		"req_id", rid,
		"model", req.Model,
		"max_tokens", req.MaxTokens,
		"prompt_len", len(req.Prompt),
	)

	model := c.client.GenerativeModel(req.Model)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		c.log.Error("engine.generate.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		c.log.Error("engine.generate.no_text",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.log.Info("engine.generate.ok",
		"req_id", rid,
		"model", req.Model,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				combined += string(text)
			}
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", fmt.Errorf("no text parts in gemini response")
}
