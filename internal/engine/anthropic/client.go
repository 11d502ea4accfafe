package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/booklingua/booklingua/internal/engine"
)

var _ engine.Engine = (*Client)(nil)

// Generate implements engine.Engine over the Messages API. Only the first
// text content block of the response is returned.
func (c *Client) Generate(ctx context.Context, req engine.Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("engine.generate.start",
		"req_id", rid,
		"model", req.Model,
		"max_tokens", req.MaxTokens,
		"prompt_len", len(req.Prompt),
	)

	body := map[string]any{
		"model":      req.Model,
		"max_tokens": req.MaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": req.Prompt},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.log.Error("engine.generate.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", httpErr
	}

	var mr struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &mr); err != nil {
		c.log.Error("engine.generate.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}

	var text string
	for _, block := range mr.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		c.log.Error("engine.generate.no_text",
			"req_id", rid, "blocks", len(mr.Content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no text content in anthropic response")
	}

	c.log.Info("engine.generate.ok",
		"req_id", rid,
		"model", req.Model,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", c.cfg.Version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("anthropic response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("anthropic status %d: %s", resp.StatusCode, buf.String())
	}

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	return buf.Bytes(), nil
}
