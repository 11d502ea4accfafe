package anthropic

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Anthropic Messages API client.
type Config struct {
	APIKey  string        // if empty, falls back to env ANTHROPIC_API_KEY
	BaseURL string        // default https://api.anthropic.com
	Version string        // anthropic-version header, default 2023-06-01
	Timeout time.Duration // http client timeout; generous, responses are large
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Version == "" {
		cfg.Version = "2023-06-01"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
