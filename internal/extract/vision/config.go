package vision

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the hosted-model client. The wire format is OpenAI-style
// chat/completions, which both x.ai and OpenAI itself speak.
type Config struct {
	APIKey      string        // if empty, falls back to env XAI_API_KEY
	BaseURL     string        // default https://api.x.ai/v1
	Model       string        // e.g. "grok-4"
	Temperature float32       // 0..2
	MaxTokens   int           // completion cap per page
	JPEGQuality int           // page image encoding quality, 1..100
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("XAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.x.ai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "grok-4"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 70
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Deduplicate is false: the model is already instructed not to repeat rows,
// and the hosted variant never deduplicated across pages.
func (c *Client) Deduplicate() bool { return false }
