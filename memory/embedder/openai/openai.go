// Package openai provides an API-backed embedder using the OpenAI
// embeddings endpoint (or any compatible server via BaseURL).
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config holds the embedding provider settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns settings for text-embedding-3-small.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.openai.com/v1",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// Embedder calls the embeddings API with bounded retries.
type Embedder struct {
	client *openai.Client
	cfg    Config
}

// New creates an API embedder. The API key is required.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai embedder: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultConfig().Dimensions
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Embed converts text to a vector, retrying transient failures with a
// linear backoff.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt < e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
		resp, err := e.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(e.cfg.Model),
		})
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("empty embedding response")
			continue
		}
		return resp.Data[0].Embedding, nil
	}
	return nil, fmt.Errorf("embed after %d attempts: %w", e.cfg.MaxRetries, lastErr)
}

// Dimensions returns the configured embedding size.
func (e *Embedder) Dimensions() int { return e.cfg.Dimensions }
