// Package completion is the narrow boundary to the text-completion providers.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/dossier/internal/prompt"
)

var (
	// ErrUnavailable wraps every failure of a completion call.
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrNotConfigured indicates no provider credentials were supplied.
	ErrNotConfigured = errors.New("completion provider not configured")
)

// Params tunes a single completion call.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// Client submits an ordered message sequence and returns the reply text.
type Client interface {
	Complete(ctx context.Context, messages []prompt.Message, params Params) (string, error)
}

// Provider names a completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Config selects and authenticates a backend.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
}

// New builds the client for cfg. Missing credentials yield a client whose
// every call fails with ErrNotConfigured.
func New(ctx context.Context, cfg Config) (Client, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(string(cfg.Provider))))
	if provider == "" {
		provider = ProviderOpenAI
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Unconfigured{Provider: provider}, nil
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model)
	case ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// Unconfigured is the client used when no API key is available.
type Unconfigured struct {
	Provider Provider
}

// Complete always fails.
func (u Unconfigured) Complete(context.Context, []prompt.Message, Params) (string, error) {
	return "", fmt.Errorf("%w: %w: set the %s API key", ErrUnavailable, ErrNotConfigured, u.Provider)
}

// unavailable wraps a provider error so callers can match ErrUnavailable.
func unavailable(provider Provider, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, provider, err)
}

type loggingClient struct {
	next   Client
	logger *slog.Logger
}

// WithLogging logs the duration and outcome of every call made through next.
func WithLogging(next Client, logger *slog.Logger) Client {
	if logger == nil {
		return next
	}
	return &loggingClient{next: next, logger: logger}
}

func (c *loggingClient) Complete(ctx context.Context, messages []prompt.Message, params Params) (string, error) {
	start := time.Now()
	reply, err := c.next.Complete(ctx, messages, params)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn("completion failed", "messages", len(messages), "duration", elapsed, "error", err)
		return "", err
	}
	c.logger.Debug("completion finished", "messages", len(messages), "duration", elapsed, "reply_chars", len(reply))
	return reply, nil
}
