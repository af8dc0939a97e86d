// Package llm wraps the single chat-completion call every prompt in the
// pipeline goes through.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mathusayini/News-Summarizer/internal/config"
	"github.com/Mathusayini/News-Summarizer/internal/logger"
	"github.com/Mathusayini/News-Summarizer/internal/ratelimit"
)

var (
	// ErrEmptyResponse is returned when the model sends back no choices.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrBudgetExhausted is returned without calling the model once the
	// request budget is spent.
	ErrBudgetExhausted = errors.New("model request budget exhausted")
)

// Asker is the contract the summarizer and the sentiment classifier depend on.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// backend performs one completion against a hosted model.
type backend interface {
	complete(ctx context.Context, prompt string) (string, error)
	close() error
}

type Client struct {
	backend backend
	model   string
	timeout time.Duration
	budget  *ratelimit.Budget
}

// New builds the client for the provider selected in cfg.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	var (
		b   backend
		err error
	)
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		b, err = newGeminiBackend(ctx, cfg.LLMAPIKey, cfg.LLMModel)
	default:
		b = newOpenAIBackend(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	}
	if err != nil {
		return nil, err
	}

	c := &Client{
		backend: b,
		model:   cfg.LLMModel,
		timeout: cfg.LLMTimeout,
		budget:  ratelimit.NewBudget(cfg.LLMMaxRequests, 0),
	}
	logger.Info("✅ Model client ready", "provider", cfg.LLMProvider, "model", cfg.LLMModel)
	return c, nil
}

// NewOpenAICompatible builds a client for any OpenAI-compatible endpoint.
func NewOpenAICompatible(apiKey, baseURL, model string, timeout time.Duration, budget *ratelimit.Budget) *Client {
	return &Client{
		backend: newOpenAIBackend(apiKey, baseURL, model),
		model:   model,
		timeout: timeout,
		budget:  budget,
	}
}

// Ask sends prompt as a single user message and returns the reply text.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if c.budget != nil && !c.budget.Allow() {
		return "", ErrBudgetExhausted
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := c.backend.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", c.model, err)
	}
	logger.Debug("Model replied", "model", c.model, "took", time.Since(start), "chars", len(reply))
	return reply, nil
}

// Budget exposes the request budget for monitoring. It may be nil.
func (c *Client) Budget() *ratelimit.Budget {
	return c.budget
}

func (c *Client) Close() error {
	if c.backend == nil {
		return nil
	}
	return c.backend.close()
}
