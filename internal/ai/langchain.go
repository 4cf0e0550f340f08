package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/reviewloop/pkg/models"
)

const (
	defaultAnthropicModel = "claude-3-5-sonnet-latest"
	defaultOpenAIModel    = "gpt-4o"

	reviewTemperature = 0.1
	reviewMaxTokens   = 2000
)

// llmBackend adapts a langchaingo model to the Backend capability. Both
// hosted providers share the same prompt contract and timeout handling.
type llmBackend struct {
	llm     llms.Model
	name    string
	timeout time.Duration
}

func newAnthropicBackend(cfg Config) (Backend, error) {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	llm, err := anthropic.New(
		anthropic.WithToken(cfg.AnthropicAPIKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating anthropic backend: %w", err)
	}

	return &llmBackend{llm: llm, name: "anthropic", timeout: cfg.Timeout}, nil
}

func newOpenAIBackend(cfg Config) (Backend, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai backend: %w", err)
	}

	return &llmBackend{llm: llm, name: "openai", timeout: cfg.Timeout}, nil
}

func (b *llmBackend) Name() string {
	return b.name
}

// Analyze sends one review request through the model under the per-call
// timeout. Deadline expiry surfaces as ErrBackendTimeout.
func (b *llmBackend) Analyze(ctx context.Context, req models.ReviewRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, BuildReviewPrompt(req)),
	}

	resp, err := b.llm.GenerateContent(callCtx, content,
		llms.WithTemperature(reviewTemperature),
		llms.WithMaxTokens(reviewMaxTokens),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s: %s", ErrBackendTimeout, b.timeout, req.Filename)
		}
		return "", fmt.Errorf("%s backend call failed: %w", b.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s backend returned no choices", b.name)
	}

	log.Debug().
		Str("backend", b.name).
		Str("file", req.Filename).
		Dur("duration", time.Since(start)).
		Msg("backend analysis complete")

	return resp.Choices[0].Content, nil
}
