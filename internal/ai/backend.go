package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/reviewloop/pkg/models"
)

// ErrBackendTimeout is returned when a backend call expires its per-call
// timeout budget.
var ErrBackendTimeout = errors.New("ai backend call timed out")

// Backend turns a per-file review request into raw critique text. The text
// is expected, not guaranteed, to be a JSON document matching the findings
// schema; the analysis parser tolerates anything else.
type Backend interface {
	// Analyze reviews a single file change and returns the raw model output.
	Analyze(ctx context.Context, req models.ReviewRequest) (string, error)

	// Name identifies the backend in logs and the status endpoint.
	Name() string
}

// Config is the explicit backend configuration record. It is built once
// from application config at startup and passed into Select; nothing here
// reads the environment.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	Model           string
	Timeout         time.Duration
}

// DefaultTimeout is the per-call budget used when none is configured.
const DefaultTimeout = 30 * time.Second

// Select picks the active backend by fixed precedence: Anthropic if its
// key is configured, else OpenAI, else the deterministic mock. Called once
// at process start; the selection is read-only afterwards.
func Select(cfg Config) (Backend, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch {
	case cfg.AnthropicAPIKey != "":
		backend, err := newAnthropicBackend(cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("backend", backend.Name()).Msg("ai backend selected")
		return backend, nil

	case cfg.OpenAIAPIKey != "":
		backend, err := newOpenAIBackend(cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("backend", backend.Name()).Msg("ai backend selected")
		return backend, nil

	default:
		log.Warn().Msg("no ai credentials configured, using mock backend")
		return NewMockBackend(), nil
	}
}
