package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/reviewloop/pkg/models"
)

// PullRequestFetcher loads pull request metadata from the platform.
type PullRequestFetcher interface {
	GetPullRequest(ctx context.Context, owner, repo string, prNumber int) (models.PullRequestContext, error)
}

// ManualTrigger runs the review pipeline for a named pull request without
// a webhook delivery, for the CLI and the manual review endpoint. The
// fetched pull request goes through the same gates as a webhook event, so
// drafts and bot authors are still skipped.
type ManualTrigger struct {
	fetcher  PullRequestFetcher
	pipeline *Pipeline
}

// NewManualTrigger wires a manual trigger around the pipeline.
func NewManualTrigger(fetcher PullRequestFetcher, pipeline *Pipeline) *ManualTrigger {
	return &ManualTrigger{fetcher: fetcher, pipeline: pipeline}
}

// Run reviews one pull request and returns the number of published
// comments.
func (m *ManualTrigger) Run(ctx context.Context, owner, repo string, prNumber int) (int, error) {
	pr, err := m.fetcher.GetPullRequest(ctx, owner, repo, prNumber)
	if err != nil {
		return 0, fmt.Errorf("loading pull request: %w", err)
	}

	pr.Action = models.ActionOpened
	pr.DeliveryID = "manual-" + uuid.NewString()

	log.Info().
		Str("repo", pr.FullName()).
		Int("pr", pr.PRNumber).
		Str("delivery", pr.DeliveryID).
		Msg("manual review requested")

	return m.pipeline.Handle(ctx, pr)
}
