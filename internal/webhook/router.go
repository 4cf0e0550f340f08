package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/reviewloop/pkg/models"
)

// EventType is the closed set of webhook event kinds this service knows
// about. Using an enum instead of a string-keyed handler map keeps the
// dispatch switch exhaustive for known types with one explicit default arm.
type EventType int

const (
	EventUnknown EventType = iota
	EventPullRequest
	EventPullRequestReview
	EventPullRequestReviewComment
)

// ParseEventType maps the X-GitHub-Event header to an EventType.
func ParseEventType(raw string) EventType {
	switch raw {
	case "pull_request":
		return EventPullRequest
	case "pull_request_review":
		return EventPullRequestReview
	case "pull_request_review_comment":
		return EventPullRequestReviewComment
	default:
		return EventUnknown
	}
}

// String returns the wire name of the event type.
func (t EventType) String() string {
	switch t {
	case EventPullRequest:
		return "pull_request"
	case EventPullRequestReview:
		return "pull_request_review"
	case EventPullRequestReviewComment:
		return "pull_request_review_comment"
	default:
		return "unknown"
	}
}

// PipelineRunner is the pull-request review pipeline the router hands
// pull_request events to.
type PipelineRunner interface {
	Handle(ctx context.Context, pr models.PullRequestContext) (int, error)
}

// Router dispatches an authenticated inbound event to its handler.
// Unrecognized event types are successful no-ops: new webhook event types
// must never break the service.
type Router struct {
	pipeline PipelineRunner
}

// NewRouter creates a Router backed by the given pipeline.
func NewRouter(pipeline PipelineRunner) *Router {
	return &Router{pipeline: pipeline}
}

// Dispatch routes one event. Handler errors propagate to the caller, which
// turns them into the HTTP-level failure response.
func (r *Router) Dispatch(ctx context.Context, event InboundEvent) error {
	eventType := ParseEventType(event.Type)

	switch eventType {
	case EventPullRequest:
		var payload PullRequestPayload
		if err := json.Unmarshal(event.RawBody, &payload); err != nil {
			return fmt.Errorf("parsing pull_request payload: %w", err)
		}

		pr := payload.Context(event.DeliveryID)
		published, err := r.pipeline.Handle(ctx, pr)
		if err != nil {
			return err
		}

		log.Info().
			Str("delivery", event.DeliveryID).
			Str("repo", pr.FullName()).
			Int("pr", pr.PRNumber).
			Int("comments", published).
			Msg("pull request event processed")
		return nil

	case EventPullRequestReview, EventPullRequestReviewComment:
		// Reserved extension points, observed only.
		log.Info().
			Str("delivery", event.DeliveryID).
			Str("event", eventType.String()).
			Msg("review event observed, no handler configured")
		return nil

	default:
		log.Info().
			Str("delivery", event.DeliveryID).
			Str("event", event.Type).
			Msg("ignoring unrecognized event type")
		return nil
	}
}
