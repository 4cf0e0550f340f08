package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewloop/pkg/models"
)

type fakePipeline struct {
	calls     int
	lastPR    models.PullRequestContext
	published int
	err       error
}

func (f *fakePipeline) Handle(_ context.Context, pr models.PullRequestContext) (int, error) {
	f.calls++
	f.lastPR = pr
	return f.published, f.err
}

const prPayload = `{
	"action": "opened",
	"pull_request": {
		"number": 7,
		"title": "Add rate limiter",
		"body": "Adds a limiter to the API",
		"draft": false,
		"user": {"login": "alice", "type": "User"},
		"head": {"sha": "abc123"}
	},
	"repository": {
		"full_name": "acme/widgets",
		"name": "widgets",
		"owner": {"login": "acme", "type": "Organization"}
	},
	"sender": {"login": "alice", "type": "User"}
}`

func TestParseEventType(t *testing.T) {
	tests := []struct {
		raw  string
		want EventType
	}{
		{"pull_request", EventPullRequest},
		{"pull_request_review", EventPullRequestReview},
		{"pull_request_review_comment", EventPullRequestReviewComment},
		{"push", EventUnknown},
		{"issues", EventUnknown},
		{"", EventUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseEventType(tt.raw), "event %q", tt.raw)
	}
}

func TestDispatchPullRequest(t *testing.T) {
	pipeline := &fakePipeline{published: 3}
	router := NewRouter(pipeline)

	err := router.Dispatch(context.Background(), InboundEvent{
		Type:       "pull_request",
		DeliveryID: "d-1",
		RawBody:    []byte(prPayload),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, pipeline.calls)
	assert.Equal(t, "acme", pipeline.lastPR.RepoOwner)
	assert.Equal(t, "widgets", pipeline.lastPR.RepoName)
	assert.Equal(t, 7, pipeline.lastPR.PRNumber)
	assert.Equal(t, models.ActionOpened, pipeline.lastPR.Action)
	assert.Equal(t, "abc123", pipeline.lastPR.HeadSHA)
	assert.Equal(t, "d-1", pipeline.lastPR.DeliveryID)
	assert.False(t, pipeline.lastPR.AuthorIsBot)
}

func TestDispatchBotAuthorFlag(t *testing.T) {
	pipeline := &fakePipeline{}
	router := NewRouter(pipeline)

	payload := `{
		"action": "opened",
		"pull_request": {
			"number": 1,
			"user": {"login": "dependabot[bot]", "type": "Bot"},
			"head": {"sha": "fff"}
		},
		"repository": {"name": "widgets", "owner": {"login": "acme"}}
	}`

	err := router.Dispatch(context.Background(), InboundEvent{
		Type:    "pull_request",
		RawBody: []byte(payload),
	})

	require.NoError(t, err)
	assert.True(t, pipeline.lastPR.AuthorIsBot)
}

func TestDispatchIgnoresOtherEvents(t *testing.T) {
	pipeline := &fakePipeline{}
	router := NewRouter(pipeline)

	for _, eventType := range []string{"push", "issues", "pull_request_review", "pull_request_review_comment", "star"} {
		err := router.Dispatch(context.Background(), InboundEvent{
			Type:    eventType,
			RawBody: []byte(`{}`),
		})
		assert.NoError(t, err, "event %q", eventType)
	}
	assert.Zero(t, pipeline.calls)
}

func TestDispatchMalformedPayload(t *testing.T) {
	router := NewRouter(&fakePipeline{})

	err := router.Dispatch(context.Background(), InboundEvent{
		Type:    "pull_request",
		RawBody: []byte(`{not json`),
	})

	assert.Error(t, err)
}

func TestDispatchPipelineErrorPropagates(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("github unavailable")}
	router := NewRouter(pipeline)

	err := router.Dispatch(context.Background(), InboundEvent{
		Type:    "pull_request",
		RawBody: []byte(prPayload),
	})

	assert.ErrorContains(t, err, "github unavailable")
}
