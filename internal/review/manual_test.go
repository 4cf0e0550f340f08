package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewloop/pkg/models"
)

type fakeFetcher struct {
	pr  models.PullRequestContext
	err error
}

func (f *fakeFetcher) GetPullRequest(_ context.Context, owner, repo string, prNumber int) (models.PullRequestContext, error) {
	if f.err != nil {
		return models.PullRequestContext{}, f.err
	}
	pr := f.pr
	pr.RepoOwner = owner
	pr.RepoName = repo
	pr.PRNumber = prNumber
	return pr, nil
}

func TestManualRunPublishesReview(t *testing.T) {
	repo := &fakeRepo{files: sourceFiles("a.go")}
	analyzer := &fakeAnalyzer{findings: map[string][]models.Finding{
		"a.go": {{Line: 2, Body: "issue"}},
	}}
	pipeline := NewPipeline(repo, analyzer, defaultLimits)
	fetcher := &fakeFetcher{pr: models.PullRequestContext{Title: "Fix cache", HeadSHA: "abc"}}

	m := NewManualTrigger(fetcher, pipeline)
	published, err := m.Run(context.Background(), "acme", "widgets", 5)

	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Equal(t, 1, repo.reviewCalls)
}

func TestManualRunSetsReviewableAction(t *testing.T) {
	// The fetched pull request carries no webhook action; the trigger must
	// supply one that passes the pipeline gates.
	repo := &fakeRepo{files: sourceFiles("a.go")}
	pipeline := NewPipeline(repo, &fakeAnalyzer{}, defaultLimits)

	m := NewManualTrigger(&fakeFetcher{}, pipeline)
	_, err := m.Run(context.Background(), "acme", "widgets", 5)

	require.NoError(t, err)
	assert.Equal(t, 1, repo.listFilesCalled, "manual runs must not be gated out on action")
}

func TestManualRunStillSkipsDrafts(t *testing.T) {
	repo := &fakeRepo{files: sourceFiles("a.go")}
	pipeline := NewPipeline(repo, &fakeAnalyzer{}, defaultLimits)
	fetcher := &fakeFetcher{pr: models.PullRequestContext{IsDraft: true}}

	m := NewManualTrigger(fetcher, pipeline)
	published, err := m.Run(context.Background(), "acme", "widgets", 5)

	require.NoError(t, err)
	assert.Zero(t, published)
	assert.Zero(t, repo.listFilesCalled)
}

func TestManualRunFetchFailure(t *testing.T) {
	pipeline := NewPipeline(&fakeRepo{}, &fakeAnalyzer{}, defaultLimits)
	fetcher := &fakeFetcher{err: errors.New("404 not found")}

	m := NewManualTrigger(fetcher, pipeline)
	_, err := m.Run(context.Background(), "acme", "widgets", 99)

	assert.ErrorContains(t, err, "404")
}

type contextCapturingAnalyzer struct {
	fakeAnalyzer
	lastPR models.PullRequestContext
}

func (a *contextCapturingAnalyzer) AnalyzeFile(ctx context.Context, pr models.PullRequestContext, file models.ChangedFile) ([]models.Finding, error) {
	a.lastPR = pr
	return a.fakeAnalyzer.AnalyzeFile(ctx, pr, file)
}

func TestManualRunDeliveryID(t *testing.T) {
	repo := &fakeRepo{files: sourceFiles("a.go")}
	analyzer := &contextCapturingAnalyzer{}
	pipeline := NewPipeline(repo, analyzer, defaultLimits)

	m := NewManualTrigger(&fakeFetcher{}, pipeline)
	_, err := m.Run(context.Background(), "acme", "widgets", 5)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(analyzer.lastPR.DeliveryID, "manual-"),
		"got delivery id %q", analyzer.lastPR.DeliveryID)
}
