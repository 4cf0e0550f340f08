package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewloop/pkg/models"
)

type fakeBackend struct {
	calls    int
	lastReq  models.ReviewRequest
	response string
	err      error
}

func (f *fakeBackend) Analyze(_ context.Context, req models.ReviewRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func (f *fakeBackend) Name() string { return "fake" }

type fakeFetcher struct {
	content string
	err     error
	calls   int
}

func (f *fakeFetcher) GetFileContent(_ context.Context, _, _, _, _ string) (string, error) {
	f.calls++
	return f.content, f.err
}

func testPR() models.PullRequestContext {
	return models.PullRequestContext{
		RepoOwner: "acme",
		RepoName:  "widgets",
		PRNumber:  12,
		Title:     "Refactor parser",
		HeadSHA:   "abc123",
	}
}

func TestAnalyzeFileBinarySkipped(t *testing.T) {
	backend := &fakeBackend{}
	fetcher := &fakeFetcher{}
	o := NewOrchestrator(backend, fetcher)

	tests := []models.ChangedFile{
		{Filename: "logo.png", Status: models.StatusAdded},
		{Filename: "data.go", Status: models.StatusModified, IsBinary: true},
	}

	for _, file := range tests {
		findings, err := o.AnalyzeFile(context.Background(), testPR(), file)
		require.NoError(t, err)
		assert.Nil(t, findings)
	}
	assert.Zero(t, backend.calls, "binary files never reach the backend")
	assert.Zero(t, fetcher.calls)
}

func TestAnalyzeFileNewFileSkipsFetch(t *testing.T) {
	backend := &fakeBackend{response: `{"comments":[]}`}
	fetcher := &fakeFetcher{content: "should not be used"}
	o := NewOrchestrator(backend, fetcher)

	_, err := o.AnalyzeFile(context.Background(), testPR(), models.ChangedFile{
		Filename: "new.go",
		Status:   models.StatusAdded,
		Patch:    "+package main",
	})

	require.NoError(t, err)
	assert.Zero(t, fetcher.calls, "added files are reviewed from the patch alone")
	assert.True(t, backend.lastReq.IsNewFile)
	assert.Empty(t, backend.lastReq.FullContent)
}

func TestAnalyzeFileModifiedIncludesContent(t *testing.T) {
	backend := &fakeBackend{response: `{"comments":[]}`}
	fetcher := &fakeFetcher{content: "package main\n\nfunc main() {}\n"}
	o := NewOrchestrator(backend, fetcher)

	_, err := o.AnalyzeFile(context.Background(), testPR(), models.ChangedFile{
		Filename: "main.go",
		Status:   models.StatusModified,
		Patch:    "@@ -1 +1 @@",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, fetcher.content, backend.lastReq.FullContent)
	assert.Equal(t, "go", backend.lastReq.Language)
	assert.Equal(t, "acme/widgets", backend.lastReq.Repo)
}

func TestAnalyzeFileContentTruncated(t *testing.T) {
	backend := &fakeBackend{response: `{"comments":[]}`}
	fetcher := &fakeFetcher{content: strings.Repeat("x", defaultContentBudget+500)}
	o := NewOrchestrator(backend, fetcher)

	_, err := o.AnalyzeFile(context.Background(), testPR(), models.ChangedFile{
		Filename: "big.go",
		Status:   models.StatusModified,
	})

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(backend.lastReq.FullContent, truncationMarker))
	assert.Len(t, backend.lastReq.FullContent, defaultContentBudget+len(truncationMarker))
}

func TestAnalyzeFileContentTruncationKeepsValidUTF8(t *testing.T) {
	backend := &fakeBackend{response: `{"comments":[]}`}
	// Repeating a 3-byte rune guarantees the byte budget lands mid-rune.
	fetcher := &fakeFetcher{content: strings.Repeat("日", defaultContentBudget)}
	o := NewOrchestrator(backend, fetcher)

	_, err := o.AnalyzeFile(context.Background(), testPR(), models.ChangedFile{
		Filename: "unicode.go",
		Status:   models.StatusModified,
	})

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(backend.lastReq.FullContent))
	assert.True(t, strings.HasSuffix(backend.lastReq.FullContent, truncationMarker))
	assert.LessOrEqual(t, len(backend.lastReq.FullContent), defaultContentBudget+len(truncationMarker))
}

func TestAnalyzeFileFetchFailureDegrades(t *testing.T) {
	backend := &fakeBackend{response: `{"comments":[{"line":1,"body":"issue"}]}`}
	fetcher := &fakeFetcher{err: errors.New("404 not found")}
	o := NewOrchestrator(backend, fetcher)

	findings, err := o.AnalyzeFile(context.Background(), testPR(), models.ChangedFile{
		Filename: "gone.go",
		Status:   models.StatusModified,
		Patch:    "@@ -1 +1 @@",
	})

	require.NoError(t, err, "a failed content fetch must not fail the file")
	assert.Empty(t, backend.lastReq.FullContent)
	assert.Len(t, findings, 1)
}

func TestAnalyzeFileBackendErrorPropagates(t *testing.T) {
	backend := &fakeBackend{err: errors.New("rate limited")}
	o := NewOrchestrator(backend, &fakeFetcher{})

	_, err := o.AnalyzeFile(context.Background(), testPR(), models.ChangedFile{
		Filename: "main.go",
		Status:   models.StatusAdded,
	})

	assert.ErrorContains(t, err, "rate limited")
}
