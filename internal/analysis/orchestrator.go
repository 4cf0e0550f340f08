package analysis

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/reviewloop/internal/ai"
	"github.com/reviewloop/pkg/models"
)

// defaultContentBudget caps how many bytes of full file content are
// included in a review request alongside the diff.
const defaultContentBudget = 16384

const truncationMarker = "\n... (content truncated)"

// ContentFetcher retrieves the current content of a file at a given ref.
type ContentFetcher interface {
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
}

// Orchestrator prepares review requests and turns backend responses into
// findings. It owns language detection, the binary short-circuit, and the
// full-content excerpt for modified files.
type Orchestrator struct {
	backend       ai.Backend
	fetcher       ContentFetcher
	contentBudget int
}

// NewOrchestrator wires a backend and a content fetcher.
func NewOrchestrator(backend ai.Backend, fetcher ContentFetcher) *Orchestrator {
	return &Orchestrator{
		backend:       backend,
		fetcher:       fetcher,
		contentBudget: defaultContentBudget,
	}
}

// BackendName exposes the active backend identity for status reporting.
func (o *Orchestrator) BackendName() string {
	return o.backend.Name()
}

// AnalyzeFile runs one changed file through the backend and returns its
// findings. Binary files are skipped without a backend call. A failed
// content fetch degrades to a patch-only review rather than failing the
// file.
func (o *Orchestrator) AnalyzeFile(ctx context.Context, pr models.PullRequestContext, file models.ChangedFile) ([]models.Finding, error) {
	if file.IsBinary || IsBinaryPath(file.Filename) {
		log.Debug().
			Str("file", file.Filename).
			Msg("skipping binary file")
		return nil, nil
	}

	req := models.ReviewRequest{
		Filename:      file.Filename,
		Language:      DetectLanguage(file.Filename),
		Status:        file.Status,
		Additions:     file.Additions,
		Deletions:     file.Deletions,
		Patch:         file.Patch,
		IsNewFile:     file.Status == models.StatusAdded,
		Repo:          pr.FullName(),
		PRTitle:       pr.Title,
		PRDescription: pr.Description,
	}

	if !req.IsNewFile {
		content, err := o.fetcher.GetFileContent(ctx, pr.RepoOwner, pr.RepoName, file.Filename, pr.HeadSHA)
		if err != nil {
			log.Warn().
				Err(err).
				Str("file", file.Filename).
				Msg("could not fetch file content, reviewing patch only")
		} else {
			req.FullContent = o.excerpt(content)
		}
	}

	raw, err := o.backend.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	return ParseFindings(raw, file.Filename), nil
}

// excerpt truncates file content to the byte budget, marking the cut.
// The cut backs off to a rune boundary so the result stays valid UTF-8.
func (o *Orchestrator) excerpt(content string) string {
	if len(content) <= o.contentBudget {
		return content
	}
	cut := o.contentBudget
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + truncationMarker
}
