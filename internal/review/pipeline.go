package review

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/reviewloop/pkg/models"
)

// RepositoryService is the pipeline's view of the hosting platform.
type RepositoryService interface {
	ListChangedFiles(ctx context.Context, owner, repo string, prNumber int) ([]models.ChangedFile, error)
	CreateReview(ctx context.Context, owner, repo string, prNumber int, summary string, comments []models.ReviewComment) error
	PostSummaryComment(ctx context.Context, owner, repo string, prNumber int, body string) error
}

// severityRank orders severities for the publishing floor. The zero
// Severity ranks lowest, so an unset MinSeverity publishes everything.
var severityRank = map[models.Severity]int{
	models.SeverityInfo:    1,
	models.SeverityWarning: 2,
	models.SeverityError:   3,
}

// FileAnalyzer produces findings for one changed file.
type FileAnalyzer interface {
	AnalyzeFile(ctx context.Context, pr models.PullRequestContext, file models.ChangedFile) ([]models.Finding, error)
}

// Pipeline runs the end-to-end review of a pull request event: gate,
// fetch changed files, triage, analyze each file, publish the results.
// There is no cross-delivery locking or dedup; concurrent deliveries for
// the same pull request may interleave their published reviews.
type Pipeline struct {
	repo     RepositoryService
	analyzer FileAnalyzer
	limits   Limits
}

// NewPipeline wires a pipeline with its repository service, analyzer, and
// review limits.
func NewPipeline(repo RepositoryService, analyzer FileAnalyzer, limits Limits) *Pipeline {
	return &Pipeline{repo: repo, analyzer: analyzer, limits: limits}
}

// Handle processes one pull request event and returns the number of
// published review comments. Events that do not warrant a review are
// skipped with a log line and a nil error. Failures fetching the file
// list or publishing the review propagate to the caller; a failure
// analyzing one file only drops that file.
func (p *Pipeline) Handle(ctx context.Context, pr models.PullRequestContext) (int, error) {
	logger := log.With().
		Str("repo", pr.FullName()).
		Int("pr", pr.PRNumber).
		Str("delivery", pr.DeliveryID).
		Logger()

	if pr.Action != models.ActionOpened && pr.Action != models.ActionSynchronize {
		logger.Info().Str("action", string(pr.Action)).Msg("ignoring pull request action")
		return 0, nil
	}
	if pr.IsDraft {
		logger.Info().Msg("skipping draft pull request")
		return 0, nil
	}
	if pr.AuthorIsBot {
		logger.Info().Str("author", pr.AuthorLogin).Msg("skipping bot-authored pull request")
		return 0, nil
	}

	files, err := p.repo.ListChangedFiles(ctx, pr.RepoOwner, pr.RepoName, pr.PRNumber)
	if err != nil {
		return 0, fmt.Errorf("listing changed files: %w", err)
	}
	if len(files) == 0 {
		logger.Info().Msg("pull request has no changed files")
		return 0, nil
	}

	selected := SelectFiles(files, p.limits)
	if len(selected) == 0 {
		logger.Info().Int("changed", len(files)).Msg("no reviewable files after triage")
		return 0, nil
	}

	logger.Info().
		Int("changed", len(files)).
		Int("selected", len(selected)).
		Msg("starting review")

	var comments []models.ReviewComment
	var findings []models.Finding
	analyzed := 0
	for _, file := range selected {
		fileFindings, err := p.analyzer.AnalyzeFile(ctx, pr, file)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("file", file.Filename).
				Msg("file analysis failed, continuing")
			continue
		}
		analyzed++
		for _, f := range fileFindings {
			if severityRank[f.Severity] < severityRank[p.limits.MinSeverity] {
				continue
			}
			findings = append(findings, f)
			comments = append(comments, models.ReviewComment{
				Path: file.Filename,
				Line: f.Line,
				Body: formatCommentBody(f),
				Side: models.SideRight,
			})
		}
	}

	if analyzed == 0 {
		// Every selected file failed analysis; report the run as incomplete.
		if err := p.repo.PostSummaryComment(ctx, pr.RepoOwner, pr.RepoName, pr.PRNumber, buildIncompleteComment(len(selected))); err != nil {
			return 0, fmt.Errorf("posting summary comment: %w", err)
		}
		logger.Warn().Int("selected", len(selected)).Msg("analysis failed for every selected file")
		return 0, nil
	}

	if len(comments) == 0 {
		if err := p.repo.PostSummaryComment(ctx, pr.RepoOwner, pr.RepoName, pr.PRNumber, buildNoIssuesComment(len(selected))); err != nil {
			return 0, fmt.Errorf("posting summary comment: %w", err)
		}
		logger.Info().Msg("review complete, no issues found")
		return 0, nil
	}

	summary := buildSummary(len(selected), comments, findings)
	if err := p.repo.CreateReview(ctx, pr.RepoOwner, pr.RepoName, pr.PRNumber, summary, comments); err != nil {
		return 0, fmt.Errorf("creating review: %w", err)
	}

	logger.Info().Int("comments", len(comments)).Msg("review published")
	return len(comments), nil
}

// MaxFiles exposes the configured file limit for status reporting.
func (p *Pipeline) MaxFiles() int { return p.limits.MaxFiles }

// MaxLinesPerFile exposes the configured per-file line limit for status
// reporting.
func (p *Pipeline) MaxLinesPerFile() int { return p.limits.MaxLinesPerFile }
