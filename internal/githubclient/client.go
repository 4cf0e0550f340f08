package githubclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/reviewloop/pkg/models"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"

	requestTimeout = 15 * time.Second
)

// Client is a minimal GitHub REST v3 client covering the calls the review
// pipeline needs. It does not retry; a failed call surfaces immediately.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client authenticated with the given token. An empty
// token still works for public repositories, at a much lower rate limit.
func NewClient(token string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake
// server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type changedFileResponse struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch"`
}

// ListChangedFiles returns the changed files of a pull request in the
// order GitHub reports them. Files without a patch (binary or too large
// to diff) are flagged as binary.
func (c *Client) ListChangedFiles(ctx context.Context, owner, repo string, prNumber int) ([]models.ChangedFile, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/files?per_page=100", owner, repo, prNumber)

	var raw []changedFileResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("listing files for %s/%s#%d: %w", owner, repo, prNumber, err)
	}

	files := make([]models.ChangedFile, 0, len(raw))
	for _, f := range raw {
		status := models.FileStatus(f.Status)
		if f.Status == "renamed" || f.Status == "changed" {
			status = models.StatusModified
		}
		files = append(files, models.ChangedFile{
			Filename:     f.Filename,
			Status:       status,
			Additions:    f.Additions,
			Deletions:    f.Deletions,
			TotalChanges: f.Changes,
			Patch:        f.Patch,
			IsBinary:     f.Patch == "",
		})
	}
	return files, nil
}

type pullRequestResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Draft  bool   `json:"draft"`
	User   struct {
		Login string `json:"login"`
		Type  string `json:"type"`
	} `json:"user"`
	Head struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// GetPullRequest fetches a pull request's metadata and derives the
// context the pipeline consumes. Action and DeliveryID are left for the
// caller to fill in.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, prNumber int) (models.PullRequestContext, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, prNumber)

	var resp pullRequestResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return models.PullRequestContext{}, fmt.Errorf("fetching %s/%s#%d: %w", owner, repo, prNumber, err)
	}

	return models.PullRequestContext{
		RepoOwner:   owner,
		RepoName:    repo,
		PRNumber:    resp.Number,
		Title:       resp.Title,
		Description: resp.Body,
		AuthorLogin: resp.User.Login,
		AuthorIsBot: resp.User.Type == "Bot",
		IsDraft:     resp.Draft,
		HeadSHA:     resp.Head.SHA,
	}, nil
}

type contentResponse struct {
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// GetFileContent fetches the content of a file at a specific ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	reqPath := fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s",
		owner, repo, escapePath(path), url.QueryEscape(ref))

	var resp contentResponse
	if err := c.do(ctx, http.MethodGet, reqPath, nil, &resp); err != nil {
		return "", fmt.Errorf("fetching content of %s at %s: %w", path, ref, err)
	}

	if resp.Encoding != "base64" {
		return resp.Content, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decoding content of %s: %w", path, err)
	}
	return string(decoded), nil
}

type reviewCommentRequest struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Body string `json:"body"`
	Side string `json:"side"`
}

type createReviewRequest struct {
	Body     string                 `json:"body"`
	Event    string                 `json:"event"`
	Comments []reviewCommentRequest `json:"comments"`
}

// CreateReview publishes a batch review with inline comments. The review
// event is always COMMENT; the service never approves or blocks.
func (c *Client) CreateReview(ctx context.Context, owner, repo string, prNumber int, summary string, comments []models.ReviewComment) error {
	payload := createReviewRequest{
		Body:     summary,
		Event:    "COMMENT",
		Comments: make([]reviewCommentRequest, 0, len(comments)),
	}
	for _, cm := range comments {
		payload.Comments = append(payload.Comments, reviewCommentRequest{
			Path: cm.Path,
			Line: cm.Line,
			Body: cm.Body,
			Side: string(cm.Side),
		})
	}

	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, prNumber)
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("creating review on %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	return nil
}

// PostSummaryComment posts a plain issue comment on the pull request.
func (c *Client) PostSummaryComment(ctx context.Context, owner, repo string, prNumber int, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, prNumber)
	payload := map[string]string{"body": body}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("commenting on %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Debug().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("github api error")
		return fmt.Errorf("github api %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// escapePath escapes each path segment while keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
