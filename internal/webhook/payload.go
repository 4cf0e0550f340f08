package webhook

import (
	"github.com/reviewloop/pkg/models"
)

// InboundEvent is one webhook delivery, immutable once received.
type InboundEvent struct {
	Type       string
	DeliveryID string
	Signature  string
	RawBody    []byte
}

// GitHubUser is the user object embedded in webhook payloads.
type GitHubUser struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// GitHubRepository identifies the repository a webhook refers to.
type GitHubRepository struct {
	FullName string     `json:"full_name"`
	Name     string     `json:"name"`
	Owner    GitHubUser `json:"owner"`
}

// GitHubPullRequest is the pull_request object in webhook payloads.
type GitHubPullRequest struct {
	Number int        `json:"number"`
	Title  string     `json:"title"`
	Body   string     `json:"body"`
	Draft  bool       `json:"draft"`
	User   GitHubUser `json:"user"`
	Head   struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// PullRequestPayload is the body of a pull_request webhook event.
type PullRequestPayload struct {
	Action      string            `json:"action"`
	PullRequest GitHubPullRequest `json:"pull_request"`
	Repository  GitHubRepository  `json:"repository"`
	Sender      GitHubUser        `json:"sender"`
}

// Context derives the read-only PullRequestContext the pipeline consumes.
// Computed once per delivery, never recomputed mid-pipeline.
func (p *PullRequestPayload) Context(deliveryID string) models.PullRequestContext {
	return models.PullRequestContext{
		RepoOwner:   p.Repository.Owner.Login,
		RepoName:    p.Repository.Name,
		PRNumber:    p.PullRequest.Number,
		Title:       p.PullRequest.Title,
		Description: p.PullRequest.Body,
		AuthorLogin: p.PullRequest.User.Login,
		AuthorIsBot: p.PullRequest.User.Type == "Bot",
		IsDraft:     p.PullRequest.Draft,
		Action:      models.ParseAction(p.Action),
		HeadSHA:     p.PullRequest.Head.SHA,
		DeliveryID:  deliveryID,
	}
}
