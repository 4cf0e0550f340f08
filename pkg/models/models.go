package models

// PullRequestAction is the webhook action that triggered an event.
type PullRequestAction string

const (
	ActionOpened      PullRequestAction = "opened"
	ActionSynchronize PullRequestAction = "synchronize"
	ActionOther       PullRequestAction = "other"
)

// ParseAction maps a raw webhook action string to a PullRequestAction.
// Anything outside the two reviewable actions collapses to ActionOther.
func ParseAction(raw string) PullRequestAction {
	switch raw {
	case "opened":
		return ActionOpened
	case "synchronize":
		return ActionSynchronize
	default:
		return ActionOther
	}
}

// PullRequestContext carries everything the pipeline needs to know about a
// pull request. It is derived once per webhook delivery and read-only after.
type PullRequestContext struct {
	RepoOwner   string
	RepoName    string
	PRNumber    int
	Title       string
	Description string
	AuthorLogin string
	AuthorIsBot bool
	IsDraft     bool
	Action      PullRequestAction
	HeadSHA     string
	DeliveryID  string
}

// FullName returns the owner/name form used in logs.
func (pr PullRequestContext) FullName() string {
	return pr.RepoOwner + "/" + pr.RepoName
}

// FileStatus is the change status reported by the repository service.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusRemoved  FileStatus = "removed"
)

// ChangedFile is one file in a pull request's change set, as reported by
// the repository service. Never mutated after construction.
type ChangedFile struct {
	Filename     string
	Status       FileStatus
	Additions    int
	Deletions    int
	TotalChanges int
	Patch        string
	IsBinary     bool
}

// ReviewRequest is the per-file analysis request handed to a backend.
type ReviewRequest struct {
	Filename      string
	Language      string
	Status        FileStatus
	Additions     int
	Deletions     int
	Patch         string
	FullContent   string
	IsNewFile     bool
	Repo          string
	PRTitle       string
	PRDescription string
}

// Severity of a single finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity normalizes a backend-reported severity, defaulting to info.
func ParseSeverity(raw string) Severity {
	switch raw {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	case "info":
		return SeverityInfo
	default:
		return SeverityInfo
	}
}

// Category of a single finding.
type Category string

const (
	CategoryBug             Category = "bug"
	CategorySecurity        Category = "security"
	CategoryPerformance     Category = "performance"
	CategoryStyle           Category = "style"
	CategoryMaintainability Category = "maintainability"
	CategoryGeneral         Category = "general"
)

// ParseCategory normalizes a backend-reported category, defaulting to general.
func ParseCategory(raw string) Category {
	switch raw {
	case "bug":
		return CategoryBug
	case "security":
		return CategorySecurity
	case "performance":
		return CategoryPerformance
	case "style":
		return CategoryStyle
	case "maintainability":
		return CategoryMaintainability
	default:
		return CategoryGeneral
	}
}

// Finding is one piece of feedback about a specific line, before it is
// bound to a file path for publishing. Line is relative to the file's
// patch; the pipeline does not verify it falls inside a hunk.
type Finding struct {
	Line       int
	Body       string
	Severity   Severity
	Category   Category
	Suggestion string
}

// CommentSide tells the platform which side of the diff a comment sits on.
type CommentSide string

const (
	SideLeft  CommentSide = "LEFT"
	SideRight CommentSide = "RIGHT"
)

// ReviewComment is a Finding bound to a file path, ready for publishing.
type ReviewComment struct {
	Path string
	Line int
	Body string
	Side CommentSide
}
