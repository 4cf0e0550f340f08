package ai

import (
	"fmt"
	"strings"

	"github.com/reviewloop/pkg/models"
)

// systemPrompt fixes the review task and the output contract. The schema
// must stay in sync with the parser in internal/analysis.
const systemPrompt = `You are an expert code reviewer. Analyze the provided code changes and identify issues related to:

1. Potential bugs and logic errors
2. Security vulnerabilities (injection, authentication issues, unsafe input handling)
3. Performance problems (inefficient algorithms, leaks, unnecessary work)
4. Code style and formatting issues
5. Maintainability concerns

Respond with a JSON object containing a "comments" array:
{
  "comments": [
    {
      "line": 42,
      "body": "Description of the issue",
      "severity": "warning",
      "category": "bug",
      "suggestion": "Optional suggested fix"
    }
  ]
}

Rules:
- "line" refers to line numbers in the new version of the file as shown in the diff.
- "severity" is one of: error, warning, info.
- "category" is one of: bug, security, performance, style, maintainability, general.
- Report at most 5 comments per file. Comment only on lines with actual issues.
- If the changes look good, return {"comments": []}.`

// BuildReviewPrompt renders the per-file user prompt handed to a backend.
func BuildReviewPrompt(req models.ReviewRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Please review the following %s code changes:\n\n", req.Language)
	fmt.Fprintf(&b, "**Repository:** %s\n", req.Repo)
	fmt.Fprintf(&b, "**File:** %s\n", req.Filename)
	fmt.Fprintf(&b, "**Status:** %s (+%d -%d)\n", req.Status, req.Additions, req.Deletions)

	if req.PRTitle != "" {
		fmt.Fprintf(&b, "**Pull request:** %s\n", req.PRTitle)
	}
	if req.PRDescription != "" {
		fmt.Fprintf(&b, "\n**Description:**\n%s\n", req.PRDescription)
	}

	if req.FullContent != "" {
		fmt.Fprintf(&b, "\n**Current file content:**\n```%s\n%s\n```\n", req.Language, req.FullContent)
	}

	fmt.Fprintf(&b, "\n**Changes (diff):**\n```diff\n%s\n```\n", req.Patch)

	if req.IsNewFile {
		b.WriteString("\nThis is a newly added file; review the whole addition.")
	} else {
		b.WriteString("\nFocus on the modified lines, using the full file content for context.")
	}

	return b.String()
}
