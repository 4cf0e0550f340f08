package review

import (
	"fmt"
	"strings"

	"github.com/reviewloop/pkg/models"
)

// buildSummary renders the markdown review summary posted with the batch
// of comments.
func buildSummary(reviewedFiles int, comments []models.ReviewComment, findings []models.Finding) string {
	var b strings.Builder

	b.WriteString("## 🤖 AI Code Review\n\n")
	fmt.Fprintf(&b, "Reviewed **%d** file(s) and found **%d** issue(s).\n\n", reviewedFiles, len(comments))

	bySeverity := map[models.Severity]int{}
	byCategory := map[models.Category]int{}
	for _, f := range findings {
		bySeverity[f.Severity]++
		byCategory[f.Category]++
	}

	if len(findings) > 0 {
		b.WriteString("**By severity:**\n")
		for _, sev := range []models.Severity{models.SeverityError, models.SeverityWarning, models.SeverityInfo} {
			if n := bySeverity[sev]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", severityLabels[sev], n)
			}
		}
		b.WriteString("\n**By category:**\n")
		for _, cat := range []models.Category{
			models.CategoryBug, models.CategorySecurity, models.CategoryPerformance,
			models.CategoryStyle, models.CategoryMaintainability, models.CategoryGeneral,
		} {
			if n := byCategory[cat]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", cat, n)
			}
		}
		b.WriteString("\n")
	}

	switch {
	case bySeverity[models.SeverityError] > 0:
		b.WriteString("⚠️ Please address the errors before merging.")
	case bySeverity[models.SeverityWarning] > 0:
		b.WriteString("Consider addressing the warnings before merging.")
	default:
		b.WriteString("No blocking issues found.")
	}

	return b.String()
}

// buildNoIssuesComment is posted when every reviewed file came back clean.
func buildNoIssuesComment(reviewedFiles int) string {
	return fmt.Sprintf("## 🤖 AI Code Review\n\nReviewed **%d** file(s). ✅ No issues found, looks good!", reviewedFiles)
}

// buildIncompleteComment is posted when no selected file could be
// analyzed, so the absence of findings carries no signal.
func buildIncompleteComment(selectedFiles int) string {
	return fmt.Sprintf("## 🤖 AI Code Review\n\n⚠️ The review is incomplete: none of the **%d** selected file(s) could be analyzed. Check the service logs.", selectedFiles)
}
