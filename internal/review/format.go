package review

import (
	"fmt"
	"strings"

	"github.com/reviewloop/pkg/models"
)

var severityLabels = map[models.Severity]string{
	models.SeverityError:   "🔴 Error",
	models.SeverityWarning: "🟡 Warning",
	models.SeverityInfo:    "🔵 Info",
}

// formatCommentBody renders one finding as a review comment body with its
// severity and category header and an optional suggestion block.
func formatCommentBody(f models.Finding) string {
	var b strings.Builder

	label, ok := severityLabels[f.Severity]
	if !ok {
		label = severityLabels[models.SeverityInfo]
	}
	fmt.Fprintf(&b, "**%s** (%s)\n\n%s", label, f.Category, f.Body)

	if f.Suggestion != "" {
		fmt.Fprintf(&b, "\n\n**Suggestion:**\n%s", f.Suggestion)
	}

	return b.String()
}
