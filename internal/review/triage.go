package review

import (
	"path/filepath"
	"strings"

	"github.com/reviewloop/pkg/models"
)

// Limits bounds how much of a pull request gets reviewed and published.
// MinSeverity is the publishing floor; findings below it are dropped. The
// zero value publishes everything.
type Limits struct {
	MaxFiles        int
	MaxLinesPerFile int
	MinSeverity     models.Severity
}

// skipPathFragments marks generated or vendored trees that never need
// review. Matching is against slash-separated path segments.
var skipPathFragments = []string{
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	"__pycache__",
	".git",
}

// skipFilenames are exact basenames excluded from review.
var skipFilenames = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"Cargo.lock":        true,
	"go.sum":            true,
	"composer.lock":     true,
	"Gemfile.lock":      true,
	"poetry.lock":       true,
}

// skipSuffixes are filename suffixes excluded from review, covering
// minified assets, logs, lockfiles, and non-code documents.
var skipSuffixes = []string{
	".min.js",
	".min.css",
	".lock",
	".log",
	".md",
	".txt",
	".json",
	".xml",
	".yaml",
	".yml",
	".toml",
	".ini",
	".cfg",
	".svg",
}

// reviewableExtensions is the allow-list of source file types worth
// sending to a backend.
var reviewableExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".go": true, ".rs": true,
	".cpp": true, ".cc": true, ".hpp": true, ".c": true, ".h": true,
	".cs": true, ".php": true, ".rb": true, ".swift": true,
	".kt": true, ".scala": true, ".clj": true,
	".sh": true, ".sql": true,
	".html": true, ".css": true, ".scss": true,
}

// SelectFiles filters the changed files of a pull request down to the
// ones worth reviewing and truncates to the file limit. It is pure: the
// input slice is never mutated and calling it twice gives the same
// result.
func SelectFiles(files []models.ChangedFile, limits Limits) []models.ChangedFile {
	selected := make([]models.ChangedFile, 0, len(files))
	for _, f := range files {
		if len(selected) >= limits.MaxFiles {
			break
		}
		if f.Status == models.StatusRemoved {
			continue
		}
		if shouldSkipPath(f.Filename) {
			continue
		}
		if !reviewableExtensions[strings.ToLower(filepath.Ext(f.Filename))] {
			continue
		}
		if f.TotalChanges > limits.MaxLinesPerFile {
			continue
		}
		selected = append(selected, f)
	}
	return selected
}

func shouldSkipPath(path string) bool {
	if skipFilenames[filepath.Base(path)] {
		return true
	}

	lower := strings.ToLower(path)
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	for _, segment := range strings.Split(path, "/") {
		for _, fragment := range skipPathFragments {
			if segment == fragment {
				return true
			}
		}
	}

	return false
}
