package analysis

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"

	"github.com/reviewloop/pkg/models"
)

// rawComment mirrors the JSON contract the backends are instructed to
// produce. Severity and category are normalized with defaults after decode.
type rawComment struct {
	Line       int    `json:"line"`
	Body       string `json:"body"`
	Severity   string `json:"severity"`
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
}

type rawResponse struct {
	Comments json.RawMessage `json:"comments"`
}

// ParseFindings extracts findings from raw backend output. Model output is
// semi-structured at best, so the parser never fails: anything that cannot
// be decoded into a comments array yields an empty list and a logged
// anomaly. Malformed-but-close JSON gets one repair pass first.
func ParseFindings(raw, filename string) []models.Finding {
	candidate := extractJSONObject(raw)
	if candidate == "" {
		log.Warn().
			Str("file", filename).
			Msg("backend response contains no JSON object, dropping")
		return nil
	}

	var resp rawResponse
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(candidate)
		if repairErr != nil || json.Unmarshal([]byte(repaired), &resp) != nil {
			log.Warn().
				Str("file", filename).
				Msg("backend response is not valid JSON, dropping")
			return nil
		}
		log.Debug().
			Str("file", filename).
			Msg("backend response repaired before decoding")
	}

	if resp.Comments == nil {
		log.Warn().
			Str("file", filename).
			Msg("backend response has no comments array, dropping")
		return nil
	}

	var comments []rawComment
	if err := json.Unmarshal(resp.Comments, &comments); err != nil {
		log.Warn().
			Str("file", filename).
			Msg("backend comments value is not an array, dropping")
		return nil
	}

	findings := make([]models.Finding, 0, len(comments))
	for _, c := range comments {
		if c.Body == "" {
			continue
		}
		findings = append(findings, models.Finding{
			Line:       c.Line,
			Body:       c.Body,
			Severity:   models.ParseSeverity(c.Severity),
			Category:   models.ParseCategory(c.Category),
			Suggestion: c.Suggestion,
		})
	}

	return findings
}

// extractJSONObject trims any prose the model wrapped around the JSON
// object, e.g. markdown fences or a leading explanation.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
