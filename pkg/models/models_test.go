package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		raw  string
		want PullRequestAction
	}{
		{"opened", ActionOpened},
		{"synchronize", ActionSynchronize},
		{"closed", ActionOther},
		{"reopened", ActionOther},
		{"edited", ActionOther},
		{"", ActionOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAction(tt.raw), "action %q", tt.raw)
	}
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, ParseSeverity("error"))
	assert.Equal(t, SeverityWarning, ParseSeverity("warning"))
	assert.Equal(t, SeverityInfo, ParseSeverity("info"))
	assert.Equal(t, SeverityInfo, ParseSeverity("critical"))
	assert.Equal(t, SeverityInfo, ParseSeverity(""))
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryBug, ParseCategory("bug"))
	assert.Equal(t, CategorySecurity, ParseCategory("security"))
	assert.Equal(t, CategoryPerformance, ParseCategory("performance"))
	assert.Equal(t, CategoryStyle, ParseCategory("style"))
	assert.Equal(t, CategoryMaintainability, ParseCategory("maintainability"))
	assert.Equal(t, CategoryGeneral, ParseCategory("general"))
	assert.Equal(t, CategoryGeneral, ParseCategory("typo"))
	assert.Equal(t, CategoryGeneral, ParseCategory(""))
}

func TestFullName(t *testing.T) {
	pr := PullRequestContext{RepoOwner: "acme", RepoName: "widgets"}
	assert.Equal(t, "acme/widgets", pr.FullName())
}
