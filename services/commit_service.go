package services

import (
	"fmt"
	"math"
	"path"
	"strings"

	"okrdeck/models"
)

// maxPushIncrease caps how far a single push can move progress.
const maxPushIncrease = 10

// CommitAnalysis is the aggregate classification of one batch of commits.
type CommitAnalysis struct {
	SignificantChanges   int      `json:"significant_changes"`
	FeatureCommits       int      `json:"feature_commits"`
	BugfixCommits        int      `json:"bugfix_commits"`
	DocumentationCommits int      `json:"documentation_commits"`
	TotalFilesChanged    int      `json:"total_files_changed"`
	ProgressIndicators   []string `json:"progress_indicators,omitempty"`
}

// Keyword sets are checked in order; a commit gets at most one primary
// category (feature before bugfix before documentation). Progress keywords
// are independent of the primary category.
var (
	featureKeywords = []string{
		"feat:", "feature:", "add:", "implement:",
		"added", "implemented", "new feature", "enhancement",
	}
	bugfixKeywords = []string{
		"fix:", "bug:", "hotfix", "patch:", "fixed", "resolved", "error",
	}
	documentationKeywords = []string{
		"docs:", "doc:", "documentation",
	}
	progressKeywords = []string{
		"complete", "finish", "done", "milestone", "mvp", "release", "ship",
	}
)

// Path suffixes and base-name fragments that mark a file as non-code.
var (
	nonCodeSuffixes = []string{
		".md", ".markdown", ".txt", ".json", ".yml", ".yaml", ".toml", ".lock",
	}
	nonCodeBaseFragments = []string{
		"readme", "license", "changelog", "ignore",
		"eslint", "prettier", "editorconfig",
	}
)

// CommitService classifies commit batches and turns them into bounded
// progress deltas. All methods degrade to zero results instead of failing;
// a malformed commit must never block the batch.
type CommitService struct{}

func NewCommitService() *CommitService {
	return &CommitService{}
}

// AnalyzeCommits classifies each commit by message and counts significant
// file changes across the batch.
func (s *CommitService) AnalyzeCommits(commits []models.Commit) (analysis CommitAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			analysis = CommitAnalysis{}
		}
	}()

	for _, commit := range commits {
		changed := append(append(append([]string{}, commit.Added...), commit.Modified...), commit.Removed...)
		analysis.TotalFilesChanged += len(changed)

		for _, file := range changed {
			if isSignificantPath(file) {
				analysis.SignificantChanges++
				break
			}
		}

		message := strings.ToLower(commit.Message)
		switch {
		case containsAny(message, featureKeywords):
			analysis.FeatureCommits++
		case containsAny(message, bugfixKeywords):
			analysis.BugfixCommits++
		case containsAny(message, documentationKeywords):
			analysis.DocumentationCommits++
		}

		for _, keyword := range progressKeywords {
			if strings.Contains(message, keyword) {
				analysis.ProgressIndicators = append(analysis.ProgressIndicators,
					fmt.Sprintf("commit %s mentions %q", shortSHA(commit.ID), keyword))
				break
			}
		}
	}

	return analysis
}

// CalculateProgressIncrease converts an analysis into a progress delta,
// scaled by the integration weight and capped at maxPushIncrease.
func (s *CommitService) CalculateProgressIncrease(analysis CommitAnalysis, github *models.GithubIntegration) float64 {
	if github == nil || github.Weight <= 0 {
		return 0
	}

	baseWeight := github.Weight / 100

	var increase float64
	if analysis.SignificantChanges > 0 {
		increase += 2 * baseWeight
	}
	increase += 3 * baseWeight * float64(analysis.FeatureCommits)
	increase += 1.5 * baseWeight * float64(analysis.BugfixCommits)
	if analysis.TotalFilesChanged > 10 {
		increase += 2 * baseWeight
	}
	if len(analysis.ProgressIndicators) > 0 {
		increase += 1 * baseWeight
	}

	increase = math.Min(increase, maxPushIncrease)
	return roundOne(increase)
}

// isSignificantPath reports whether a changed file counts as code.
// Markdown, text, config, env, ignore and lint/format files do not.
func isSignificantPath(file string) bool {
	lower := strings.ToLower(file)
	for _, suffix := range nonCodeSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	base := path.Base(lower)
	if strings.HasPrefix(base, ".env") {
		return false
	}
	for _, fragment := range nonCodeBaseFragments {
		if strings.Contains(base, fragment) {
			return false
		}
	}
	return true
}

func containsAny(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
