package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okrdeck/models"
)

func TestAnalyzeCommitsFeature(t *testing.T) {
	svc := NewCommitService()

	analysis := svc.AnalyzeCommits([]models.Commit{
		{ID: "abc1234", Message: "feat: add X", Added: []string{"a.ts"}},
	})

	assert.Equal(t, 1, analysis.SignificantChanges)
	assert.Equal(t, 1, analysis.FeatureCommits)
	assert.Equal(t, 0, analysis.BugfixCommits)
	assert.Equal(t, 1, analysis.TotalFilesChanged)
}

func TestAnalyzeCommitsReadmeNotSignificant(t *testing.T) {
	svc := NewCommitService()

	analysis := svc.AnalyzeCommits([]models.Commit{
		{ID: "abc1234", Message: "update README.md", Modified: []string{"README.md"}},
	})

	assert.Equal(t, 0, analysis.SignificantChanges)
	assert.Equal(t, 0, analysis.FeatureCommits)
	assert.Equal(t, 0, analysis.BugfixCommits)
	assert.Equal(t, 1, analysis.TotalFilesChanged)
}

func TestAnalyzeCommitsPrimaryCategoryOrder(t *testing.T) {
	svc := NewCommitService()

	// Message matches both feature and bugfix keywords; feature wins.
	analysis := svc.AnalyzeCommits([]models.Commit{
		{Message: "feat: fix: both worlds", Added: []string{"main.go"}},
	})

	assert.Equal(t, 1, analysis.FeatureCommits)
	assert.Equal(t, 0, analysis.BugfixCommits)
}

func TestAnalyzeCommitsClassification(t *testing.T) {
	svc := NewCommitService()

	analysis := svc.AnalyzeCommits([]models.Commit{
		{Message: "fix: null pointer on login", Modified: []string{"auth.go"}},
		{Message: "docs: describe deploy flow", Modified: []string{"guide.rst"}},
		{Message: "chore: bump versions", Modified: []string{"go.sum"}},
	})

	assert.Equal(t, 1, analysis.BugfixCommits)
	assert.Equal(t, 1, analysis.DocumentationCommits)
	assert.Equal(t, 0, analysis.FeatureCommits)
}

func TestAnalyzeCommitsProgressIndicators(t *testing.T) {
	svc := NewCommitService()

	analysis := svc.AnalyzeCommits([]models.Commit{
		{ID: "deadbeef123", Message: "feat: complete the mvp milestone", Added: []string{"a.go"}},
	})

	// Indicators are independent of the primary category.
	assert.Equal(t, 1, analysis.FeatureCommits)
	require.Len(t, analysis.ProgressIndicators, 1)
	assert.Contains(t, analysis.ProgressIndicators[0], "deadbee")
}

func TestAnalyzeCommitsDenylist(t *testing.T) {
	for _, file := range []string{
		"notes.md", "config.JSON", "deploy.yaml", ".env.local",
		".gitignore", ".eslintrc.js", "LICENSE", "docs/readme.txt",
	} {
		assert.False(t, isSignificantPath(file), "expected %s to be non-code", file)
	}
	for _, file := range []string{"main.go", "src/App.tsx", "Makefile"} {
		assert.True(t, isSignificantPath(file), "expected %s to be code", file)
	}
}

func TestAnalyzeCommitsEmpty(t *testing.T) {
	svc := NewCommitService()

	assert.Equal(t, CommitAnalysis{}, svc.AnalyzeCommits(nil))
	assert.Equal(t, CommitAnalysis{}, svc.AnalyzeCommits([]models.Commit{}))
}

func TestCalculateProgressIncreaseFeaturePush(t *testing.T) {
	svc := NewCommitService()

	analysis := svc.AnalyzeCommits([]models.Commit{
		{Message: "feat: add X", Added: []string{"a.ts"}},
	})
	increase := svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: 80})

	// 2*0.8 significant + 3*0.8 feature
	assert.Equal(t, 4.0, increase)
}

func TestCalculateProgressIncreaseReadmeOnly(t *testing.T) {
	svc := NewCommitService()

	analysis := svc.AnalyzeCommits([]models.Commit{
		{Message: "update README.md", Modified: []string{"README.md"}},
	})

	assert.Equal(t, 0.0, svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: 80}))
	assert.Equal(t, 0.0, svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: 20}))
}

func TestCalculateProgressIncreaseCapped(t *testing.T) {
	svc := NewCommitService()

	var commits []models.Commit
	for i := 0; i < 10; i++ {
		commits = append(commits, models.Commit{Message: "feat: add widget", Added: []string{"w.go", "w_test.go"}})
	}
	analysis := svc.AnalyzeCommits(commits)

	increase := svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: 100})
	assert.Equal(t, 10.0, increase)
}

func TestCalculateProgressIncreaseBonuses(t *testing.T) {
	svc := NewCommitService()

	analysis := CommitAnalysis{
		SignificantChanges: 1,
		BugfixCommits:      1,
		TotalFilesChanged:  11,
		ProgressIndicators: []string{"commit abc mentions \"release\""},
	}

	// 2 + 1.5 + 2 (files) + 1 (indicator), all at weight 100
	assert.Equal(t, 6.5, svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: 100}))
}

func TestCalculateProgressIncreaseInvalidWeight(t *testing.T) {
	svc := NewCommitService()

	analysis := CommitAnalysis{SignificantChanges: 1, FeatureCommits: 3}
	assert.Equal(t, 0.0, svc.CalculateProgressIncrease(analysis, nil))
	assert.Equal(t, 0.0, svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: 0}))
	assert.Equal(t, 0.0, svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: -5}))
}

func TestCalculateProgressIncreaseBounded(t *testing.T) {
	svc := NewCommitService()

	// Any analysis at any positive weight stays within [0, 10].
	for _, analysis := range []CommitAnalysis{
		{},
		{SignificantChanges: 100, FeatureCommits: 100, BugfixCommits: 100, TotalFilesChanged: 1000, ProgressIndicators: []string{"x"}},
		{BugfixCommits: 2},
	} {
		for _, weight := range []float64{1, 50, 100} {
			increase := svc.CalculateProgressIncrease(analysis, &models.GithubIntegration{Weight: weight})
			assert.GreaterOrEqual(t, increase, 0.0)
			assert.LessOrEqual(t, increase, 10.0)
		}
	}
}
