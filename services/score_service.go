package services

import (
	"fmt"
	"math"
	"time"

	"okrdeck/models"
)

const (
	urgencyBoost      = 1.5
	inactivityPenalty = 0.8
	blockedPenalty    = 0.6
)

// ScoreService computes RICE priority scores. It is stateless; Score never
// mutates the goal it is given.
type ScoreService struct{}

func NewScoreService() *ScoreService {
	return &ScoreService{}
}

// Score returns the goal's priority score record recomputed as of now.
// Base score is (reach * impact * confidence) / effort with effort floored
// at 1, then situational adjustments apply multiplicatively.
func (s *ScoreService) Score(goal *models.Goal, now time.Time) models.PriorityScore {
	result := models.PriorityScore{
		Reach:        goal.Score.Reach,
		Impact:       goal.Score.Impact,
		Confidence:   goal.Score.Confidence,
		Effort:       goal.Score.Effort,
		CalculatedAt: now,
	}

	effort := result.Effort
	if effort < 1 {
		effort = 1
		result.Factors = append(result.Factors, "effort floored to minimum of 1")
	}

	score := (result.Reach * result.Impact * result.Confidence) / effort
	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = 0
	}

	days := DaysUntilDue(goal.DueDate, now)
	if goal.Progress < 10 && days < 7 {
		score *= urgencyBoost
		result.Factors = append(result.Factors,
			fmt.Sprintf("urgent: due in %d days with progress below 10%%", days))
	}

	if goal.AutoTracked && goal.Integrations.Github != nil && goal.Integrations.Github.CommitCount == 0 {
		score *= inactivityPenalty
		result.Factors = append(result.Factors, "no commit activity on tracked repository")
	}

	if goal.Status == models.GoalStatusBlocked {
		score *= blockedPenalty
		result.Factors = append(result.Factors, "goal is blocked")
	}

	result.Score = roundOne(score)
	return result
}

// DaysUntilDue is the number of whole days until due, rounded up.
// Negative for overdue goals.
func DaysUntilDue(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
