package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"okrdeck/models"
)

// stagnationRunLength is the minimum number of trailing zero-delta history
// entries (current update included) before a bottleneck alert fires.
const stagnationRunLength = 3

// AlertService derives alerts from a goal's state after a progress update.
type AlertService struct{}

func NewAlertService() *AlertService {
	return &AlertService{}
}

// Evaluate inspects the updated goal, the applied delta and the goal's full
// history (newest entry last, including the current update) and returns
// zero or more alerts. Rules are independent; one update can trigger several.
func (s *AlertService) Evaluate(goal *models.Goal, delta float64, history []models.ProgressEvent, now time.Time) []models.Alert {
	var alerts []models.Alert

	if goal.Progress >= 100 {
		alerts = append(alerts, models.Alert{
			ID:       uuid.New(),
			GoalID:   goal.ID,
			Type:     models.AlertTypeAchievement,
			Severity: models.AlertSeverityLow,
			Message:  fmt.Sprintf("%q reached 100%%: goal complete", goal.Title),
			Suggestions: []string{
				"Share the result with stakeholders",
				"Archive the goal or define a follow-up objective",
			},
			CreatedAt: now,
		})
	}

	if days := DaysUntilDue(goal.DueDate, now); days <= 7 && goal.Progress < 70 {
		alerts = append(alerts, models.Alert{
			ID:             uuid.New(),
			GoalID:         goal.ID,
			Type:           models.AlertTypeDeadlineRisk,
			Severity:       models.AlertSeverityHigh,
			Message:        fmt.Sprintf("%q is at %.0f%% with %d days until due", goal.Title, goal.Progress, days),
			ActionRequired: true,
			Suggestions: []string{
				"Reallocate resources to this goal",
				"Cut scope to the essential outcome",
				"Renegotiate the deadline with the owner",
			},
			CreatedAt: now,
		})
	}

	if s.isStagnant(goal, delta, history) {
		alerts = append(alerts, models.Alert{
			ID:             uuid.New(),
			GoalID:         goal.ID,
			Type:           models.AlertTypeBottleneck,
			Severity:       models.AlertSeverityMedium,
			Message:        fmt.Sprintf("%q has stalled at %.0f%% despite active tracking", goal.Title, goal.Progress),
			ActionRequired: true,
			Suggestions: []string{
				"Check for blockers with the goal owner",
				"Break the remaining work into smaller steps",
			},
			CreatedAt: now,
		})
	}

	return alerts
}

func (s *AlertService) isStagnant(goal *models.Goal, delta float64, history []models.ProgressEvent) bool {
	if !goal.AutoTracked || delta != 0 {
		return false
	}
	if goal.Progress <= 0 || goal.Progress >= 100 {
		return false
	}
	if len(history) < stagnationRunLength {
		return false
	}
	for _, event := range history[len(history)-stagnationRunLength:] {
		if event.Delta != 0 {
			return false
		}
	}
	return true
}
