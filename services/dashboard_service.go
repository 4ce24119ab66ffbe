package services

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"okrdeck/config"
	"okrdeck/models"
)

// DeadlineEntry is one upcoming due date on the dashboard.
type DeadlineEntry struct {
	GoalID   uuid.UUID `json:"goal_id"`
	Title    string    `json:"title"`
	DueDate  time.Time `json:"due_date"`
	DaysLeft int       `json:"days_left"`
	Progress float64   `json:"progress"`
}

// Dashboard is the aggregated read model served to the UI.
type Dashboard struct {
	Goals             []*models.Goal                 `json:"goals"`
	TotalGoals        int                            `json:"total_goals"`
	AverageProgress   float64                        `json:"average_progress"`
	PriorityBreakdown map[models.GoalPriority]int    `json:"priority_breakdown"`
	Alerts            []models.Alert                 `json:"alerts"`
	Insights          []models.Insight               `json:"insights"`
	Timeline          []models.ProgressEvent         `json:"timeline"`
	UpcomingDeadlines []DeadlineEntry                `json:"upcoming_deadlines"`
	GeneratedAt       time.Time                      `json:"generated_at"`
}

// DashboardService assembles the read model. It holds no state of its own;
// every build rescores the goal set fetched from the store.
type DashboardService struct {
	store  *GoalStore
	scorer *ScoreService
	limits config.DashboardLimits
	now    func() time.Time
}

func NewDashboardService(store *GoalStore, scorer *ScoreService, limits config.DashboardLimits) *DashboardService {
	return &DashboardService{store: store, scorer: scorer, limits: limits, now: time.Now}
}

// Build assembles the dashboard, optionally filtered by owner.
// An empty goal set yields a zero-valued dashboard, never an error.
func (s *DashboardService) Build(ownerID uuid.UUID) *Dashboard {
	now := s.now()
	goals := s.store.ListGoals(ownerID)

	dashboard := &Dashboard{
		Goals:             goals,
		TotalGoals:        len(goals),
		PriorityBreakdown: make(map[models.GoalPriority]int),
		Alerts:            []models.Alert{},
		Insights:          []models.Insight{},
		Timeline:          []models.ProgressEvent{},
		UpcomingDeadlines: []DeadlineEntry{},
		GeneratedAt:       now,
	}

	var progressSum float64
	for _, goal := range goals {
		goal.Score = s.scorer.Score(goal, now)
		progressSum += goal.Progress
		dashboard.PriorityBreakdown[goal.Priority]++

		if alerts, err := s.store.Alerts(goal.ID, s.limits.AlertsPerGoal); err == nil {
			dashboard.Alerts = append(dashboard.Alerts, alerts...)
		}
		if insights, err := s.store.Insights(goal.ID, s.limits.InsightsPerGoal); err == nil {
			dashboard.Insights = append(dashboard.Insights, insights...)
		}
		if history, err := s.store.History(goal.ID, s.limits.HistoryPerGoal); err == nil {
			dashboard.Timeline = append(dashboard.Timeline, history...)
		}

		if days := DaysUntilDue(goal.DueDate, now); days > 0 && days <= s.limits.DeadlineWindowDays {
			dashboard.UpcomingDeadlines = append(dashboard.UpcomingDeadlines, DeadlineEntry{
				GoalID:   goal.ID,
				Title:    goal.Title,
				DueDate:  goal.DueDate,
				DaysLeft: days,
				Progress: goal.Progress,
			})
		}
	}

	if len(goals) > 0 {
		dashboard.AverageProgress = math.Round(progressSum / float64(len(goals)))
	}

	sort.SliceStable(dashboard.Goals, func(i, j int) bool {
		return dashboard.Goals[i].Score.Score > dashboard.Goals[j].Score.Score
	})
	sort.SliceStable(dashboard.Alerts, func(i, j int) bool {
		return dashboard.Alerts[i].CreatedAt.After(dashboard.Alerts[j].CreatedAt)
	})
	sort.SliceStable(dashboard.Insights, func(i, j int) bool {
		return dashboard.Insights[i].CreatedAt.After(dashboard.Insights[j].CreatedAt)
	})
	sort.SliceStable(dashboard.Timeline, func(i, j int) bool {
		return dashboard.Timeline[i].CreatedAt.After(dashboard.Timeline[j].CreatedAt)
	})
	sort.SliceStable(dashboard.UpcomingDeadlines, func(i, j int) bool {
		return dashboard.UpcomingDeadlines[i].DaysLeft < dashboard.UpcomingDeadlines[j].DaysLeft
	})

	dashboard.Alerts = truncateAlerts(dashboard.Alerts, s.limits.MaxAlerts)
	dashboard.Insights = truncateInsights(dashboard.Insights, s.limits.MaxInsights)
	dashboard.Timeline = truncateEvents(dashboard.Timeline, s.limits.MaxTimeline)
	if len(dashboard.UpcomingDeadlines) > s.limits.MaxDeadlines {
		dashboard.UpcomingDeadlines = dashboard.UpcomingDeadlines[:s.limits.MaxDeadlines]
	}

	return dashboard
}

func truncateAlerts(alerts []models.Alert, limit int) []models.Alert {
	if limit > 0 && len(alerts) > limit {
		return alerts[:limit]
	}
	return alerts
}

func truncateInsights(insights []models.Insight, limit int) []models.Insight {
	if limit > 0 && len(insights) > limit {
		return insights[:limit]
	}
	return insights
}

func truncateEvents(events []models.ProgressEvent, limit int) []models.ProgressEvent {
	if limit > 0 && len(events) > limit {
		return events[:limit]
	}
	return events
}
