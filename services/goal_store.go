package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"okrdeck/models"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrAlertNotFound = errors.New("alert not found")
	ErrInvalidInput  = errors.New("invalid input")
)

const (
	defaultGoalTitle = "Untitled"
	defaultRICEInput = 5
	defaultDueWindow = 30 * 24 * time.Hour
)

// Notifier is the fire-and-forget broadcast collaborator. A failed or slow
// delivery never surfaces to the store.
type Notifier interface {
	Broadcast(eventType string, data any)
}

// goalEntry bundles a goal with its append-only logs. entry.mu serializes
// every mutation of one goal, including the update-then-alert sequence.
type goalEntry struct {
	mu       sync.Mutex
	goal     *models.Goal
	history  []models.ProgressEvent
	alerts   []models.Alert
	insights []models.Insight
}

// GoalStore owns every goal record and its progress/alert/insight logs.
// All other services receive copies and go through the store to mutate.
type GoalStore struct {
	mu    sync.RWMutex
	goals map[uuid.UUID]*goalEntry

	scorer   *ScoreService
	alertSvc *AlertService
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewGoalStore(scorer *ScoreService, alertSvc *AlertService, notifier Notifier, logger *log.Logger) *GoalStore {
	if logger == nil {
		logger = log.Default()
	}
	return &GoalStore{
		goals:    make(map[uuid.UUID]*goalEntry),
		scorer:   scorer,
		alertSvc: alertSvc,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateGoalInput is a partial goal description; zero values get defaults.
type CreateGoalInput struct {
	OwnerID      uuid.UUID
	Title        string
	Description  string
	Tags         []string
	Priority     models.GoalPriority
	DueDate      *time.Time
	AutoTracked  bool
	Integrations models.Integrations
	Reach        float64
	Impact       float64
	Confidence   float64
	Effort       float64
}

// CreateGoal materializes a goal with defaults filled in, a fresh id and an
// initial priority score.
func (s *GoalStore) CreateGoal(input CreateGoalInput) *models.Goal {
	now := s.now()

	goal := &models.Goal{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		Title:        input.Title,
		Description:  input.Description,
		Tags:         input.Tags,
		Priority:     input.Priority,
		Progress:     0,
		Status:       models.GoalStatusNotStarted,
		DueDate:      now.Add(defaultDueWindow),
		AutoTracked:  input.AutoTracked,
		Integrations: input.Integrations,
		Score: models.PriorityScore{
			Reach:      defaultIfZero(input.Reach),
			Impact:     defaultIfZero(input.Impact),
			Confidence: defaultIfZero(input.Confidence),
			Effort:     defaultIfZero(input.Effort),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if goal.Title == "" {
		goal.Title = defaultGoalTitle
	}
	if goal.Priority == "" {
		goal.Priority = models.GoalPriorityMedium
	}
	if input.DueDate != nil {
		goal.DueDate = *input.DueDate
	}
	goal.Score = s.scorer.Score(goal, now)

	s.mu.Lock()
	s.goals[goal.ID] = &goalEntry{goal: goal}
	s.mu.Unlock()

	return cloneGoal(goal)
}

// GetGoal returns a copy of the goal or ErrGoalNotFound.
func (s *GoalStore) GetGoal(id uuid.UUID) (*models.Goal, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneGoal(entry.goal), nil
}

// ListGoals returns copies of all goals, filtered by owner when ownerID is
// non-nil. Order is not significant; readers re-sort.
func (s *GoalStore) ListGoals(ownerID uuid.UUID) []*models.Goal {
	s.mu.RLock()
	entries := make([]*goalEntry, 0, len(s.goals))
	for _, entry := range s.goals {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	goals := make([]*models.Goal, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		if ownerID == uuid.Nil || entry.goal.OwnerID == ownerID {
			goals = append(goals, cloneGoal(entry.goal))
		}
		entry.mu.Unlock()
	}
	return goals
}

// UpdateGoalInput carries optional field updates; nil means unchanged.
type UpdateGoalInput struct {
	Title        *string
	Description  *string
	Tags         *[]string
	Priority     *models.GoalPriority
	DueDate      *time.Time
	AutoTracked  *bool
	Blocked      *bool
	Integrations *models.Integrations
	Reach        *float64
	Impact       *float64
	Confidence   *float64
	Effort       *float64
}

// UpdateGoal applies descriptive and configuration changes. Setting Blocked
// true overrides the derived status until it is explicitly cleared.
func (s *GoalStore) UpdateGoal(id uuid.UUID, input UpdateGoalInput) (*models.Goal, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	goal := entry.goal
	if input.Title != nil && *input.Title != "" {
		goal.Title = *input.Title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Tags != nil {
		goal.Tags = *input.Tags
	}
	if input.Priority != nil {
		goal.Priority = *input.Priority
	}
	if input.DueDate != nil {
		goal.DueDate = *input.DueDate
	}
	if input.AutoTracked != nil {
		goal.AutoTracked = *input.AutoTracked
	}
	if input.Integrations != nil {
		goal.Integrations = *input.Integrations
	}
	if input.Reach != nil {
		goal.Score.Reach = *input.Reach
	}
	if input.Impact != nil {
		goal.Score.Impact = *input.Impact
	}
	if input.Confidence != nil {
		goal.Score.Confidence = *input.Confidence
	}
	if input.Effort != nil {
		goal.Score.Effort = *input.Effort
	}
	if input.Blocked != nil {
		if *input.Blocked {
			goal.Status = models.GoalStatusBlocked
		} else if goal.Status == models.GoalStatusBlocked {
			goal.Status = deriveStatus(goal.Progress)
		}
	}
	goal.UpdatedAt = s.now()

	return cloneGoal(goal), nil
}

// DeleteGoal removes the goal and its logs.
func (s *GoalStore) DeleteGoal(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return ErrGoalNotFound
	}
	delete(s.goals, id)
	return nil
}

// UpdateProgress sets the goal's progress to newValue (clamped to [0,100]),
// records a progress event, re-derives status and runs alert generation,
// all atomically with respect to other updates on the same goal. The
// returned event reflects the clamped value, not the caller's raw input.
func (s *GoalStore) UpdateProgress(goalID uuid.UUID, newValue float64, source models.ProgressSource, details *models.EventDetails) (*models.ProgressEvent, error) {
	entry, err := s.entry(goalID)
	if err != nil {
		return nil, err
	}
	return s.applyProgress(entry, func(current float64) float64 { return newValue }, source, details)
}

// AdjustProgress applies a relative delta on top of the goal's current
// progress, reading the current value inside the same critical section.
func (s *GoalStore) AdjustProgress(goalID uuid.UUID, delta float64, source models.ProgressSource, details *models.EventDetails) (*models.ProgressEvent, error) {
	entry, err := s.entry(goalID)
	if err != nil {
		return nil, err
	}
	return s.applyProgress(entry, func(current float64) float64 { return current + delta }, source, details)
}

func (s *GoalStore) applyProgress(entry *goalEntry, next func(current float64) float64, source models.ProgressSource, details *models.EventDetails) (*models.ProgressEvent, error) {
	entry.mu.Lock()

	goal := entry.goal
	now := s.now()
	previous := goal.Progress
	value := clampProgress(next(previous))
	delta := value - previous

	goal.Progress = value
	if goal.Status != models.GoalStatusBlocked {
		goal.Status = deriveStatus(value)
	}
	goal.UpdatedAt = now

	event := models.ProgressEvent{
		ID:            uuid.New(),
		GoalID:        goal.ID,
		Source:        source,
		PreviousValue: previous,
		NewValue:      value,
		Delta:         delta,
		Details:       details,
		CreatedAt:     now,
	}
	entry.history = append(entry.history, event)

	alerts := s.alertSvc.Evaluate(goal, delta, entry.history, now)
	entry.alerts = append(entry.alerts, alerts...)

	insights := buildInsights(goal, previous, delta, source, now)
	entry.insights = append(entry.insights, insights...)

	goalCopy := cloneGoal(goal)
	entry.mu.Unlock()

	recordProgressUpdate(string(source))
	for _, alert := range alerts {
		recordAlert(string(alert.Type))
		s.logger.Printf("alert %s (%s) for goal %s: %s", alert.Type, alert.Severity, goalCopy.ID, alert.Message)
	}

	// State is committed; notification failures must not roll it back.
	s.broadcast("progress_update", event)
	for _, alert := range alerts {
		s.broadcast("alert", alert)
	}
	for _, insight := range insights {
		s.broadcast("insight", insight)
	}
	s.broadcast("goal_updated", goalCopy)

	return &event, nil
}

// TouchGithubActivity records commit metadata on the goal's github binding.
// It runs even when a push produced no progress change.
func (s *GoalStore) TouchGithubActivity(goalID uuid.UUID, commitCount int, at time.Time) error {
	entry, err := s.entry(goalID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	github := entry.goal.Integrations.Github
	if github == nil {
		return fmt.Errorf("%w: goal %s has no github integration", ErrInvalidInput, goalID)
	}
	github.CommitCount += commitCount
	github.LastCommitAt = &at
	entry.goal.UpdatedAt = s.now()
	return nil
}

// AcknowledgeAlert flips the acknowledged flag on one of the goal's alerts.
func (s *GoalStore) AcknowledgeAlert(goalID, alertID uuid.UUID) error {
	entry, err := s.entry(goalID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for i := range entry.alerts {
		if entry.alerts[i].ID == alertID {
			entry.alerts[i].Acknowledged = true
			return nil
		}
	}
	return ErrAlertNotFound
}

// History returns the goal's most recent progress events, newest first,
// capped at limit (0 means all).
func (s *GoalStore) History(goalID uuid.UUID, limit int) ([]models.ProgressEvent, error) {
	entry, err := s.entry(goalID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return lastEventsReversed(entry.history, limit), nil
}

// Alerts returns the goal's most recent alerts, newest first.
func (s *GoalStore) Alerts(goalID uuid.UUID, limit int) ([]models.Alert, error) {
	entry, err := s.entry(goalID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	out := make([]models.Alert, 0, len(entry.alerts))
	for i := len(entry.alerts) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entry.alerts[i])
	}
	return out, nil
}

// Insights returns the goal's most recent insights, newest first.
func (s *GoalStore) Insights(goalID uuid.UUID, limit int) ([]models.Insight, error) {
	entry, err := s.entry(goalID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	out := make([]models.Insight, 0, len(entry.insights))
	for i := len(entry.insights) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entry.insights[i])
	}
	return out, nil
}

func (s *GoalStore) entry(id uuid.UUID) (*goalEntry, error) {
	s.mu.RLock()
	entry, ok := s.goals[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGoalNotFound
	}
	return entry, nil
}

func (s *GoalStore) broadcast(eventType string, data any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Broadcast(eventType, data)
}

// buildInsights emits trajectory observations on notable transitions.
func buildInsights(goal *models.Goal, previous, delta float64, source models.ProgressSource, now time.Time) []models.Insight {
	var insights []models.Insight

	switch {
	case previous < 100 && goal.Progress >= 100:
		insights = append(insights, models.Insight{
			ID:         uuid.New(),
			GoalID:     goal.ID,
			Type:       "completion",
			Content:    fmt.Sprintf("%q went from %.0f%% to complete", goal.Title, previous),
			Confidence: 0.9,
			CreatedAt:  now,
		})
	case previous < 50 && goal.Progress >= 50:
		insights = append(insights, models.Insight{
			ID:         uuid.New(),
			GoalID:     goal.ID,
			Type:       "halfway",
			Content:    fmt.Sprintf("%q crossed the halfway mark", goal.Title),
			Confidence: 0.7,
			CreatedAt:  now,
		})
	}

	if delta >= 10 && source != models.ProgressSourceManual {
		insights = append(insights, models.Insight{
			ID:         uuid.New(),
			GoalID:     goal.ID,
			Type:       "momentum",
			Content:    fmt.Sprintf("%q jumped %.1f points from %s activity", goal.Title, delta, source),
			Confidence: 0.6,
			CreatedAt:  now,
		})
	}

	return insights
}

func deriveStatus(progress float64) models.GoalStatus {
	switch {
	case progress >= 100:
		return models.GoalStatusCompleted
	case progress <= 0:
		return models.GoalStatusNotStarted
	default:
		return models.GoalStatusInProgress
	}
}

func clampProgress(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func defaultIfZero(v float64) float64 {
	if v <= 0 {
		return defaultRICEInput
	}
	return v
}

func cloneGoal(goal *models.Goal) *models.Goal {
	copied := *goal
	copied.Tags = append([]string(nil), goal.Tags...)
	copied.Score.Factors = append([]string(nil), goal.Score.Factors...)
	if goal.Integrations.Github != nil {
		github := *goal.Integrations.Github
		if goal.Integrations.Github.LastCommitAt != nil {
			at := *goal.Integrations.Github.LastCommitAt
			github.LastCommitAt = &at
		}
		copied.Integrations.Github = &github
	}
	if goal.Integrations.Email != nil {
		email := *goal.Integrations.Email
		email.Keywords = append([]string(nil), goal.Integrations.Email.Keywords...)
		copied.Integrations.Email = &email
	}
	if goal.Integrations.Calendar != nil {
		calendar := *goal.Integrations.Calendar
		calendar.EventTypes = append([]string(nil), goal.Integrations.Calendar.EventTypes...)
		copied.Integrations.Calendar = &calendar
	}
	return &copied
}

func lastEventsReversed(events []models.ProgressEvent, limit int) []models.ProgressEvent {
	out := make([]models.ProgressEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, events[i])
	}
	return out
}
