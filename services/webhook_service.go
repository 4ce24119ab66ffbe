package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"okrdeck/models"
)

// Signal increases from message/calendar sources are smaller and harder to
// interpret than a commit batch, so they carry a lower cap.
const (
	emailSignalFactor    = 2
	calendarSignalFactor = 3
	maxSignalIncrease    = 5
)

// IngestResult summarizes one webhook fan-out across matched goals.
type IngestResult struct {
	Ignored bool `json:"ignored"`
	Matched int  `json:"matched"`
	Updated int  `json:"updated"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
}

// WebhookService maps external signals onto tracked goals and drives the
// classifier and the progress updater. A failure on one matched goal never
// aborts the others.
type WebhookService struct {
	store   *GoalStore
	commits *CommitService
	logger  *log.Logger
}

func NewWebhookService(store *GoalStore, commits *CommitService, logger *log.Logger) *WebhookService {
	if logger == nil {
		logger = log.Default()
	}
	return &WebhookService{store: store, commits: commits, logger: logger}
}

// HandlePush processes a source-control push. Only action "pushed" with at
// least one commit changes state; everything else is logged and ignored.
// Commit metadata on matched goals is always updated, progress only when
// the computed increase is positive.
func (s *WebhookService) HandlePush(payload models.PushPayload) IngestResult {
	if payload.Action != "pushed" || len(payload.Commits) == 0 {
		s.logger.Printf("ignoring webhook action %q with %d commits", payload.Action, len(payload.Commits))
		recordWebhookEvent("push", "ignored")
		return IngestResult{Ignored: true}
	}
	recordWebhookEvent("push", "accepted")

	analysis := s.commits.AnalyzeCommits(payload.Commits)

	var result IngestResult
	for _, goal := range s.store.ListGoals(uuid.Nil) {
		github := goal.Integrations.Github
		if github == nil || !repositoryMatches(github.Repository, payload.Repository) {
			continue
		}
		result.Matched++

		if err := s.applyPush(goal, github, analysis, payload, &result); err != nil {
			result.Failed++
			recordWebhookEvent("push", "failed")
			s.logger.Printf("push update failed for goal %s: %v", goal.ID, err)
		}
	}

	if result.Matched == 0 {
		s.logger.Printf("push for %s matched no goals", payload.Repository.FullName)
	}
	return result
}

func (s *WebhookService) applyPush(goal *models.Goal, github *models.GithubIntegration, analysis CommitAnalysis, payload models.PushPayload, result *IngestResult) error {
	last := payload.Commits[len(payload.Commits)-1]
	if err := s.store.TouchGithubActivity(goal.ID, len(payload.Commits), last.Timestamp); err != nil {
		return fmt.Errorf("record commit metadata: %w", err)
	}

	increase := s.commits.CalculateProgressIncrease(analysis, github)
	if increase == 0 {
		result.Skipped++
		return nil
	}

	details := &models.EventDetails{
		CommitSHA:   payload.Commits[0].ID,
		CommitCount: len(payload.Commits),
		Reasoning: fmt.Sprintf("%d commits to %s: %d feature, %d bugfix, %d files changed (+%.1f%%)",
			len(payload.Commits), payload.Repository.FullName,
			analysis.FeatureCommits, analysis.BugfixCommits, analysis.TotalFilesChanged, increase),
	}
	if _, err := s.store.AdjustProgress(goal.ID, increase, models.ProgressSourceGithub, details); err != nil {
		return fmt.Errorf("apply progress: %w", err)
	}
	result.Updated++
	return nil
}

// HandleEmailSignal matches an inbox automation event against auto-tracked
// goals by subject keyword and applies a small bounded increase.
func (s *WebhookService) HandleEmailSignal(signal models.EmailSignal) IngestResult {
	if strings.TrimSpace(signal.Subject) == "" {
		recordWebhookEvent("email", "ignored")
		return IngestResult{Ignored: true}
	}
	recordWebhookEvent("email", "accepted")

	subject := strings.ToLower(signal.Subject)

	var result IngestResult
	for _, goal := range s.store.ListGoals(uuid.Nil) {
		email := goal.Integrations.Email
		if !goal.AutoTracked || email == nil || !matchesKeyword(subject, email.Keywords) {
			continue
		}
		result.Matched++

		increase := signalIncrease(email.Weight, emailSignalFactor)
		if increase == 0 {
			result.Skipped++
			continue
		}

		details := &models.EventDetails{
			EmailSubject: signal.Subject,
			Reasoning:    fmt.Sprintf("email %q matched goal keywords (+%.1f%%)", signal.Subject, increase),
		}
		if _, err := s.store.AdjustProgress(goal.ID, increase, models.ProgressSourceEmail, details); err != nil {
			result.Failed++
			recordWebhookEvent("email", "failed")
			s.logger.Printf("email update failed for goal %s: %v", goal.ID, err)
			continue
		}
		result.Updated++
	}
	return result
}

// HandleCalendarSignal matches a calendar automation event against goals by
// event type.
func (s *WebhookService) HandleCalendarSignal(signal models.CalendarSignal) IngestResult {
	if strings.TrimSpace(signal.EventType) == "" {
		recordWebhookEvent("calendar", "ignored")
		return IngestResult{Ignored: true}
	}
	recordWebhookEvent("calendar", "accepted")

	eventType := strings.ToLower(signal.EventType)

	var result IngestResult
	for _, goal := range s.store.ListGoals(uuid.Nil) {
		calendar := goal.Integrations.Calendar
		if !goal.AutoTracked || calendar == nil || !containsFold(calendar.EventTypes, eventType) {
			continue
		}
		result.Matched++

		increase := signalIncrease(calendar.Weight, calendarSignalFactor)
		if increase == 0 {
			result.Skipped++
			continue
		}

		details := &models.EventDetails{
			EventTitle: signal.Title,
			Reasoning:  fmt.Sprintf("calendar event %q of type %s (+%.1f%%)", signal.Title, signal.EventType, increase),
		}
		if _, err := s.store.AdjustProgress(goal.ID, increase, models.ProgressSourceCalendar, details); err != nil {
			result.Failed++
			recordWebhookEvent("calendar", "failed")
			s.logger.Printf("calendar update failed for goal %s: %v", goal.ID, err)
			continue
		}
		result.Updated++
	}
	return result
}

func repositoryMatches(binding string, repo models.Repository) bool {
	return binding != "" && (binding == repo.Name || binding == repo.FullName)
}

func matchesKeyword(subject string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(subject, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func signalIncrease(weight, factor float64) float64 {
	if weight <= 0 {
		return 0
	}
	increase := weight / 100 * factor
	if increase > maxSignalIncrease {
		increase = maxSignalIncrease
	}
	return roundOne(increase)
}
