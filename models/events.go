package models

import (
	"time"

	"github.com/google/uuid"
)

type ProgressSource string

const (
	ProgressSourceManual   ProgressSource = "manual"
	ProgressSourceGithub   ProgressSource = "github"
	ProgressSourceEmail    ProgressSource = "email"
	ProgressSourceCalendar ProgressSource = "calendar"
	ProgressSourceAI       ProgressSource = "ai"
)

// EventDetails carries optional structured context for a progress event.
type EventDetails struct {
	CommitSHA    string `json:"commit_sha,omitempty"`
	CommitCount  int    `json:"commit_count,omitempty"`
	EmailSubject string `json:"email_subject,omitempty"`
	EventTitle   string `json:"event_title,omitempty"`
	Reasoning    string `json:"reasoning,omitempty"`
}

// ProgressEvent is an immutable record of one progress change.
type ProgressEvent struct {
	ID            uuid.UUID      `json:"id"`
	GoalID        uuid.UUID      `json:"goal_id"`
	Source        ProgressSource `json:"source"`
	PreviousValue float64        `json:"previous_value"`
	NewValue      float64        `json:"new_value"`
	Delta         float64        `json:"delta"`
	Details       *EventDetails  `json:"details,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type AlertType string

const (
	AlertTypeBottleneck    AlertType = "bottleneck"
	AlertTypeDeadlineRisk  AlertType = "deadline_risk"
	AlertTypePriorityShift AlertType = "priority_shift"
	AlertTypeAchievement   AlertType = "achievement"
)

type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "low"
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

type Alert struct {
	ID             uuid.UUID     `json:"id"`
	GoalID         uuid.UUID     `json:"goal_id"`
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Message        string        `json:"message"`
	ActionRequired bool          `json:"action_required"`
	Suggestions    []string      `json:"suggestions,omitempty"`
	Acknowledged   bool          `json:"acknowledged"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Insight is a derived observation about a goal's trajectory.
type Insight struct {
	ID         uuid.UUID `json:"id"`
	GoalID     uuid.UUID `json:"goal_id"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommitAuthor identifies the author of a pushed commit.
type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Commit mirrors a single commit in a push webhook payload.
type Commit struct {
	ID        string       `json:"id"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Author    CommitAuthor `json:"author"`
	Added     []string     `json:"added"`
	Modified  []string     `json:"modified"`
	Removed   []string     `json:"removed"`
}

type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type Pusher struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PushPayload is the push webhook body consumed by the event ingestor.
type PushPayload struct {
	Action     string     `json:"action"`
	Repository Repository `json:"repository"`
	Commits    []Commit   `json:"commits"`
	Pusher     Pusher     `json:"pusher"`
}

// EmailSignal is a simulated inbox automation event.
type EmailSignal struct {
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	ReceivedAt time.Time `json:"received_at"`
}

// CalendarSignal is a simulated calendar automation event.
type CalendarSignal struct {
	EventType string    `json:"event_type"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
}
