package models

import (
	"time"

	"github.com/google/uuid"
)

type GoalStatus string

const (
	GoalStatusNotStarted GoalStatus = "not_started"
	GoalStatusInProgress GoalStatus = "in_progress"
	GoalStatusBlocked    GoalStatus = "blocked"
	GoalStatusCompleted  GoalStatus = "completed"
)

type GoalPriority string

const (
	GoalPriorityLow      GoalPriority = "low"
	GoalPriorityMedium   GoalPriority = "medium"
	GoalPriorityHigh     GoalPriority = "high"
	GoalPriorityCritical GoalPriority = "critical"
)

// PriorityScore holds the RICE inputs and the derived priority score.
// Reach, impact, confidence and effort are caller-supplied; score, factors
// and calculated_at are recomputed on every dashboard read.
type PriorityScore struct {
	Reach        float64   `json:"reach"`
	Impact       float64   `json:"impact"`
	Confidence   float64   `json:"confidence"`
	Effort       float64   `json:"effort"`
	Score        float64   `json:"score"`
	Factors      []string  `json:"factors,omitempty"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// GithubIntegration binds a goal to a source-control repository.
// Repository matches either the short name or the owner/name form.
type GithubIntegration struct {
	Repository   string     `json:"repository"`
	Weight       float64    `json:"weight"`
	CommitCount  int        `json:"commit_count"`
	LastCommitAt *time.Time `json:"last_commit_at,omitempty"`
}

// EmailIntegration binds a goal to message signals by subject keyword.
type EmailIntegration struct {
	Keywords []string `json:"keywords"`
	Weight   float64  `json:"weight"`
}

// CalendarIntegration binds a goal to calendar signals by event type.
type CalendarIntegration struct {
	EventTypes []string `json:"event_types"`
	Weight     float64  `json:"weight"`
}

// Integrations carries at most one binding per external source kind.
type Integrations struct {
	Github   *GithubIntegration   `json:"github,omitempty"`
	Email    *EmailIntegration    `json:"email,omitempty"`
	Calendar *CalendarIntegration `json:"calendar,omitempty"`
}

type Goal struct {
	ID           uuid.UUID     `json:"id"`
	OwnerID      uuid.UUID     `json:"owner_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Tags         []string      `json:"tags,omitempty"`
	Priority     GoalPriority  `json:"priority"`
	Progress     float64       `json:"progress"`
	Status       GoalStatus    `json:"status"`
	DueDate      time.Time     `json:"due_date"`
	AutoTracked  bool          `json:"auto_tracked"`
	Integrations Integrations  `json:"integrations"`
	Score        PriorityScore `json:"score"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
