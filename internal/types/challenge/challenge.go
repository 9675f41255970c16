package challenge

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeDebtPaydown   Type = "debt_paydown"
	TypeSavings       Type = "savings"
	TypeEmergencyFund Type = "emergency_fund"
	TypeSpendingLimit Type = "spending_limit"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Template is a reusable challenge definition from the catalog.
// Rows are maintained externally and treated as immutable here.
type Template struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Type         Type      `json:"type" db:"type"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Difficulty   int       `json:"difficulty" db:"difficulty"`
	DurationDays int       `json:"duration_days" db:"duration_days"`
	TargetAmount float64   `json:"target_amount" db:"target_amount"`
	PointsReward int       `json:"points_reward" db:"points_reward"`
	BadgeReward  *string   `json:"badge_reward" db:"badge_reward"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserChallenge is one user's instance of a template. Terminal once
// completed or failed.
type UserChallenge struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	TemplateID         uuid.UUID `json:"template_id" db:"template_id"`
	Type               Type      `json:"type" db:"type"`
	TargetAmount       float64   `json:"target_amount" db:"target_amount"`
	CurrentAmount      float64   `json:"current_amount" db:"current_amount"`
	ProgressPercentage float64   `json:"progress_percentage" db:"progress_percentage"`
	Status             Status    `json:"status" db:"status"`
	StartDate          time.Time `json:"start_date" db:"start_date"`
	EndDate            time.Time `json:"end_date" db:"end_date"`
	PointsReward       int       `json:"points_reward" db:"points_reward"`
	BadgeReward        *string   `json:"badge_reward" db:"badge_reward"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Progress is one day's snapshot of a challenge. One row per
// (challenge_id, progress_date).
type Progress struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ChallengeID        uuid.UUID `json:"challenge_id" db:"challenge_id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	ProgressDate       time.Time `json:"progress_date" db:"progress_date"`
	AmountProgress     float64   `json:"amount_progress" db:"amount_progress"`
	PercentageComplete float64   `json:"percentage_complete" db:"percentage_complete"`
	DailyChange        float64   `json:"daily_change" db:"daily_change"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// Completion is the audit record of a finished challenge, written
// exactly once per challenge.
type Completion struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	ChallengeID          uuid.UUID `json:"challenge_id" db:"challenge_id"`
	UserID               uuid.UUID `json:"user_id" db:"user_id"`
	CompletionDate       time.Time `json:"completion_date" db:"completion_date"`
	FinalAmount          float64   `json:"final_amount" db:"final_amount"`
	CompletionPercentage float64   `json:"completion_percentage" db:"completion_percentage"`
	PointsEarned         int       `json:"points_earned" db:"points_earned"`
}

// ProgressUpdate is what one UpdateProgress call reports back per challenge.
type ProgressUpdate struct {
	ChallengeID        uuid.UUID `json:"challenge_id"`
	ProgressChange     float64   `json:"progress_change"`
	NewCurrentAmount   float64   `json:"new_current_amount"`
	ProgressPercentage float64   `json:"progress_percentage"`
}

type CreateChallengeRequest struct {
	TemplateID   string   `json:"template_id" validate:"required,uuid"`
	CustomTarget *float64 `json:"custom_target,omitempty" validate:"omitempty,gt=0"`
}
