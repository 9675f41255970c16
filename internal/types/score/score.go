package score

import (
	"time"

	"github.com/google/uuid"
)

// PointsPerLevel is how many total points advance the user one level.
const PointsPerLevel = 1000

var levelNames = []string{"Novice", "Apprentice", "Expert", "Master", "Legend"}

// LevelForPoints derives the level and its display name from the lifetime
// point total. Level is never stored independently of total_points.
func LevelForPoints(totalPoints int) (int, string) {
	level := totalPoints/PointsPerLevel + 1
	idx := level - 1
	if idx >= len(levelNames) {
		idx = len(levelNames) - 1
	}
	return level, levelNames[idx]
}

// FinancialScore is the per-user aggregate score row. One row per user,
// created on the first award.
type FinancialScore struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	TotalPoints  int       `json:"total_points" db:"total_points"`
	WeeklyScore  int       `json:"weekly_score" db:"weekly_score"`
	MonthlyScore int       `json:"monthly_score" db:"monthly_score"`
	CurrentLevel int       `json:"current_level" db:"current_level"`
	LevelName    string    `json:"level_name" db:"level_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Badge is a permanent reward grant tied to a completed challenge.
type Badge struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	BadgeName    string    `json:"badge_name" db:"badge_name"`
	BadgeType    string    `json:"badge_type" db:"badge_type"`
	EarnedDate   time.Time `json:"earned_date" db:"earned_date"`
	ChallengeID  uuid.UUID `json:"challenge_id" db:"challenge_id"`
	PointsEarned int       `json:"points_earned" db:"points_earned"`
}

// WeeklyReset is the rollup snapshot written when a user's weekly score is
// zeroed. One row per (user, week_start), upserted.
type WeeklyReset struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	UserID              uuid.UUID `json:"user_id" db:"user_id"`
	WeekStart           time.Time `json:"week_start" db:"week_start"`
	WeekEnd             time.Time `json:"week_end" db:"week_end"`
	ChallengesCompleted int       `json:"challenges_completed" db:"challenges_completed"`
	ChallengesFailed    int       `json:"challenges_failed" db:"challenges_failed"`
	BadgesEarned        int       `json:"badges_earned" db:"badges_earned"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
