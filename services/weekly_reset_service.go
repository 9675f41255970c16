package services

import (
	"context"
	"fmt"
	"time"

	"moneyQuestAPI/internal/types/score"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WeeklyResetService struct {
	db *pgxpool.Pool
}

func NewWeeklyResetService(db *pgxpool.Pool) *WeeklyResetService {
	return &WeeklyResetService{db: db}
}

// weekBounds returns the Monday-start calendar week containing t. The
// second value is the last day of that week (start + 6 days).
func weekBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// PerformWeeklyReset rolls the current week up into a weekly_resets row and
// zeroes the weekly score. Re-invoking it for the same week upserts the same
// row; scheduling discipline is the external caller's job.
func (s *WeeklyResetService) PerformWeeklyReset(ctx context.Context, clerkID string) (*score.WeeklyReset, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userID, err := resolveUserID(ctx, tx, clerkID)
	if err != nil {
		return nil, err
	}

	reset, err := s.performReset(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reset, nil
}

// PerformWeeklyResetForUser is the scheduler entry point; it skips the
// clerk lookup because the cron iterates internal user ids directly.
func (s *WeeklyResetService) PerformWeeklyResetForUser(ctx context.Context, userID uuid.UUID) (*score.WeeklyReset, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reset, err := s.performReset(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reset, nil
}

func (s *WeeklyResetService) performReset(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*score.WeeklyReset, error) {
	weekStart, weekEnd := weekBounds(time.Now().UTC())
	// counts cover [weekStart, weekEnd] whole days
	windowEnd := weekStart.AddDate(0, 0, 7)

	reset := &score.WeeklyReset{
		UserID:    userID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
	}

	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM challenge_completions
		WHERE user_id = $1 AND completion_date >= $2 AND completion_date < $3
	`, userID, weekStart, windowEnd).Scan(&reset.ChallengesCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}

	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_challenges
		WHERE user_id = $1 AND status = 'failed' AND updated_at >= $2 AND updated_at < $3
	`, userID, weekStart, windowEnd).Scan(&reset.ChallengesFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to count failed challenges: %w", err)
	}

	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_badges
		WHERE user_id = $1 AND earned_date >= $2 AND earned_date < $3
	`, userID, weekStart, windowEnd).Scan(&reset.BadgesEarned)
	if err != nil {
		return nil, fmt.Errorf("failed to count badges: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO weekly_resets (
			id, user_id, week_start, week_end,
			challenges_completed, challenges_failed, badges_earned,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (user_id, week_start)
		DO UPDATE SET
			week_end = $4,
			challenges_completed = $5,
			challenges_failed = $6,
			badges_earned = $7,
			updated_at = NOW()
		RETURNING id
	`, uuid.New(), userID, weekStart, weekEnd,
		reset.ChallengesCompleted, reset.ChallengesFailed, reset.BadgesEarned).Scan(&reset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert weekly reset: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_financial_scores
		SET weekly_score = 0, updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to zero weekly score: %w", err)
	}

	return reset, nil
}

// ExpireOverdueChallenges fails every active challenge whose end date has
// passed without the target being reached. Invoked by the cron in the entry
// point, never by the ledger itself.
func (s *WeeklyResetService) ExpireOverdueChallenges(ctx context.Context) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `
		UPDATE user_challenges
		SET status = 'failed', updated_at = NOW()
		WHERE status = 'active' AND end_date < CURRENT_DATE AND progress_percentage < 100
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to expire challenges: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return res.RowsAffected(), nil
}

// ScoredUserIDs lists every user who has a score row, for the weekly cron.
func (s *WeeklyResetService) ScoredUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id FROM user_financial_scores`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scored users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
