package services

import (
	"context"
	"errors"
	"fmt"

	"moneyQuestAPI/internal/types/score"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScoreService struct {
	db *pgxpool.Pool
}

func NewScoreService(db *pgxpool.Pool) *ScoreService {
	return &ScoreService{db: db}
}

// AwardPoints runs on the caller's transaction so a completion and its
// points commit together. The first award for a user seeds the score row;
// later awards increment all three counters. Level and name are recomputed
// from total_points on every award.
func (s *ScoreService) AwardPoints(ctx context.Context, tx pgx.Tx, userID uuid.UUID, points int) (*score.FinancialScore, error) {
	fs := &score.FinancialScore{UserID: userID}

	err := tx.QueryRow(ctx, `
		INSERT INTO user_financial_scores (
			id, user_id, total_points, weekly_score, monthly_score,
			current_level, level_name, created_at, updated_at
		)
		VALUES ($1, $2, $3, $3, $3, 1, 'Novice', NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			total_points = user_financial_scores.total_points + $3,
			weekly_score = user_financial_scores.weekly_score + $3,
			monthly_score = user_financial_scores.monthly_score + $3,
			updated_at = NOW()
		RETURNING id, total_points, weekly_score, monthly_score
	`, uuid.New(), userID, points).Scan(&fs.ID, &fs.TotalPoints, &fs.WeeklyScore, &fs.MonthlyScore)
	if err != nil {
		return nil, fmt.Errorf("failed to award points: %w", err)
	}

	fs.CurrentLevel, fs.LevelName = score.LevelForPoints(fs.TotalPoints)

	_, err = tx.Exec(ctx, `
		UPDATE user_financial_scores
		SET current_level = $1, level_name = $2
		WHERE user_id = $3
	`, fs.CurrentLevel, fs.LevelName, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update level: %w", err)
	}

	return fs, nil
}

// GetScore returns the user's score row, or a zero-value Novice score if
// no points were ever awarded.
func (s *ScoreService) GetScore(ctx context.Context, clerkID string) (*score.FinancialScore, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	fs := &score.FinancialScore{}
	err = s.db.QueryRow(ctx, `
		SELECT id, user_id, total_points, weekly_score, monthly_score,
		       current_level, level_name, created_at, updated_at
		FROM user_financial_scores
		WHERE user_id = $1
	`, userID).Scan(
		&fs.ID,
		&fs.UserID,
		&fs.TotalPoints,
		&fs.WeeklyScore,
		&fs.MonthlyScore,
		&fs.CurrentLevel,
		&fs.LevelName,
		&fs.CreatedAt,
		&fs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			level, name := score.LevelForPoints(0)
			return &score.FinancialScore{UserID: userID, CurrentLevel: level, LevelName: name}, nil
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return fs, nil
}

// GetBadges returns every badge the user has earned, newest first.
func (s *ScoreService) GetBadges(ctx context.Context, clerkID string) ([]*score.Badge, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, badge_name, badge_type, earned_date, challenge_id, points_earned
		FROM user_badges
		WHERE user_id = $1
		ORDER BY earned_date DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	defer rows.Close()

	var badges []*score.Badge
	for rows.Next() {
		b := &score.Badge{}
		err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.BadgeName,
			&b.BadgeType,
			&b.EarnedDate,
			&b.ChallengeID,
			&b.PointsEarned,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return badges, nil
}
