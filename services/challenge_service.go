package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneyQuestAPI/internal/types/challenge"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgx shared by pools and transactions, so user
// lookups can run inside whichever unit of work is open.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func resolveUserID(ctx context.Context, q querier, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return userID, nil
}

// today returns the current calendar day at midnight, which is how start
// dates, end dates and progress rows are keyed.
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ChallengeService struct {
	db *pgxpool.Pool
}

func NewChallengeService(db *pgxpool.Pool) *ChallengeService {
	return &ChallengeService{db: db}
}

// GetChallengeTemplates lists the active catalog, easiest and cheapest first.
func (s *ChallengeService) GetChallengeTemplates(ctx context.Context) ([]*challenge.Template, error) {
	query := `
		SELECT id, type, name, description, difficulty, duration_days,
		       target_amount, points_reward, badge_reward, is_active, created_at
		FROM challenge_templates
		WHERE is_active = true
		ORDER BY difficulty ASC, points_reward ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge templates: %w", err)
	}
	defer rows.Close()

	var templates []*challenge.Template
	for rows.Next() {
		t := &challenge.Template{}
		err := rows.Scan(
			&t.ID,
			&t.Type,
			&t.Name,
			&t.Description,
			&t.Difficulty,
			&t.DurationDays,
			&t.TargetAmount,
			&t.PointsReward,
			&t.BadgeReward,
			&t.IsActive,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge template: %w", err)
		}
		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// CreateChallenge instantiates a template for a user. The template lookup
// and the insert share one transaction: either both succeed or neither is
// visible.
func (s *ChallengeService) CreateChallenge(ctx context.Context, clerkID string, templateID string, customTarget *float64) (*challenge.UserChallenge, error) {
	if customTarget != nil && *customTarget <= 0 {
		return nil, ErrInvalidTarget
	}

	templateUUID, err := uuid.Parse(templateID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid template id", ErrTemplateNotFound)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userID, err := resolveUserID(ctx, tx, clerkID)
	if err != nil {
		return nil, err
	}

	var tmpl challenge.Template
	templateQuery := `
		SELECT id, type, duration_days, target_amount, points_reward, badge_reward
		FROM challenge_templates
		WHERE id = $1 AND is_active = true
	`
	err = tx.QueryRow(ctx, templateQuery, templateUUID).Scan(
		&tmpl.ID,
		&tmpl.Type,
		&tmpl.DurationDays,
		&tmpl.TargetAmount,
		&tmpl.PointsReward,
		&tmpl.BadgeReward,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get challenge template: %w", err)
	}

	targetAmount := tmpl.TargetAmount
	if customTarget != nil {
		targetAmount = *customTarget
	}

	startDate := today()
	uc := &challenge.UserChallenge{
		ID:                 uuid.New(),
		UserID:             userID,
		TemplateID:         tmpl.ID,
		Type:               tmpl.Type,
		TargetAmount:       targetAmount,
		CurrentAmount:      0,
		ProgressPercentage: 0,
		Status:             challenge.StatusActive,
		StartDate:          startDate,
		EndDate:            startDate.AddDate(0, 0, tmpl.DurationDays),
		PointsReward:       tmpl.PointsReward,
		BadgeReward:        tmpl.BadgeReward,
	}

	insertQuery := `
		INSERT INTO user_challenges (
			id, user_id, template_id, type, target_amount, current_amount,
			progress_percentage, status, start_date, end_date,
			points_reward, badge_reward, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, insertQuery,
		uc.ID,
		uc.UserID,
		uc.TemplateID,
		uc.Type,
		uc.TargetAmount,
		uc.CurrentAmount,
		uc.ProgressPercentage,
		uc.Status,
		uc.StartDate,
		uc.EndDate,
		uc.PointsReward,
		uc.BadgeReward,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return uc, nil
}

// GetActiveChallenges returns the user's in-flight challenges, newest first.
func (s *ChallengeService) GetActiveChallenges(ctx context.Context, clerkID string) ([]*challenge.UserChallenge, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, template_id, type, target_amount, current_amount,
		       progress_percentage, status, start_date, end_date,
		       points_reward, badge_reward, created_at, updated_at
		FROM user_challenges
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*challenge.UserChallenge
	for rows.Next() {
		uc := &challenge.UserChallenge{}
		err := rows.Scan(
			&uc.ID,
			&uc.UserID,
			&uc.TemplateID,
			&uc.Type,
			&uc.TargetAmount,
			&uc.CurrentAmount,
			&uc.ProgressPercentage,
			&uc.Status,
			&uc.StartDate,
			&uc.EndDate,
			&uc.PointsReward,
			&uc.BadgeReward,
			&uc.CreatedAt,
			&uc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, uc)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return challenges, nil
}

// GetChallengeHistory returns the day-keyed progress rows for one of the
// user's challenges, newest first.
func (s *ChallengeService) GetChallengeHistory(ctx context.Context, clerkID string, challengeID string) ([]*challenge.Progress, error) {
	challengeUUID, err := uuid.Parse(challengeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid challenge id", ErrChallengeNotFound)
	}

	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_challenges WHERE id = $1 AND user_id = $2)`,
		challengeUUID, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check challenge: %w", err)
	}
	if !exists {
		return nil, ErrChallengeNotFound
	}

	query := `
		SELECT id, challenge_id, user_id, progress_date, amount_progress,
		       percentage_complete, daily_change, created_at
		FROM challenge_progress
		WHERE challenge_id = $1
		ORDER BY progress_date DESC
	`

	rows, err := s.db.Query(ctx, query, challengeUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge history: %w", err)
	}
	defer rows.Close()

	var history []*challenge.Progress
	for rows.Next() {
		p := &challenge.Progress{}
		err := rows.Scan(
			&p.ID,
			&p.ChallengeID,
			&p.UserID,
			&p.ProgressDate,
			&p.AmountProgress,
			&p.PercentageComplete,
			&p.DailyChange,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		history = append(history, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
