package services

import (
	"context"
	"fmt"

	"moneyQuestAPI/internal/progress"
	"moneyQuestAPI/internal/types/account"
	"moneyQuestAPI/internal/types/challenge"
	"moneyQuestAPI/internal/types/score"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgressService struct {
	db           *pgxpool.Pool
	calculators  *progress.Registry
	scoreService *ScoreService
	notifService *NotificationService
}

func NewProgressService(db *pgxpool.Pool, scoreService *ScoreService, notifService *NotificationService) *ProgressService {
	return &ProgressService{
		db:           db,
		calculators:  progress.NewRegistry(),
		scoreService: scoreService,
		notifService: notifService,
	}
}

// UpdateProgress applies an account snapshot to every active challenge the
// user has. All of it is one transaction: the challenge rows are locked
// FOR UPDATE so overlapping calls for the same user serialize, and either
// every challenge update for this call commits or none do. Re-running the
// same snapshot on the same day overwrites that day's progress row instead
// of duplicating it, so caller-side retries are safe.
func (s *ProgressService) UpdateProgress(ctx context.Context, clerkID string, snap *account.Snapshot) ([]*challenge.ProgressUpdate, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
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

	activeQuery := `
		SELECT id, user_id, template_id, type, target_amount, current_amount,
		       progress_percentage, status, start_date, end_date,
		       points_reward, badge_reward
		FROM user_challenges
		WHERE user_id = $1 AND status = 'active'
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, activeQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active challenges: %w", err)
	}

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
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, uc)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	progressDate := today()
	var updates []*challenge.ProgressUpdate
	var completed []*challenge.UserChallenge
	var badges []*score.Badge

	for _, uc := range challenges {
		calc, ok := s.calculators.For(uc.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownChallengeType, uc.Type)
		}

		change := calc.Calculate(snap)

		var newCurrent float64
		switch uc.Type {
		case challenge.TypeDebtPaydown:
			newCurrent = uc.CurrentAmount + change
			if newCurrent < 0 {
				newCurrent = 0
			}
		case challenge.TypeSpendingLimit:
			// spend totals replace, they do not accumulate
			newCurrent = change
		default:
			newCurrent = uc.CurrentAmount + change
		}

		percentage := 0.0
		if uc.TargetAmount > 0 {
			percentage = newCurrent / uc.TargetAmount * 100
		}
		if percentage > 100 {
			percentage = 100
		}
		if percentage < 0 {
			percentage = 0
		}

		_, err = tx.Exec(ctx, `
			UPDATE user_challenges
			SET current_amount = $1, progress_percentage = $2, updated_at = NOW()
			WHERE id = $3
		`, newCurrent, percentage, uc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update challenge %s: %w", uc.ID, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO challenge_progress (
				id, challenge_id, user_id, progress_date,
				amount_progress, percentage_complete, daily_change, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (challenge_id, progress_date)
			DO UPDATE SET
				amount_progress = $5,
				percentage_complete = $6,
				daily_change = $7
		`, uuid.New(), uc.ID, userID, progressDate, newCurrent, percentage, change)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert progress row: %w", err)
		}

		uc.CurrentAmount = newCurrent
		uc.ProgressPercentage = percentage

		if percentage >= 100 {
			badge, didComplete, err := s.completeChallenge(ctx, tx, uc)
			if err != nil {
				return nil, err
			}
			if didComplete {
				completed = append(completed, uc)
				if badge != nil {
					badges = append(badges, badge)
				}
			}
		}

		updates = append(updates, &challenge.ProgressUpdate{
			ChallengeID:        uc.ID,
			ProgressChange:     change,
			NewCurrentAmount:   newCurrent,
			ProgressPercentage: percentage,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Notifications consume committed writes only; they never sit inside
	// the unit of work.
	if s.notifService != nil {
		for _, uc := range completed {
			s.notifService.NotifyChallengeCompleted(ctx, uc)
		}
		for _, b := range badges {
			s.notifService.NotifyBadgeEarned(ctx, b)
		}
	}

	return updates, nil
}

// completeChallenge transitions a challenge to completed, records the
// completion, grants the badge when the template carries one and awards
// the points, all on the caller's transaction. The status guard plus the
// unique completion row make double completion a no-op even when two
// evaluations race.
func (s *ProgressService) completeChallenge(ctx context.Context, tx pgx.Tx, uc *challenge.UserChallenge) (*score.Badge, bool, error) {
	if uc.Status != challenge.StatusActive {
		return nil, false, nil
	}

	res, err := tx.Exec(ctx, `
		UPDATE user_challenges
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, uc.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to complete challenge: %w", err)
	}
	if res.RowsAffected() == 0 {
		return nil, false, nil
	}
	uc.Status = challenge.StatusCompleted

	res, err = tx.Exec(ctx, `
		INSERT INTO challenge_completions (
			id, challenge_id, user_id, completion_date,
			final_amount, completion_percentage, points_earned
		)
		VALUES ($1, $2, $3, NOW(), $4, $5, $6)
		ON CONFLICT (challenge_id) DO NOTHING
	`, uuid.New(), uc.ID, uc.UserID, uc.CurrentAmount, uc.ProgressPercentage, uc.PointsReward)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record completion: %w", err)
	}
	if res.RowsAffected() == 0 {
		// a completion row already exists, so points were already awarded
		return nil, false, nil
	}

	var badge *score.Badge
	if uc.BadgeReward != nil && *uc.BadgeReward != "" {
		badge = &score.Badge{
			ID:           uuid.New(),
			UserID:       uc.UserID,
			BadgeName:    *uc.BadgeReward,
			BadgeType:    string(uc.Type),
			ChallengeID:  uc.ID,
			PointsEarned: uc.PointsReward,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO user_badges (
				id, user_id, badge_name, badge_type, earned_date, challenge_id, points_earned
			)
			VALUES ($1, $2, $3, $4, NOW(), $5, $6)
			RETURNING earned_date
		`, badge.ID, badge.UserID, badge.BadgeName, badge.BadgeType, badge.ChallengeID, badge.PointsEarned).Scan(&badge.EarnedDate)
		if err != nil {
			return nil, false, fmt.Errorf("failed to grant badge: %w", err)
		}
	}

	if _, err := s.scoreService.AwardPoints(ctx, tx, uc.UserID, uc.PointsReward); err != nil {
		return nil, false, err
	}

	return badge, true, nil
}
