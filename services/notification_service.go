package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"moneyQuestAPI/internal/types/challenge"
	"moneyQuestAPI/internal/types/notification"
	"moneyQuestAPI/internal/types/score"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PushProvider delivers a push message to a set of device tokens.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationService is a consumer of the ledger's committed writes: the
// progress service hands it freshly completed challenges and badge grants
// after the transaction commits. It is never part of a unit of work.
type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

func (s *NotificationService) NotifyChallengeCompleted(ctx context.Context, uc *challenge.UserChallenge) {
	title := "Challenge complete!"
	body := fmt.Sprintf("You hit your %s goal and earned %d points.", uc.Type, uc.PointsReward)
	s.deliver(ctx, uc.UserID, notification.TypeChallengeCompleted, title, body, map[string]any{
		"challenge_id": uc.ID.String(),
		"points":       uc.PointsReward,
	})
}

func (s *NotificationService) NotifyBadgeEarned(ctx context.Context, b *score.Badge) {
	title := "New badge earned"
	body := fmt.Sprintf("The %s badge is yours.", b.BadgeName)
	s.deliver(ctx, b.UserID, notification.TypeBadgeEarned, title, body, map[string]any{
		"badge_name":   b.BadgeName,
		"challenge_id": b.ChallengeID.String(),
	})
}

func (s *NotificationService) deliver(ctx context.Context, userID uuid.UUID, notifType notification.NotificationType, title, body string, data map[string]any) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW())
	`, uuid.New(), userID, notifType, title, body)
	if err != nil {
		log.Printf("Failed to record %s notification for user %s: %v", notifType, userID, err)
		return
	}

	if s.push == nil {
		return
	}

	// push delivery must not hold up the caller
	go func() {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tokens, err := s.getDeviceTokens(pushCtx, userID)
		if err != nil {
			log.Printf("Failed to load device tokens for user %s: %v", userID, err)
			return
		}
		if err := s.push.SendPush(pushCtx, tokens, title, body, data); err != nil {
			log.Printf("Push delivery failed for user %s: %v", userID, err)
		}
	}()
}

func (s *NotificationService) getDeviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT token, platform FROM user_devices WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}

	return tokens, rows.Err()
}

// GetNotifications returns the user's latest notifications.
func (s *NotificationService) GetNotifications(ctx context.Context, clerkID string, limit int) ([]*notification.Notification, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, type, title, body, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var notifs []*notification.Notification
	for rows.Next() {
		n := &notification.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}

	return notifs, rows.Err()
}
