package services

import (
	"context"
	"os"
	"testing"

	"moneyQuestAPI/internal/types/challenge"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL (falling
// back to DATABASE_URL) and makes sure the ledger tables exist. Tests that
// need a store skip when neither is set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set, skipping store-backed test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			clerk_id TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS challenge_templates (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			difficulty INT NOT NULL DEFAULT 1,
			duration_days INT NOT NULL,
			target_amount DOUBLE PRECISION NOT NULL,
			points_reward INT NOT NULL,
			badge_reward TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_challenges (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			template_id UUID NOT NULL,
			type TEXT NOT NULL,
			target_amount DOUBLE PRECISION NOT NULL,
			current_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			progress_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			points_reward INT NOT NULL,
			badge_reward TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS challenge_progress (
			id UUID PRIMARY KEY,
			challenge_id UUID NOT NULL,
			user_id UUID NOT NULL,
			progress_date DATE NOT NULL,
			amount_progress DOUBLE PRECISION NOT NULL,
			percentage_complete DOUBLE PRECISION NOT NULL,
			daily_change DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (challenge_id, progress_date)
		)`,
		`CREATE TABLE IF NOT EXISTS challenge_completions (
			id UUID PRIMARY KEY,
			challenge_id UUID NOT NULL UNIQUE,
			user_id UUID NOT NULL,
			completion_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			final_amount DOUBLE PRECISION NOT NULL,
			completion_percentage DOUBLE PRECISION NOT NULL,
			points_earned INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_badges (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			badge_name TEXT NOT NULL,
			badge_type TEXT NOT NULL,
			earned_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			challenge_id UUID NOT NULL,
			points_earned INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_financial_scores (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE,
			total_points INT NOT NULL DEFAULT 0,
			weekly_score INT NOT NULL DEFAULT 0,
			monthly_score INT NOT NULL DEFAULT 0,
			current_level INT NOT NULL DEFAULT 1,
			level_name TEXT NOT NULL DEFAULT 'Novice',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS weekly_resets (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			week_start DATE NOT NULL,
			week_end DATE NOT NULL,
			challenges_completed INT NOT NULL,
			challenges_failed INT NOT NULL,
			badges_earned INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, week_start)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_devices (
			user_id UUID NOT NULL,
			token TEXT NOT NULL,
			platform TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to create test schema: %v", err)
		}
	}

	return pool
}

// createTestUser inserts a throwaway user and cleans its ledger rows up
// when the test ends.
func createTestUser(t *testing.T, pool *pgxpool.Pool) (uuid.UUID, string) {
	t.Helper()

	ctx := context.Background()
	userID := uuid.New()
	clerkID := "test_clerk_" + uuid.NewString()

	_, err := pool.Exec(ctx, `INSERT INTO users (id, clerk_id) VALUES ($1, $2)`, userID, clerkID)
	if err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}

	t.Cleanup(func() {
		for _, table := range []string{
			"notifications", "weekly_resets", "user_financial_scores",
			"user_badges", "challenge_completions", "challenge_progress",
			"user_challenges",
		} {
			_, _ = pool.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID)
		}
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	})

	return userID, clerkID
}

// createTestTemplate inserts a template and removes it when the test ends.
func createTestTemplate(t *testing.T, pool *pgxpool.Pool, challengeType challenge.Type, target float64, durationDays, points int, badge *string) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	templateID := uuid.New()

	_, err := pool.Exec(ctx, `
		INSERT INTO challenge_templates (
			id, type, name, difficulty, duration_days, target_amount,
			points_reward, badge_reward, is_active
		)
		VALUES ($1, $2, $3, 1, $4, $5, $6, $7, true)
	`, templateID, challengeType, "test "+string(challengeType), durationDays, target, points, badge)
	if err != nil {
		t.Fatalf("Failed to insert test template: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM challenge_templates WHERE id = $1`, templateID)
	})

	return templateID
}
