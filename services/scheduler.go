package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartLedgerScheduler owns the cron side of the ledger: the nightly expiry
// sweep and the Monday weekly reset. The ledger operations themselves never
// self-schedule; this runs in the process entry point as their external
// caller. The returned scheduler must be shut down before the pool closes
// so a late-firing job never runs against a closed store.
func (s *WeeklyResetService) StartLedgerScheduler() gocron.Scheduler {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Scheduler] failed to create scheduler: %v", err)
		return nil
	}
	sched.Start()

	// Nightly: fail challenges whose window closed short of the target.
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 15, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			expired, err := s.ExpireOverdueChallenges(ctx)
			if err != nil {
				log.Printf("[Scheduler] expiry sweep failed: %v", err)
				return
			}
			if expired > 0 {
				log.Printf("[Scheduler] expired %d overdue challenges", expired)
			}
		}),
	)
	if err != nil {
		log.Printf("[Scheduler] failed to schedule expiry sweep: %v", err)
	}

	// Monday morning: roll up last week's numbers and zero weekly scores.
	_, err = sched.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(0, 30, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			userIDs, err := s.ScoredUserIDs(ctx)
			if err != nil {
				log.Printf("[Scheduler] weekly reset aborted: %v", err)
				return
			}

			for _, userID := range userIDs {
				if _, err := s.PerformWeeklyResetForUser(ctx, userID); err != nil {
					log.Printf("[Scheduler] weekly reset failed for user %s: %v", userID, err)
				}
			}
			log.Printf("[Scheduler] weekly reset ran for %d users", len(userIDs))
		}),
	)
	if err != nil {
		log.Printf("[Scheduler] failed to schedule weekly reset: %v", err)
	}

	return sched
}
