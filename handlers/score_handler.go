package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"moneyQuestAPI/middleware"
	"moneyQuestAPI/services"
)

type ScoreHandler struct {
	scoreService       *services.ScoreService
	weeklyResetService *services.WeeklyResetService
	notifService       *services.NotificationService
}

func NewScoreHandler(scoreService *services.ScoreService, weeklyResetService *services.WeeklyResetService, notifService *services.NotificationService) *ScoreHandler {
	return &ScoreHandler{
		scoreService:       scoreService,
		weeklyResetService: weeklyResetService,
		notifService:       notifService,
	}
}

func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	fs, err := h.scoreService.GetScore(ctx, clerkID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, fs)
}

func (h *ScoreHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	badges, err := h.scoreService.GetBadges(ctx, clerkID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, badges)
}

func (h *ScoreHandler) PerformWeeklyReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	reset, err := h.weeklyResetService.PerformWeeklyReset(ctx, clerkID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, reset)
}

func (h *ScoreHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifs, err := h.notifService.GetNotifications(ctx, clerkID, limit)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, notifs)
}
