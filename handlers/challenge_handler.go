package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"moneyQuestAPI/internal/types/account"
	"moneyQuestAPI/internal/types/challenge"
	"moneyQuestAPI/middleware"
	"moneyQuestAPI/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = validator.New()

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	progressService  *services.ProgressService
}

func NewChallengeHandler(challengeService *services.ChallengeService, progressService *services.ProgressService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		progressService:  progressService,
	}
}

func (h *ChallengeHandler) GetChallengeTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	templates, err := h.challengeService.GetChallengeTemplates(ctx)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, templates)
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	uc, err := h.challengeService.CreateChallenge(ctx, clerkID, req.TemplateID, req.CustomTarget)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusCreated, uc)
}

func (h *ChallengeHandler) GetActiveChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	challenges, err := h.challengeService.GetActiveChallenges(ctx, clerkID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) GetChallengeHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	challengeID := mux.Vars(r)["challengeID"]

	history, err := h.challengeService.GetChallengeHistory(ctx, clerkID, challengeID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, history)
}

// SyncProgress is called by the bank-data pipeline with the user's latest
// account snapshot.
func (h *ChallengeHandler) SyncProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var snap account.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&snap); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updates, err := h.progressService.UpdateProgress(ctx, clerkID, &snap)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithData(w, http.StatusOK, updates)
}

// Helper functions

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrChallengeNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnknownChallengeType),
		errors.Is(err, services.ErrChallengeNotActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondWithData(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(map[string]interface{}{
		"success": true,
		"data":    payload,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	response, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   message,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
