package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tour0001/backend/internal/directory"
	"github.com/tour0001/backend/internal/domain"
)

const (
	defaultLeaderboardLimit = 10
	defaultLeaderboardSkip  = 0
)

// PlayerHandler handles the player directory endpoints.
type PlayerHandler struct {
	directory *directory.Directory
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(dir *directory.Directory) *PlayerHandler {
	return &PlayerHandler{directory: dir}
}

// createPlayerRequest is the body of POST /api/joueurs.
type createPlayerRequest struct {
	ExternalID  string  `json:"external_id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// CreateOrGet handles POST /api/joueurs — lookup-or-create by external
// identifier. 201 for a new player, 200 for an existing one.
func (h *PlayerHandler) CreateOrGet(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := domain.ValidateIdentity(req.ExternalID, req.DisplayName); err != nil {
		RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	player, created, err := h.directory.LookupOrCreate(r.Context(), directory.IdentityInput{
		ExternalID:  req.ExternalID,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	status := http.StatusOK
	message := "player found and updated"
	if created {
		status = http.StatusCreated
		message = "new player created"
	}
	RespondJSON(w, status, envelope{
		"success": true,
		"message": message,
		"joueur":  player,
	})
}

// Get handles GET /api/joueurs/{external_id}.
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	player, err := h.directory.GetByExternalID(r.Context(), externalID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, envelope{
		"success": true,
		"joueur":  player,
	})
}

// scoreUpdateRequest is the body of PUT /api/joueurs/{external_id}/score.
// Typed pointer fields reject non-numeric values at decode time.
type scoreUpdateRequest struct {
	ScoreIncrement *int64 `json:"score_increment"`
	CurrentLevel   *int64 `json:"current_level"`
}

// UpdateScore handles PUT /api/joueurs/{external_id}/score.
func (h *PlayerHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	var req scoreUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	update := domain.ScoreUpdate{
		ScoreIncrement: req.ScoreIncrement,
		CurrentLevel:   req.CurrentLevel,
	}
	if err := domain.ValidateScoreUpdate(update); err != nil {
		RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	player, err := h.directory.AdjustScore(r.Context(), externalID, update)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "score updated",
		"joueur":  player,
	})
}

// Leaderboard handles GET /api/joueurs/leaderboard/top?limit=&skip=.
func (h *PlayerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", defaultLeaderboardLimit)
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	skip := parseQueryInt(r, "skip", defaultLeaderboardSkip)
	if skip < 0 {
		skip = defaultLeaderboardSkip
	}

	page, err := h.directory.Leaderboard(r.Context(), limit, skip)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, envelope{
		"success":     true,
		"leaderboard": page.Entries,
		"pagination": envelope{
			"total":    page.Total,
			"limit":    page.Limit,
			"skip":     page.Skip,
			"has_more": page.HasMore,
		},
	})
}

// parseQueryInt returns the integer query parameter, or def when the
// parameter is absent or non-numeric.
func parseQueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
