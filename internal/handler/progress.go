package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tour0001/backend/internal/directory"
	"github.com/tour0001/backend/internal/domain"
)

// ProgressHandler handles the per-player progress endpoints.
type ProgressHandler struct {
	directory *directory.Directory
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(dir *directory.Directory) *ProgressHandler {
	return &ProgressHandler{directory: dir}
}

// progressRequest is the body of POST /api/joueurs/{external_id}/progression.
type progressRequest struct {
	LevelID   string `json:"level_id"`
	Score     *int64 `json:"score"`
	Completed bool   `json:"completed"`
}

// Record handles POST /api/joueurs/{external_id}/progression.
func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	var req progressRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := domain.ValidateProgress(req.LevelID, req.Score); err != nil {
		RespondError(w, domain.ErrValidation(err.Error()))
		return
	}
	levelID, err := uuid.Parse(req.LevelID)
	if err != nil {
		RespondError(w, domain.ErrValidation("level_id must be a valid UUID"))
		return
	}

	record, err := h.directory.RecordProgress(r.Context(), externalID, directory.ProgressInput{
		LevelID:   levelID,
		Score:     *req.Score,
		Completed: req.Completed,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, envelope{
		"success":     true,
		"message":     "progress recorded",
		"progression": record,
	})
}

// History handles GET /api/joueurs/{external_id}/progression.
func (h *ProgressHandler) History(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	records, err := h.directory.PlayerHistory(r.Context(), externalID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, envelope{
		"success":      true,
		"progressions": records,
	})
}
