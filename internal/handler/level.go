package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tour0001/backend/internal/directory"
	"github.com/tour0001/backend/internal/domain"
)

const defaultTopScoresLimit = 10

// LevelHandler handles the level (étage) catalogue endpoints.
type LevelHandler struct {
	directory *directory.Directory
}

// NewLevelHandler creates a new LevelHandler.
func NewLevelHandler(dir *directory.Directory) *LevelHandler {
	return &LevelHandler{directory: dir}
}

// List handles GET /api/etages.
func (h *LevelHandler) List(w http.ResponseWriter, r *http.Request) {
	levels, err := h.directory.ListLevels(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, envelope{
		"success": true,
		"etages":  levels,
	})
}

// Get handles GET /api/etages/{id}.
func (h *LevelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrNotFound("level", chi.URLParam(r, "id")))
		return
	}

	level, err := h.directory.GetLevel(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, envelope{
		"success": true,
		"etage":   level,
	})
}

// TopScores handles GET /api/etages/{id}/top?limit=.
func (h *LevelHandler) TopScores(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrNotFound("level", chi.URLParam(r, "id")))
		return
	}
	limit := parseQueryInt(r, "limit", defaultTopScoresLimit)
	if limit <= 0 {
		limit = defaultTopScoresLimit
	}

	records, err := h.directory.TopScores(r.Context(), id, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, envelope{
		"success":      true,
		"progressions": records,
	})
}
