package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tour0001/backend/internal/domain"
	"github.com/tour0001/backend/internal/testutil"
)

func seedLevel(store *testutil.Store, name string, difficulty int) domain.Level {
	level := domain.Level{
		ID:         uuid.New(),
		Name:       name,
		Difficulty: difficulty,
	}
	store.AddLevel(level)
	return level
}

// --- Progress recording ---

func TestRecordProgress(t *testing.T) {
	store := testutil.NewStore()
	level := seedLevel(store, "Lobby", 1)
	h := newRouter(store)
	createPlayer(t, h, "t2_abc123", "PlayerOne")

	w := doJSON(t, h, http.MethodPost, "/api/joueurs/t2_abc123/progression", map[string]any{
		"level_id":  level.ID.String(),
		"score":     120,
		"completed": true,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	rec := body["progression"].(map[string]any)
	assert.Equal(t, level.ID.String(), rec["level_id"])
	assert.Equal(t, float64(120), rec["score"])
	assert.Equal(t, true, rec["completed"])
}

func TestRecordProgress_RepeatPlaysAccumulate(t *testing.T) {
	store := testutil.NewStore()
	level := seedLevel(store, "Lobby", 1)
	h := newRouter(store)
	createPlayer(t, h, "t2_abc123", "PlayerOne")

	for _, score := range []int{80, 95} {
		w := doJSON(t, h, http.MethodPost, "/api/joueurs/t2_abc123/progression", map[string]any{
			"level_id": level.ID.String(),
			"score":    score,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, h, http.MethodGet, "/api/joueurs/t2_abc123/progression", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody(t, w)["progressions"].([]any)
	assert.Len(t, records, 2)
}

func TestRecordProgress_Failures(t *testing.T) {
	store := testutil.NewStore()
	level := seedLevel(store, "Lobby", 1)
	h := newRouter(store)
	createPlayer(t, h, "t2_abc123", "PlayerOne")

	t.Run("unknown player", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/joueurs/t2_missing/progression", map[string]any{
			"level_id": level.ID.String(),
			"score":    10,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown level", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/joueurs/t2_abc123/progression", map[string]any{
			"level_id": uuid.NewString(),
			"score":    10,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed level id", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/joueurs/t2_abc123/progression", map[string]any{
			"level_id": "not-a-uuid",
			"score":    10,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing score", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/joueurs/t2_abc123/progression", map[string]any{
			"level_id": level.ID.String(),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// --- Level catalogue ---

func TestLevels(t *testing.T) {
	store := testutil.NewStore()
	lobby := seedLevel(store, "Lobby", 1)
	seedLevel(store, "Rooftop", 5)
	h := newRouter(store)

	t.Run("list ordered by difficulty", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/etages", nil)
		require.Equal(t, http.StatusOK, w.Code)
		levels := decodeBody(t, w)["etages"].([]any)
		require.Len(t, levels, 2)
		assert.Equal(t, "Lobby", levels[0].(map[string]any)["name"])
		assert.Equal(t, "Rooftop", levels[1].(map[string]any)["name"])
	})

	t.Run("get by id", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/etages/"+lobby.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		etage := decodeBody(t, w)["etage"].(map[string]any)
		assert.Equal(t, "Lobby", etage["name"])
	})

	t.Run("unknown id", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/etages/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLevelTopScores(t *testing.T) {
	store := testutil.NewStore()
	level := seedLevel(store, "Lobby", 1)
	h := newRouter(store)
	createPlayer(t, h, "t2_abc123", "PlayerOne")
	createPlayer(t, h, "t2_def456", "PlayerTwo")

	for _, sub := range []struct {
		player string
		score  int
	}{
		{"t2_abc123", 80},
		{"t2_def456", 95},
		{"t2_abc123", 60},
	} {
		w := doJSON(t, h, http.MethodPost, "/api/joueurs/"+sub.player+"/progression", map[string]any{
			"level_id": level.ID.String(),
			"score":    sub.score,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, h, http.MethodGet, "/api/etages/"+level.ID.String()+"/top?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody(t, w)["progressions"].([]any)
	require.Len(t, records, 2)
	assert.Equal(t, float64(95), records[0].(map[string]any)["score"])
	assert.Equal(t, float64(80), records[1].(map[string]any)["score"])
}
