package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidateIdentity(t *testing.T) {
	tests := []struct {
		name        string
		externalID  string
		displayName string
		wantErr     bool
		errMsg      string
	}{
		{"valid", "t2_abc123", "PlayerOne", false, ""},
		{"external id at limit", strings.Repeat("a", 64), "PlayerOne", false, ""},
		{"display name at limit", "t2_abc123", strings.Repeat("n", 100), false, ""},
		{"empty external id", "", "PlayerOne", true, "external_id is required"},
		{"whitespace external id", "   ", "PlayerOne", true, "external_id is required"},
		{"empty display name", "t2_abc123", "", true, "display_name is required"},
		{"whitespace display name", "t2_abc123", " \t ", true, "display_name is required"},
		{"external id too long", strings.Repeat("a", 65), "PlayerOne", true, "external_id cannot exceed 64 characters"},
		{"display name too long", "t2_abc123", strings.Repeat("n", 101), true, "display_name cannot exceed 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentity(tt.externalID, tt.displayName)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateScoreUpdate(t *testing.T) {
	inc := int64(5)
	levelOne := int64(1)
	levelZero := int64(0)
	levelNeg := int64(-2)

	tests := []struct {
		name    string
		update  ScoreUpdate
		wantErr bool
	}{
		{"both absent is a valid no-op", ScoreUpdate{}, false},
		{"increment only", ScoreUpdate{ScoreIncrement: &inc}, false},
		{"level one accepted", ScoreUpdate{CurrentLevel: &levelOne}, false},
		{"level zero rejected", ScoreUpdate{CurrentLevel: &levelZero}, true},
		{"negative level rejected", ScoreUpdate{CurrentLevel: &levelNeg}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScoreUpdate(tt.update)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "current_level")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateProgress(t *testing.T) {
	score := int64(42)

	require.NoError(t, ValidateProgress(uuid.NewString(), &score))

	err := ValidateProgress("", &score)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level_id")

	err = ValidateProgress(uuid.NewString(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score")
}

// --- ScoreUpdate Tests ---

func TestScoreUpdateHelpers(t *testing.T) {
	inc := int64(3)
	lvl := int64(4)

	assert.True(t, ScoreUpdate{}.Empty())
	assert.False(t, ScoreUpdate{ScoreIncrement: &inc}.Empty())
	assert.True(t, ScoreUpdate{ScoreIncrement: &inc}.HasIncrement())
	assert.False(t, ScoreUpdate{ScoreIncrement: &inc}.HasLevel())
	assert.True(t, ScoreUpdate{CurrentLevel: &lvl}.HasLevel())
}

// --- AppError Tests ---

func TestAppError(t *testing.T) {
	t.Run("message includes cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrInternal("find player", cause)
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("status codes", func(t *testing.T) {
		assert.Equal(t, 404, ErrNotFound("player", "abc").Status)
		assert.Equal(t, 400, ErrValidation("bad input").Status)
		assert.Equal(t, 403, ErrForbidden("origin not allowed").Status)
		assert.Equal(t, 429, ErrRateLimited("slow down").Status)
		assert.Equal(t, 500, ErrInternal("oops", nil).Status)
	})
}

// --- Serialization Tests ---

func TestPlayerJSONNeverExposesRefreshToken(t *testing.T) {
	token := "secret-refresh-token"
	p := Player{
		ID:           uuid.New(),
		ExternalID:   "t2_abc123",
		DisplayName:  "PlayerOne",
		ScoreTotal:   50,
		CurrentLevel: 3,
		RefreshToken: &token,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-refresh-token")
	assert.NotContains(t, string(raw), "refresh_token")
	assert.Contains(t, string(raw), "external_id")
}
