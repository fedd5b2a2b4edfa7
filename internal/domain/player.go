package domain

import (
	"time"

	"github.com/google/uuid"
)

// Player is one row of the players table. The external identifier is
// issued by the hosting platform and immutable after creation; the
// refresh token is a platform credential and is never serialized.
type Player struct {
	ID           uuid.UUID `json:"id"`
	ExternalID   string    `json:"external_id"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	ScoreTotal   int64     `json:"score_total"`
	CurrentLevel int64     `json:"current_level"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ScoreUpdate carries the optional fields of a score mutation. Nil means
// "leave unchanged". The increment is additive (negatives are accepted as
// score corrections); the level is an absolute assignment.
type ScoreUpdate struct {
	ScoreIncrement *int64
	CurrentLevel   *int64
}

// HasIncrement reports whether a score increment was supplied.
func (u ScoreUpdate) HasIncrement() bool { return u.ScoreIncrement != nil }

// HasLevel reports whether a level assignment was supplied.
func (u ScoreUpdate) HasLevel() bool { return u.CurrentLevel != nil }

// Empty reports whether the update carries no fields at all.
func (u ScoreUpdate) Empty() bool { return !u.HasIncrement() && !u.HasLevel() }

// Level (étage) is an admin-authored content record. Read-mostly; the
// open-ended config blob is stored as JSONB.
type Level struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Rules       *string        `json:"rules,omitempty"`
	MaxScore    *int64         `json:"max_score,omitempty"`
	Difficulty  int            `json:"difficulty"`
	Config      map[string]any `json:"config,omitempty"`
}

// ProgressRecord links a player and a level for one play-through. Repeat
// plays accumulate multiple records.
type ProgressRecord struct {
	ID        uuid.UUID `json:"id"`
	PlayerID  uuid.UUID `json:"player_id"`
	LevelID   uuid.UUID `json:"level_id"`
	Score     int64     `json:"score"`
	Completed bool      `json:"completed"`
	PlayedAt  time.Time `json:"played_at"`
}
