package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tour0001/backend/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PlayerRepository provides access to the players table.
type PlayerRepository interface {
	// FindByExternalID returns a player, or nil if absent. Read-only.
	FindByExternalID(ctx context.Context, db DBTX, externalID string) (*domain.Player, error)

	// CreateIfAbsent inserts the player unless a row with the same
	// external_id already exists. When the insert loses a concurrent race
	// it returns the winning row instead, with created=false.
	CreateIfAbsent(ctx context.Context, db DBTX, player *domain.Player) (*domain.Player, bool, error)

	// UpdateIdentity overwrites display_name (and avatar_url when non-nil),
	// refreshing updated_at, and returns the updated row. Returns nil if
	// the player does not exist.
	UpdateIdentity(ctx context.Context, db DBTX, externalID, displayName string, avatarURL *string) (*domain.Player, error)

	// ApplyScoreUpdate mutates score_total and/or current_level in a single
	// statement using server-side arithmetic, refreshing updated_at, and
	// returns the updated row. Returns nil if the player does not exist.
	ApplyScoreUpdate(ctx context.Context, db DBTX, externalID string, update domain.ScoreUpdate) (*domain.Player, error)

	// ListByScore returns players ordered by score_total descending,
	// paginated by skip/limit. The refresh token column is never selected.
	ListByScore(ctx context.Context, db DBTX, limit, skip int) ([]domain.Player, error)

	// Count returns the total number of players.
	Count(ctx context.Context, db DBTX) (int64, error)
}

// LevelRepository provides read access to the static level catalogue.
type LevelRepository interface {
	// FindByID returns a level, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Level, error)

	// List returns all levels, ordered by difficulty.
	List(ctx context.Context, db DBTX) ([]domain.Level, error)
}

// ProgressRepository provides access to progress_records.
type ProgressRepository interface {
	// Insert creates one play-through record.
	Insert(ctx context.Context, db DBTX, record *domain.ProgressRecord) error

	// ListByPlayer returns a player's records, most recent first.
	ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.ProgressRecord, error)

	// TopByLevel returns the best-scoring records for a level.
	TopByLevel(ctx context.Context, db DBTX, levelID uuid.UUID, limit int) ([]domain.ProgressRecord, error)
}
