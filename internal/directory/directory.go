// Package directory owns the player entity: lookup-or-create by external
// identifier, profile refresh, score mutation, ranked listing, and the
// per-level progress history. All state lives in the database; every
// operation is a single storage round trip.
package directory

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tour0001/backend/internal/domain"
	"github.com/tour0001/backend/internal/repository"
)

// Directory performs player operations against the storage layer.
type Directory struct {
	db       repository.DBTX
	players  repository.PlayerRepository
	levels   repository.LevelRepository
	progress repository.ProgressRepository
	logger   *slog.Logger
}

// New creates a Directory.
func New(db repository.DBTX, players repository.PlayerRepository, levels repository.LevelRepository, progress repository.ProgressRepository, logger *slog.Logger) *Directory {
	return &Directory{db: db, players: players, levels: levels, progress: progress, logger: logger}
}

// internal logs a storage failure with its cause and wraps it; the cause
// never reaches the client.
func (d *Directory) internal(op string, err error) *domain.AppError {
	d.logger.Error("storage operation failed", "op", op, "error", err)
	return domain.ErrInternal(op, err)
}

// IdentityInput holds the fields of a lookup-or-create request.
type IdentityInput struct {
	ExternalID  string
	DisplayName string
	AvatarURL   *string
}

// LookupOrCreate finds a player by external identifier, refreshing the
// stored display name and avatar when they changed, or creates the player
// with score 0 and level 1. The returned flag is true only for a genuine
// creation; a creation that loses a concurrent race reloads the winner
// and reports the player as existing.
func (d *Directory) LookupOrCreate(ctx context.Context, in IdentityInput) (*domain.Player, bool, error) {
	player, err := d.players.FindByExternalID(ctx, d.db, in.ExternalID)
	if err != nil {
		return nil, false, d.internal("find player", err)
	}

	if player == nil {
		now := time.Now().UTC()
		candidate := &domain.Player{
			ID:           uuid.New(),
			ExternalID:   in.ExternalID,
			DisplayName:  in.DisplayName,
			AvatarURL:    normalizeAvatar(in.AvatarURL),
			ScoreTotal:   0,
			CurrentLevel: 1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		stored, created, err := d.players.CreateIfAbsent(ctx, d.db, candidate)
		if err != nil {
			return nil, false, d.internal("create player", err)
		}
		if created {
			return stored, true, nil
		}
		d.logger.Info("player creation lost race, treating as existing", "external_id", in.ExternalID)
		player = stored
	}

	// Existing player: refresh identity fields only when they changed, so
	// an unchanged login does not touch updated_at.
	if d.needsIdentityRefresh(player, in) {
		updated, err := d.players.UpdateIdentity(ctx, d.db, in.ExternalID, in.DisplayName, normalizeAvatar(in.AvatarURL))
		if err != nil {
			return nil, false, d.internal("update player identity", err)
		}
		if updated != nil {
			player = updated
		}
	}

	return player, false, nil
}

func (d *Directory) needsIdentityRefresh(player *domain.Player, in IdentityInput) bool {
	if player.DisplayName != in.DisplayName {
		return true
	}
	avatar := normalizeAvatar(in.AvatarURL)
	if avatar == nil {
		// An absent or empty avatar never overwrites a stored one.
		return false
	}
	return player.AvatarURL == nil || *player.AvatarURL != *avatar
}

// normalizeAvatar treats an empty string as absent.
func normalizeAvatar(avatarURL *string) *string {
	if avatarURL == nil || *avatarURL == "" {
		return nil
	}
	return avatarURL
}

// GetByExternalID returns the player record. Read-only.
func (d *Directory) GetByExternalID(ctx context.Context, externalID string) (*domain.Player, error) {
	player, err := d.players.FindByExternalID(ctx, d.db, externalID)
	if err != nil {
		return nil, d.internal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", externalID)
	}
	return player, nil
}

// AdjustScore applies an additive score increment and/or an absolute level
// assignment in one atomic statement. An update carrying neither field is
// a valid no-op that returns the current record without writing.
func (d *Directory) AdjustScore(ctx context.Context, externalID string, update domain.ScoreUpdate) (*domain.Player, error) {
	if update.Empty() {
		return d.GetByExternalID(ctx, externalID)
	}

	player, err := d.players.ApplyScoreUpdate(ctx, d.db, externalID, update)
	if err != nil {
		return nil, d.internal("update score", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", externalID)
	}
	return player, nil
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	ID           uuid.UUID `json:"id"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	ScoreTotal   int64     `json:"score_total"`
	CurrentLevel int64     `json:"current_level"`
}

// LeaderboardPage is a paginated slice of the ranked player listing.
type LeaderboardPage struct {
	Entries []LeaderboardEntry
	Total   int64
	Limit   int
	Skip    int
	HasMore bool
}

// Leaderboard returns players by descending score, with 1-based ranks
// offset by skip. Tie order is storage-defined.
func (d *Directory) Leaderboard(ctx context.Context, limit, skip int) (*LeaderboardPage, error) {
	players, err := d.players.ListByScore(ctx, d.db, limit, skip)
	if err != nil {
		return nil, d.internal("list players", err)
	}
	total, err := d.players.Count(ctx, d.db)
	if err != nil {
		return nil, d.internal("count players", err)
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, LeaderboardEntry{
			Rank:         skip + i + 1,
			ID:           p.ID,
			DisplayName:  p.DisplayName,
			AvatarURL:    p.AvatarURL,
			ScoreTotal:   p.ScoreTotal,
			CurrentLevel: p.CurrentLevel,
		})
	}

	return &LeaderboardPage{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Skip:    skip,
		HasMore: int64(skip+limit) < total,
	}, nil
}

// ProgressInput holds the fields of a progress submission.
type ProgressInput struct {
	LevelID   uuid.UUID
	Score     int64
	Completed bool
}

// RecordProgress stores one play-through linking the player to a level.
// Repeat plays accumulate records.
func (d *Directory) RecordProgress(ctx context.Context, externalID string, in ProgressInput) (*domain.ProgressRecord, error) {
	player, err := d.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	level, err := d.levels.FindByID(ctx, d.db, in.LevelID)
	if err != nil {
		return nil, d.internal("find level", err)
	}
	if level == nil {
		return nil, domain.ErrNotFound("level", in.LevelID.String())
	}

	record := &domain.ProgressRecord{
		ID:        uuid.New(),
		PlayerID:  player.ID,
		LevelID:   level.ID,
		Score:     in.Score,
		Completed: in.Completed,
		PlayedAt:  time.Now().UTC(),
	}
	if err := d.progress.Insert(ctx, d.db, record); err != nil {
		return nil, d.internal("record progress", err)
	}
	return record, nil
}

// PlayerHistory returns a player's play-throughs, most recent first.
func (d *Directory) PlayerHistory(ctx context.Context, externalID string) ([]domain.ProgressRecord, error) {
	player, err := d.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	records, err := d.progress.ListByPlayer(ctx, d.db, player.ID)
	if err != nil {
		return nil, d.internal("list progress", err)
	}
	return records, nil
}

// ListLevels returns the level catalogue.
func (d *Directory) ListLevels(ctx context.Context) ([]domain.Level, error) {
	levels, err := d.levels.List(ctx, d.db)
	if err != nil {
		return nil, d.internal("list levels", err)
	}
	return levels, nil
}

// GetLevel returns one level by id.
func (d *Directory) GetLevel(ctx context.Context, id uuid.UUID) (*domain.Level, error) {
	level, err := d.levels.FindByID(ctx, d.db, id)
	if err != nil {
		return nil, d.internal("find level", err)
	}
	if level == nil {
		return nil, domain.ErrNotFound("level", id.String())
	}
	return level, nil
}

// TopScores returns the best play-throughs for a level.
func (d *Directory) TopScores(ctx context.Context, levelID uuid.UUID, limit int) ([]domain.ProgressRecord, error) {
	if _, err := d.GetLevel(ctx, levelID); err != nil {
		return nil, err
	}
	records, err := d.progress.TopByLevel(ctx, d.db, levelID, limit)
	if err != nil {
		return nil, d.internal("top scores", err)
	}
	return records, nil
}
