package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tour0001/backend/internal/domain"
)

const progressColumns = `id, player_id, level_id, score, completed, played_at`

type progressRepo struct{}

// NewProgressRepository returns a pgx-backed ProgressRepository.
func NewProgressRepository() ProgressRepository {
	return &progressRepo{}
}

func (r *progressRepo) Insert(ctx context.Context, db DBTX, record *domain.ProgressRecord) error {
	_, err := db.Exec(ctx, `
		INSERT INTO progress_records (id, player_id, level_id, score, completed, played_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.PlayerID, record.LevelID,
		record.Score, record.Completed, record.PlayedAt)
	if err != nil {
		return fmt.Errorf("insert progress record: %w", err)
	}
	return nil
}

func (r *progressRepo) ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.ProgressRecord, error) {
	rows, err := db.Query(ctx, `
		SELECT `+progressColumns+`
		FROM progress_records
		WHERE player_id = $1
		ORDER BY played_at DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list progress by player: %w", err)
	}
	defer rows.Close()
	return collectProgress(rows)
}

func (r *progressRepo) TopByLevel(ctx context.Context, db DBTX, levelID uuid.UUID, limit int) ([]domain.ProgressRecord, error) {
	rows, err := db.Query(ctx, `
		SELECT `+progressColumns+`
		FROM progress_records
		WHERE level_id = $1
		ORDER BY score DESC
		LIMIT $2`, levelID, limit)
	if err != nil {
		return nil, fmt.Errorf("top progress by level: %w", err)
	}
	defer rows.Close()
	return collectProgress(rows)
}

func collectProgress(rows pgx.Rows) ([]domain.ProgressRecord, error) {
	var records []domain.ProgressRecord
	for rows.Next() {
		var rec domain.ProgressRecord
		if err := rows.Scan(&rec.ID, &rec.PlayerID, &rec.LevelID,
			&rec.Score, &rec.Completed, &rec.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
