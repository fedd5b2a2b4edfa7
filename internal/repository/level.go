package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tour0001/backend/internal/domain"
)

const levelColumns = `id, name, description, rules, max_score, difficulty, config`

type levelRepo struct{}

// NewLevelRepository returns a pgx-backed LevelRepository.
func NewLevelRepository() LevelRepository {
	return &levelRepo{}
}

func (r *levelRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Level, error) {
	row := db.QueryRow(ctx, `
		SELECT `+levelColumns+`
		FROM levels WHERE id = $1`, id)
	return scanLevel(row)
}

func (r *levelRepo) List(ctx context.Context, db DBTX) ([]domain.Level, error) {
	rows, err := db.Query(ctx, `
		SELECT `+levelColumns+`
		FROM levels
		ORDER BY difficulty, name`)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.Level
	for rows.Next() {
		var l domain.Level
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Rules,
			&l.MaxScore, &l.Difficulty, &l.Config); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func scanLevel(row pgx.Row) (*domain.Level, error) {
	var l domain.Level
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Rules,
		&l.MaxScore, &l.Difficulty, &l.Config)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan level: %w", err)
	}
	return &l, nil
}
