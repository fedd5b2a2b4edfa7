package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tour0001/backend/internal/domain"
)

const playerColumns = `id, external_id, display_name, avatar_url, score_total, current_level, created_at, updated_at`

type playerRepo struct{}

// NewPlayerRepository returns a pgx-backed PlayerRepository.
func NewPlayerRepository() PlayerRepository {
	return &playerRepo{}
}

func (r *playerRepo) FindByExternalID(ctx context.Context, db DBTX, externalID string) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE external_id = $1`, externalID)
	return scanPlayer(row)
}

func (r *playerRepo) CreateIfAbsent(ctx context.Context, db DBTX, player *domain.Player) (*domain.Player, bool, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO players (id, external_id, display_name, avatar_url, score_total, current_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING `+playerColumns,
		player.ID,
		player.ExternalID,
		player.DisplayName,
		player.AvatarURL,
		player.ScoreTotal,
		player.CurrentLevel,
		player.CreatedAt,
		player.UpdatedAt,
	)
	inserted, err := scanPlayer(row)
	if err != nil {
		return nil, false, fmt.Errorf("insert player: %w", err)
	}
	if inserted != nil {
		return inserted, true, nil
	}

	// Creation lost the race: the unique index swallowed the insert, so
	// reload the winner and treat the player as existing.
	existing, err := r.FindByExternalID(ctx, db, player.ExternalID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("player %s vanished after conflicting insert", player.ExternalID)
	}
	return existing, false, nil
}

func (r *playerRepo) UpdateIdentity(ctx context.Context, db DBTX, externalID, displayName string, avatarURL *string) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		UPDATE players
		SET display_name = $2,
		    avatar_url = COALESCE($3, avatar_url),
		    updated_at = now()
		WHERE external_id = $1
		RETURNING `+playerColumns,
		externalID, displayName, avatarURL)
	return scanPlayer(row)
}

// ApplyScoreUpdate uses server-side arithmetic with dynamic SET clauses so
// that concurrent increments serialize inside the database instead of
// losing updates to a read-modify-write cycle.
func (r *playerRepo) ApplyScoreUpdate(ctx context.Context, db DBTX, externalID string, update domain.ScoreUpdate) (*domain.Player, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{externalID}
	argIdx := 2

	if update.HasIncrement() {
		setClauses = append(setClauses, fmt.Sprintf("score_total = score_total + $%d", argIdx))
		args = append(args, *update.ScoreIncrement)
		argIdx++
	}
	if update.HasLevel() {
		setClauses = append(setClauses, fmt.Sprintf("current_level = $%d", argIdx))
		args = append(args, *update.CurrentLevel)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE players SET %s
		WHERE external_id = $1
		RETURNING %s`,
		strings.Join(setClauses, ", "), playerColumns)

	row := db.QueryRow(ctx, query, args...)
	return scanPlayer(row)
}

func (r *playerRepo) ListByScore(ctx context.Context, db DBTX, limit, skip int) ([]domain.Player, error) {
	rows, err := db.Query(ctx, `
		SELECT `+playerColumns+`
		FROM players
		ORDER BY score_total DESC
		LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.ExternalID, &p.DisplayName, &p.AvatarURL,
			&p.ScoreTotal, &p.CurrentLevel, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *playerRepo) Count(ctx context.Context, db DBTX) (int64, error) {
	var total int64
	if err := db.QueryRow(ctx, `SELECT count(*) FROM players`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return total, nil
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.ExternalID, &p.DisplayName, &p.AvatarURL,
		&p.ScoreTotal, &p.CurrentLevel, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan player: %w", err)
	}
	return &p, nil
}
