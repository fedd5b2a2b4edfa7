// Package testutil provides in-memory repository implementations so
// handler and directory tests run against the real wiring without a
// database.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tour0001/backend/internal/app"
	"github.com/tour0001/backend/internal/domain"
	"github.com/tour0001/backend/internal/repository"
)

// Store is an in-memory stand-in for the players, levels, and
// progress_records tables. It implements all three repository interfaces
// with the same semantics the SQL implementations rely on: unique
// external_id, server-side score arithmetic, descending-score listing.
type Store struct {
	mu       sync.Mutex
	players  []*domain.Player
	levels   map[uuid.UUID]*domain.Level
	progress []domain.ProgressRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{levels: make(map[uuid.UUID]*domain.Level)}
}

var _ repository.PlayerRepository = (*Store)(nil)
var _ repository.LevelRepository = (*Store)(nil)
var _ repository.ProgressRepository = (*Store)(nil)

func (s *Store) FindByExternalID(_ context.Context, _ repository.DBTX, externalID string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.lookup(externalID); p != nil {
		return copyPlayer(p), nil
	}
	return nil, nil
}

func (s *Store) CreateIfAbsent(_ context.Context, _ repository.DBTX, player *domain.Player) (*domain.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.lookup(player.ExternalID); existing != nil {
		return copyPlayer(existing), false, nil
	}
	stored := copyPlayer(player)
	s.players = append(s.players, stored)
	return copyPlayer(stored), true, nil
}

func (s *Store) UpdateIdentity(_ context.Context, _ repository.DBTX, externalID, displayName string, avatarURL *string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookup(externalID)
	if p == nil {
		return nil, nil
	}
	p.DisplayName = displayName
	if avatarURL != nil {
		v := *avatarURL
		p.AvatarURL = &v
	}
	p.UpdatedAt = time.Now().UTC()
	return copyPlayer(p), nil
}

func (s *Store) ApplyScoreUpdate(_ context.Context, _ repository.DBTX, externalID string, update domain.ScoreUpdate) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookup(externalID)
	if p == nil {
		return nil, nil
	}
	if update.HasIncrement() {
		p.ScoreTotal += *update.ScoreIncrement
	}
	if update.HasLevel() {
		p.CurrentLevel = *update.CurrentLevel
	}
	p.UpdatedAt = time.Now().UTC()
	return copyPlayer(p), nil
}

func (s *Store) ListByScore(_ context.Context, _ repository.DBTX, limit, skip int) ([]domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ordered := make([]*domain.Player, len(s.players))
	copy(ordered, s.players)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ScoreTotal > ordered[j].ScoreTotal
	})

	if skip >= len(ordered) {
		return nil, nil
	}
	ordered = ordered[skip:]
	if limit < len(ordered) {
		ordered = ordered[:limit]
	}
	page := make([]domain.Player, 0, len(ordered))
	for _, p := range ordered {
		page = append(page, *copyPlayer(p))
	}
	return page, nil
}

func (s *Store) Count(_ context.Context, _ repository.DBTX) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.players)), nil
}

// SeedPlayer stores a player directly, bypassing the directory.
func (s *Store) SeedPlayer(p domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append(s.players, copyPlayer(&p))
}

// AddLevel seeds a level into the catalogue.
func (s *Store) AddLevel(level domain.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := level
	s.levels[level.ID] = &l
}

func (s *Store) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[id]
	if !ok {
		return nil, nil
	}
	lc := *l
	return &lc, nil
}

func (s *Store) List(_ context.Context, _ repository.DBTX) ([]domain.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	levels := make([]domain.Level, 0, len(s.levels))
	for _, l := range s.levels {
		levels = append(levels, *l)
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Difficulty != levels[j].Difficulty {
			return levels[i].Difficulty < levels[j].Difficulty
		}
		return levels[i].Name < levels[j].Name
	})
	return levels, nil
}

func (s *Store) Insert(_ context.Context, _ repository.DBTX, record *domain.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, *record)
	return nil
}

func (s *Store) ListByPlayer(_ context.Context, _ repository.DBTX, playerID uuid.UUID) ([]domain.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []domain.ProgressRecord
	for _, rec := range s.progress {
		if rec.PlayerID == playerID {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PlayedAt.After(records[j].PlayedAt)
	})
	return records, nil
}

func (s *Store) TopByLevel(_ context.Context, _ repository.DBTX, levelID uuid.UUID, limit int) ([]domain.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []domain.ProgressRecord
	for _, rec := range s.progress {
		if rec.LevelID == levelID {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

func (s *Store) lookup(externalID string) *domain.Player {
	for _, p := range s.players {
		if p.ExternalID == externalID {
			return p
		}
	}
	return nil
}

func copyPlayer(p *domain.Player) *domain.Player {
	c := *p
	if p.AvatarURL != nil {
		v := *p.AvatarURL
		c.AvatarURL = &v
	}
	if p.RefreshToken != nil {
		v := *p.RefreshToken
		c.RefreshToken = &v
	}
	return &c
}

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RouterDeps builds app.RouterDeps over the store with rate limits high
// enough to stay out of the way; tests that exercise limiting lower them.
func RouterDeps(store *Store) app.RouterDeps {
	return app.RouterDeps{
		DB:       nil,
		Players:  store,
		Levels:   store,
		Progress: store,
		Ping:     func(context.Context) error { return nil },
		Logger:   Logger(),

		AllowedOrigins: []string{"*"},

		RateLimitWindow:       time.Minute,
		RateLimitMax:          100000,
		StrictRateLimitWindow: time.Minute,
		StrictRateLimitMax:    100000,

		StartedAt: time.Now(),
	}
}
