package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tour0001/backend/internal/directory"
	"github.com/tour0001/backend/internal/domain"
	"github.com/tour0001/backend/internal/repository"
	"github.com/tour0001/backend/internal/testutil"
)

func newDirectory(store *testutil.Store) *directory.Directory {
	return directory.New(nil, store, store, store, testutil.Logger())
}

func TestLookupOrCreate_CreatesWithDefaults(t *testing.T) {
	dir := newDirectory(testutil.NewStore())

	player, created, err := dir.LookupOrCreate(context.Background(), directory.IdentityInput{
		ExternalID:  "t2_abc123",
		DisplayName: "PlayerOne",
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(0), player.ScoreTotal)
	assert.Equal(t, int64(1), player.CurrentLevel)
	assert.Equal(t, player.CreatedAt, player.UpdatedAt)
}

func TestLookupOrCreate_SecondCallIsExisting(t *testing.T) {
	dir := newDirectory(testutil.NewStore())
	in := directory.IdentityInput{ExternalID: "t2_abc123", DisplayName: "PlayerOne"}

	first, created, err := dir.LookupOrCreate(context.Background(), in)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := dir.LookupOrCreate(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

// racingPlayers simulates the interleaving where another request creates
// the player between initial lookup and insert: the first FindByExternalID
// reports absent, then the insert hits the unique index.
type racingPlayers struct {
	repository.PlayerRepository
	missedLookups int
}

func (r *racingPlayers) FindByExternalID(ctx context.Context, db repository.DBTX, externalID string) (*domain.Player, error) {
	if r.missedLookups > 0 {
		r.missedLookups--
		return nil, nil
	}
	return r.PlayerRepository.FindByExternalID(ctx, db, externalID)
}

func TestLookupOrCreate_LostRaceTreatedAsExisting(t *testing.T) {
	store := testutil.NewStore()
	winner := directory.New(nil, store, store, store, testutil.Logger())
	_, created, err := winner.LookupOrCreate(context.Background(), directory.IdentityInput{
		ExternalID:  "t2_abc123",
		DisplayName: "PlayerOne",
	})
	require.NoError(t, err)
	require.True(t, created)

	racing := &racingPlayers{PlayerRepository: store, missedLookups: 1}
	loser := directory.New(nil, racing, store, store, testutil.Logger())

	player, created, err := loser.LookupOrCreate(context.Background(), directory.IdentityInput{
		ExternalID:  "t2_abc123",
		DisplayName: "PlayerOne",
	})

	require.NoError(t, err)
	assert.False(t, created, "losing the race must surface as existing")
	assert.Equal(t, "t2_abc123", player.ExternalID)
}

func TestAdjustScore_EmptyUpdateDoesNotWrite(t *testing.T) {
	store := testutil.NewStore()
	dir := newDirectory(store)
	created, _, err := dir.LookupOrCreate(context.Background(), directory.IdentityInput{
		ExternalID:  "t2_abc123",
		DisplayName: "PlayerOne",
	})
	require.NoError(t, err)

	player, err := dir.AdjustScore(context.Background(), "t2_abc123", domain.ScoreUpdate{})

	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, player.UpdatedAt)
}

func TestAdjustScore_NotFound(t *testing.T) {
	dir := newDirectory(testutil.NewStore())

	inc := int64(5)
	_, err := dir.AdjustScore(context.Background(), "t2_missing", domain.ScoreUpdate{ScoreIncrement: &inc})

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestLeaderboard_RanksAndHasMore(t *testing.T) {
	store := testutil.NewStore()
	dir := newDirectory(store)

	for _, p := range []struct {
		id    string
		score int64
	}{
		{"t2_a", 50}, {"t2_b", 30}, {"t2_c", 10},
	} {
		_, _, err := dir.LookupOrCreate(context.Background(), directory.IdentityInput{
			ExternalID:  p.id,
			DisplayName: p.id,
		})
		require.NoError(t, err)
		score := p.score
		_, err = dir.AdjustScore(context.Background(), p.id, domain.ScoreUpdate{ScoreIncrement: &score})
		require.NoError(t, err)
	}

	page, err := dir.Leaderboard(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, 3, page.Entries[0].Rank)
	assert.Equal(t, int64(10), page.Entries[0].ScoreTotal)
	assert.Equal(t, int64(3), page.Total)
	assert.False(t, page.HasMore)
}
