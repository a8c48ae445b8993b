package service

import (
	"ReaView/internal/model"
	"ReaView/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRating(t *testing.T) {
	tests := []struct {
		name         string
		external     float64
		reviews      *repository.ScoreStats
		ratings      *repository.ScoreStats
		wantUser     float64
		wantCombined float64
		wantCount    int64
	}{
		{name: "no data", wantUser: 0, wantCombined: 0},
		{name: "external only", external: 8.0, wantCombined: 8.0},
		{name: "users only", reviews: &repository.ScoreStats{Avg: 7, Cnt: 2}, ratings: &repository.ScoreStats{Avg: 9, Cnt: 2}, wantUser: 8.0, wantCombined: 8.0, wantCount: 4},
		{name: "mean of both", external: 7.0, reviews: &repository.ScoreStats{Avg: 9, Cnt: 1}, wantUser: 9.0, wantCombined: 8.0, wantCount: 1},
		{name: "weighted by count", ratings: &repository.ScoreStats{Avg: 10, Cnt: 3}, reviews: &repository.ScoreStats{Avg: 6, Cnt: 1}, wantUser: 9.0, wantCombined: 9.0, wantCount: 4},
		{name: "external clamped", external: 12.4, wantCombined: 10.0},
		{name: "negative external ignored", external: -3, wantCombined: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ComputeRating(tt.external, tt.reviews, tt.ratings)
			assert.InDelta(t, tt.wantUser, r.UserRating, 1e-9)
			assert.InDelta(t, tt.wantCombined, r.CombinedRating, 1e-9)
			assert.Equal(t, tt.wantCount, r.ReviewCount)
			assert.GreaterOrEqual(t, r.CombinedRating, 0.0)
			assert.LessOrEqual(t, r.CombinedRating, 10.0)

			// 相同输入结果一致
			assert.Equal(t, r, ComputeRating(tt.external, tt.reviews, tt.ratings))
		})
	}
}

func TestComputeRatingRoundsToOneDecimal(t *testing.T) {
	r := ComputeRating(0, &repository.ScoreStats{Avg: 7, Cnt: 1}, &repository.ScoreStats{Avg: 8, Cnt: 2})
	assert.InDelta(t, 7.7, r.UserRating, 1e-9)
}

func TestPopularityScore(t *testing.T) {
	quiet := ComputeRating(9.0, nil, nil)
	busy := ComputeRating(0, &repository.ScoreStats{Avg: 5, Cnt: 3}, nil)
	assert.InDelta(t, 9.0, PopularityScore(quiet), 1e-9)
	assert.InDelta(t, 11.0, PopularityScore(busy), 1e-9)
}

func TestRateItemUpsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 8.0)

	res, err := env.rating.RateItem(ctx, alice.ID, dune.ID, 6)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.InDelta(t, 6.0, res.Rating.UserRating, 1e-9)
	assert.InDelta(t, 7.0, res.Rating.CombinedRating, 1e-9)
	assert.Equal(t, int64(1), env.countActivities(t, model.ActivityRating))

	again, err := env.rating.RateItem(ctx, alice.ID, dune.ID, 10)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.RatingID, again.RatingID)
	assert.InDelta(t, 10.0, again.Rating.UserRating, 1e-9)
	assert.Equal(t, int64(1), again.Rating.ReviewCount)
	assert.Equal(t, int64(1), env.countActivities(t, model.ActivityRating))
}

func TestRateItemValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 0)

	_, err := env.rating.RateItem(ctx, alice.ID, dune.ID, 0)
	assert.ErrorIs(t, err, ErrRatingInvalid)
	_, err = env.rating.RateItem(ctx, alice.ID, dune.ID, 11)
	assert.ErrorIs(t, err, ErrRatingInvalid)
	_, err = env.rating.RateItem(ctx, alice.ID, 999, 5)
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = env.rating.RateBySourceID(ctx, alice.ID, "", 5)
	assert.ErrorIs(t, err, ErrParamInvalid)
	assert.ErrorIs(t, env.rating.DeleteRating(ctx, alice.ID, dune.ID), ErrRatingNotFound)
}

func TestRateBySourceID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	dune := &model.Item{Title: "Dune", ItemType: model.ItemTypeMovie, ExternalAPIID: "438631", ExternalAPISource: model.SourceTMDB}
	require.NoError(t, env.itemRepo.CreateItem(ctx, dune))

	res, err := env.rating.RateBySourceID(ctx, alice.ID, "438631", 9)
	require.NoError(t, err)
	assert.Equal(t, dune.ID, res.ItemID)

	_, err = env.rating.RateBySourceID(ctx, alice.ID, "missing", 9)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteRatingRecyclesID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 0)

	first, err := env.rating.RateItem(ctx, alice.ID, dune.ID, 8)
	require.NoError(t, err)
	second, err := env.rating.RateItem(ctx, bob.ID, dune.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, first.RatingID+1, second.RatingID)

	require.NoError(t, env.rating.DeleteRating(ctx, alice.ID, dune.ID))
	assert.Equal(t, int64(1), env.countActivities(t, model.ActivityRating))

	rating, err := env.rating.CalculateRating(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rating.ReviewCount)
	assert.InDelta(t, 6.0, rating.UserRating, 1e-9)

	third, err := env.rating.RateItem(ctx, carol.ID, dune.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, first.RatingID, third.RatingID)
}

func TestRankItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := []*model.User{env.seedUser(t, "u1"), env.seedUser(t, "u2"), env.seedUser(t, "u3")}

	acclaimed := env.seedItem(t, "Acclaimed", model.ItemTypeMovie, 9.5)
	busy := env.seedItem(t, "Busy", model.ItemTypeMovie, 0)
	env.seedItem(t, "Quiet", model.ItemTypeMovie, 0)
	book := env.seedItem(t, "Book", model.ItemTypeBook, 9.9)

	for _, u := range users {
		_, err := env.rating.RateItem(ctx, u.ID, busy.ID, 5)
		require.NoError(t, err)
	}

	top, err := env.rating.RankItems(ctx, model.ItemTypeMovie, RankTopRated, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, acclaimed.ID, top[0].Item.ID)
	assert.Equal(t, busy.ID, top[1].Item.ID)

	popular, err := env.rating.RankItems(ctx, "", RankPopular, 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	// 3 条评分：3*2 + 5.0 = 11 高于外部 9.9
	assert.Equal(t, busy.ID, popular[0].Item.ID)
	assert.Equal(t, book.ID, popular[1].Item.ID)
}
