package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleReviewLikeLeavesNoResidue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 0)
	review, err := env.review.CreateReview(ctx, alice.ID, &dto.ReviewCreateDTO{ItemID: dune.ID, ReviewText: "great"})
	require.NoError(t, err)

	res, err := env.action.ToggleReviewLike(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)
	assert.Equal(t, int64(1), env.countActivities(t, model.ActivityLikeReview))

	liked, err := env.action.IsReviewLikedBy(ctx, review.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked.IsLiked)

	likes, err := env.action.GetReviewLikes(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 1, likes.Total)
	assert.Equal(t, "bob", likes.Users[0].Username)

	res, err = env.action.ToggleReviewLike(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Zero(t, res.LikeCount)
	assert.Zero(t, env.countActivities(t, model.ActivityLikeReview))

	_, err = env.action.ToggleReviewLike(ctx, bob.ID, 999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestToggleItemLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 0)

	res, err := env.action.ToggleItemLike(ctx, alice.ID, dune.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), env.countActivities(t, model.ActivityLikeItem))

	likes, err := env.action.GetItemLikes(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes.Total)

	res, err = env.action.ToggleItemLike(ctx, alice.ID, dune.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Zero(t, env.countActivities(t, model.ActivityLikeItem))

	_, err = env.action.ToggleItemLike(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 0)
	review, err := env.review.CreateReview(ctx, alice.ID, &dto.ReviewCreateDTO{ItemID: dune.ID, ReviewText: "great"})
	require.NoError(t, err)

	comment, err := env.action.CreateComment(ctx, bob.ID, review.ID, &dto.ReviewCommentCreateDTO{CommentText: "<i>so</i> true"})
	require.NoError(t, err)
	assert.Equal(t, "so true", comment.CommentText)
	assert.Equal(t, "bob", comment.Username)
	assert.Equal(t, int64(1), env.countActivities(t, model.ActivityCommentReview))

	_, err = env.action.CreateComment(ctx, bob.ID, review.ID, &dto.ReviewCommentCreateDTO{CommentText: "  "})
	assert.ErrorIs(t, err, ErrParamInvalid)

	comments, err := env.action.GetComments(ctx, review.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	assert.ErrorIs(t, env.action.DeleteComment(ctx, alice.ID, comment.ID), UnauthorizedError)
	require.NoError(t, env.action.DeleteComment(ctx, bob.ID, comment.ID))
	assert.Zero(t, env.countActivities(t, model.ActivityCommentReview))
	assert.ErrorIs(t, env.action.DeleteComment(ctx, bob.ID, comment.ID), ErrCommentNotFound)
}
