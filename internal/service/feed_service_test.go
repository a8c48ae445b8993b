package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedEmptyWithoutFollowees(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")

	entries, err := env.feed.GetFeed(context.Background(), alice.ID, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestFeedShowsFolloweeReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 8.0)
	env.provider.posters["Dune"] = "https://img.example/dune.jpg"

	require.NoError(t, env.follow.CreateUserFollow(ctx, alice.ID, bob.ID))
	review, err := env.review.CreateReview(ctx, bob.ID, &dto.ReviewCreateDTO{ItemID: dune.ID, ReviewText: "A masterpiece"})
	require.NoError(t, err)
	// 非关注对象的动态不出现
	_, err = env.rating.RateItem(ctx, carol.ID, dune.ID, 3)
	require.NoError(t, err)

	entries, err := env.feed.GetFeed(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, model.ActivityReview, e.ActivityType)
	assert.Equal(t, bob.ID, e.UserID)
	assert.Equal(t, "bob", e.Username)
	assert.Equal(t, dune.ID, e.ItemID)
	assert.Equal(t, "Dune", e.Title)
	assert.Equal(t, review.ID, e.ReviewID)
	assert.Equal(t, "A masterpiece", e.ReviewText)
	assert.Equal(t, "https://img.example/dune.jpg", e.PosterURL)
	assert.Zero(t, e.LikeCount)
	assert.False(t, e.IsLikedByUser)

	// 海报已写回
	stored, err := env.itemRepo.GetItemById(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/dune.jpg", stored.PosterURL)

	_, err = env.action.ToggleReviewLike(ctx, alice.ID, review.ID)
	require.NoError(t, err)
	_, err = env.action.CreateComment(ctx, carol.ID, review.ID, &dto.ReviewCommentCreateDTO{CommentText: "hm"})
	require.NoError(t, err)

	entries, err = env.feed.GetFeed(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].LikeCount)
	assert.Equal(t, int64(1), entries[0].CommentCount)
	assert.True(t, entries[0].IsLikedByUser)
	assert.Equal(t, 1, int(env.provider.calls.Load()))
}

func TestFeedEntryKinds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 0)
	arrival := env.seedItem(t, "Arrival", model.ItemTypeMovie, 0)

	require.NoError(t, env.follow.CreateUserFollow(ctx, alice.ID, bob.ID))
	carolReview, err := env.review.CreateReview(ctx, carol.ID, &dto.ReviewCreateDTO{ItemID: arrival.ID, ReviewText: "Heptapods"})
	require.NoError(t, err)

	_, err = env.rating.RateItem(ctx, bob.ID, dune.ID, 9)
	require.NoError(t, err)
	_, err = env.action.ToggleItemLike(ctx, bob.ID, dune.ID)
	require.NoError(t, err)
	_, err = env.action.ToggleReviewLike(ctx, bob.ID, carolReview.ID)
	require.NoError(t, err)
	_, err = env.action.CreateComment(ctx, bob.ID, carolReview.ID, &dto.ReviewCommentCreateDTO{CommentText: "Loved it"})
	require.NoError(t, err)
	// follow 不进入关注流
	require.NoError(t, env.follow.CreateUserFollow(ctx, bob.ID, carol.ID))

	entries, err := env.feed.GetFeed(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byType := make(map[string]*dto.FeedEntryDTO)
	for _, e := range entries {
		byType[e.ActivityType] = e
	}
	require.Contains(t, byType, model.ActivityRating)
	require.NotNil(t, byType[model.ActivityRating].RatingScore)
	assert.Equal(t, 9, *byType[model.ActivityRating].RatingScore)

	likeItem := byType[model.ActivityLikeItem]
	require.NotNil(t, likeItem)
	assert.Equal(t, int64(1), likeItem.LikeCount)
	assert.False(t, likeItem.IsLikedByUser)

	likeReview := byType[model.ActivityLikeReview]
	require.NotNil(t, likeReview)
	assert.Equal(t, arrival.ID, likeReview.ItemID)
	assert.Equal(t, "carol", likeReview.ReviewAuthorUsername)
	assert.Equal(t, int64(1), likeReview.LikeCount)
	assert.Equal(t, int64(1), likeReview.CommentCount)

	comment := byType[model.ActivityCommentReview]
	require.NotNil(t, comment)
	assert.Equal(t, "Loved it", comment.CommentText)
	assert.Equal(t, "Arrival", comment.Title)

	// 分页
	page, err := env.feed.GetFeed(ctx, alice.ID, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestUserActivitiesRespectListPrivacy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	dune := env.seedItem(t, "Dune", model.ItemTypeBook, 0)

	private := model.PrivacyPrivate
	secret, err := env.lists.CreateList(ctx, bob.ID, &dto.CustomListCreateDTO{Name: "Secret", PrivacyLevel: &private})
	require.NoError(t, err)
	open, err := env.lists.CreateList(ctx, bob.ID, &dto.CustomListCreateDTO{Name: "Open"})
	require.NoError(t, err)
	_, err = env.lists.AddItem(ctx, bob.ID, secret.ID, &dto.ListItemAddDTO{ItemID: &dune.ID})
	require.NoError(t, err)
	_, err = env.lists.AddItem(ctx, bob.ID, open.ID, &dto.ListItemAddDTO{ItemID: &dune.ID})
	require.NoError(t, err)
	require.NoError(t, env.follow.CreateUserFollow(ctx, bob.ID, alice.ID))

	mine, err := env.feed.GetUserActivities(ctx, bob.ID, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	theirs, err := env.feed.GetUserActivities(ctx, alice.ID, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, theirs, 2)
	for _, e := range theirs {
		if e.ActivityType == model.ActivityListAdd {
			assert.Equal(t, "Open", e.ListName)
		}
		if e.ActivityType == model.ActivityFollow {
			assert.Equal(t, "alice", e.RelatedUsername)
		}
	}

	_, err = env.feed.GetUserActivities(ctx, alice.ID, 999, 0, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserActivitiesPagesSkipHiddenListAdds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	dune := env.seedItem(t, "Dune", model.ItemTypeBook, 0)

	review, err := env.review.CreateReview(ctx, bob.ID, &dto.ReviewCreateDTO{ItemID: dune.ID, ReviewText: "Spice"})
	require.NoError(t, err)

	private := model.PrivacyPrivate
	secret, err := env.lists.CreateList(ctx, bob.ID, &dto.CustomListCreateDTO{Name: "Secret", PrivacyLevel: &private})
	require.NoError(t, err)
	for _, title := range []string{"Arrival", "Solaris", "Contact"} {
		it := env.seedItem(t, title, model.ItemTypeMovie, 0)
		_, err = env.lists.AddItem(ctx, bob.ID, secret.ID, &dto.ListItemAddDTO{ItemID: &it.ID})
		require.NoError(t, err)
	}

	// 较新的三条 list_add 对 alice 不可见，第一页仍应拿到评论
	page, err := env.feed.GetUserActivities(ctx, alice.ID, bob.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, model.ActivityReview, page[0].ActivityType)
	assert.Equal(t, review.ID, page[0].ReviewID)

	rest, err := env.feed.GetUserActivities(ctx, alice.ID, bob.ID, 2, 2)
	require.NoError(t, err)
	assert.Empty(t, rest)

	guest, err := env.feed.GetUserActivities(ctx, 0, bob.ID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, guest, 1)

	own, err := env.feed.GetUserActivities(ctx, bob.ID, bob.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, model.ActivityListAdd, own[0].ActivityType)
}

func TestUserActivitiesFollowersOnlyList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")
	dune := env.seedItem(t, "Dune", model.ItemTypeBook, 0)

	followers := model.PrivacyFollowers
	shelf, err := env.lists.CreateList(ctx, bob.ID, &dto.CustomListCreateDTO{Name: "Shelf", PrivacyLevel: &followers})
	require.NoError(t, err)
	_, err = env.lists.AddItem(ctx, bob.ID, shelf.ID, &dto.ListItemAddDTO{ItemID: &dune.ID})
	require.NoError(t, err)
	require.NoError(t, env.follow.CreateUserFollow(ctx, alice.ID, bob.ID))

	seen, err := env.feed.GetUserActivities(ctx, alice.ID, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "Shelf", seen[0].ListName)

	hidden, err := env.feed.GetUserActivities(ctx, carol.ID, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, hidden)
}

// B 评分 8 的评论，由未关注 B 的 C 点赞；A 关注 B，看到计数但自己未点赞
func TestFeedReviewLikedByNonFollower(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seedUser(t, "a")
	b := env.seedUser(t, "b")
	c := env.seedUser(t, "c")
	dune := env.seedItem(t, "Dune", model.ItemTypeMovie, 0)

	require.NoError(t, env.follow.CreateUserFollow(ctx, a.ID, b.ID))
	score := 8
	review, err := env.review.CreateReview(ctx, b.ID, &dto.ReviewCreateDTO{ItemID: dune.ID, ReviewText: "Great", Rating: &score})
	require.NoError(t, err)
	_, err = env.action.ToggleReviewLike(ctx, c.ID, review.ID)
	require.NoError(t, err)

	entries, err := env.feed.GetFeed(ctx, a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, model.ActivityReview, e.ActivityType)
	require.NotNil(t, e.ReviewRating)
	assert.Equal(t, 8, *e.ReviewRating)
	assert.Equal(t, int64(1), e.LikeCount)
	assert.False(t, e.IsLikedByUser)

	liked, err := env.action.IsReviewLikedBy(ctx, review.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, liked.IsLiked)
}
