package service

import (
	"ReaView/internal/model"
	"ReaView/internal/pkg/consts"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	assert.ErrorIs(t, env.follow.CreateUserFollow(ctx, alice.ID, alice.ID), ErrUserFollowSelf)
	assert.ErrorIs(t, env.follow.CreateUserFollow(ctx, alice.ID, 999), ErrUserNotFound)

	require.NoError(t, env.follow.CreateUserFollow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, env.follow.CreateUserFollow(ctx, alice.ID, bob.ID), ErrUserFollowExist)
	assert.Equal(t, int64(1), env.countActivities(t, model.ActivityFollow))

	following, err := env.follow.GetSomeoneIsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := env.follow.GetUserFollowers(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	stats, err := env.follow.GetFollowStats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FollowerCount)
	assert.Zero(t, stats.FollowingCount)

	require.NoError(t, env.follow.DeleteUserFollow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, env.follow.DeleteUserFollow(ctx, alice.ID, bob.ID), ErrUserFollowNotFound)
	assert.Zero(t, env.countActivities(t, model.ActivityFollow))
}

func TestFollowStatsCacheInvalidated(t *testing.T) {
	mr := useMiniRedis(t)
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	stats, err := env.follow.GetFollowStats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.FollowerCount)
	key := consts.UserFollowerCountKey + strconv.FormatUint(bob.ID, 10)
	assert.True(t, mr.Exists(key))

	require.NoError(t, env.follow.CreateUserFollow(ctx, alice.ID, bob.ID))
	assert.False(t, mr.Exists(key))

	stats, err = env.follow.GetFollowStats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FollowerCount)
}
