package services_test

import (
	"context"
	"testing"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")

	_, err := e.follows.Follow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrSelfFollow)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = e.follows.Follow(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	_, err = e.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = e.follows.Follow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrDuplicateFollow)
	assert.Equal(t, int64(1), e.count(t, &models.Follow{}, "follower_id = ? AND following_id = ?", alice.ID, bob.ID))

	following, err := e.follows.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := e.follows.Followers(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	require.NoError(t, e.follows.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, e.follows.Unfollow(ctx, alice.ID, bob.ID))
	n, err := e.counters.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFollowListsFollowProfileVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, eve := e.user(t, "alice"), e.user(t, "bob"), e.user(t, "eve")

	_, err := e.identity.UpdateProfile(ctx, alice.ID, models.UpdateUserRequest{IsProfilePrivate: boolPtr(true)})
	require.NoError(t, err)
	_, err = e.follows.Follow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	_, err = e.follows.Followers(ctx, eve.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = e.follows.Following(ctx, eve.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	own, err := e.follows.Followers(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, bob.ID, own[0].ID)

	following, err := e.follows.Following(ctx, eve.ID, bob.ID)
	require.NoError(t, err, "public profiles expose their connections")
	require.Len(t, following, 1)
	assert.Equal(t, alice.ID, following[0].ID)

	_, err = e.follows.Followers(ctx, eve.ID, 999)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
