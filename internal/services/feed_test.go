package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostRequiresMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	c := e.circle(t, alice, false)

	_, err := e.feed.CreatePost(ctx, bob.ID, c.ID, models.CreatePostRequest{Content: "hi"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = e.feed.CreatePost(ctx, alice.ID, c.ID, models.CreatePostRequest{Content: "  "})
	assert.ErrorIs(t, err, services.ErrValidation)

	p, err := e.feed.CreatePost(ctx, alice.ID, c.ID, models.CreatePostRequest{ImageURL: "https://example.com/p.png"})
	require.NoError(t, err)
	assert.Empty(t, p.Content)
}

func TestLikeOnceAndCountMatchesRows(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	c := e.circle(t, alice, false)
	p := e.post(t, alice, c)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ok  int
		bad []error
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.feed.Like(ctx, bob.ID, p.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if !errors.Is(err, services.ErrDuplicateLike) {
				bad = append(bad, err)
			}
		}()
	}
	wg.Wait()
	assert.Empty(t, bad)
	assert.Equal(t, 1, ok)

	_, err := e.feed.Like(ctx, alice.ID, p.ID)
	require.NoError(t, err)

	stats, err := e.feed.PostStats(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, e.count(t, &models.Like{}, "post_id = ?", p.ID), stats.LikesCount)
	assert.Equal(t, int64(2), stats.LikesCount)

	require.NoError(t, e.feed.Unlike(ctx, bob.ID, p.ID))
	require.NoError(t, e.feed.Unlike(ctx, bob.ID, p.ID))
	assert.ErrorIs(t, e.feed.Unlike(ctx, bob.ID, 999), services.ErrPostNotFound)

	got, err := e.feed.GetPost(ctx, alice.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.True(t, got.IsLiked)
}

func TestLikeRespectsVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	c := e.circle(t, alice, true)
	p := e.post(t, alice, c)

	_, err := e.feed.Like(ctx, bob.ID, p.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = e.feed.AddComment(ctx, bob.ID, p.ID, "let me in")
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestComments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, carol, dana := e.user(t, "alice"), e.user(t, "bob"), e.user(t, "carol"), e.user(t, "dana")
	c := e.circle(t, alice, false)
	e.join(t, bob, c)
	e.join(t, carol, c)
	e.join(t, dana, c)
	p := e.post(t, bob, c)

	_, err := e.feed.AddComment(ctx, carol.ID, p.ID, strings.Repeat("x", 501))
	assert.ErrorIs(t, err, services.ErrValidation)

	first, err := e.feed.AddComment(ctx, carol.ID, p.ID, "first")
	require.NoError(t, err)
	second, err := e.feed.AddComment(ctx, carol.ID, p.ID, "second")
	require.NoError(t, err)
	third, err := e.feed.AddComment(ctx, carol.ID, p.ID, "third")
	require.NoError(t, err)

	assert.ErrorIs(t, e.feed.DeleteComment(ctx, dana.ID, first.ID), services.ErrForbidden)
	require.NoError(t, e.feed.DeleteComment(ctx, bob.ID, first.ID), "post author may delete")
	require.NoError(t, e.feed.DeleteComment(ctx, carol.ID, second.ID), "comment author may delete")

	_, err = e.circles.ChangeRole(ctx, alice.ID, dana.ID, c.ID, models.RoleModerator)
	require.NoError(t, err)
	require.NoError(t, e.feed.DeleteComment(ctx, dana.ID, third.ID), "moderators may delete")
	assert.Contains(t, e.modlog.actions(), models.ModerationCommentRemoved)

	comments, err := e.feed.Comments(ctx, alice.ID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.ErrorIs(t, e.feed.DeleteComment(ctx, carol.ID, first.ID), services.ErrCommentNotFound)
}

func TestDeletePostPermissions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, carol := e.user(t, "alice"), e.user(t, "bob"), e.user(t, "carol")
	c := e.circle(t, alice, false)
	e.join(t, bob, c)
	e.join(t, carol, c)
	p1 := e.post(t, bob, c)
	p2 := e.post(t, bob, c)

	_, err := e.feed.UpdatePost(ctx, carol.ID, p1.ID, models.UpdatePostRequest{})
	assert.ErrorIs(t, err, services.ErrForbidden)
	content := "edited"
	updated, err := e.feed.UpdatePost(ctx, bob.ID, p1.ID, models.UpdatePostRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.ErrorIs(t, e.feed.DeletePost(ctx, carol.ID, p1.ID), services.ErrForbidden)
	require.NoError(t, e.feed.DeletePost(ctx, bob.ID, p1.ID))
	require.NoError(t, e.feed.DeletePost(ctx, alice.ID, p2.ID), "the creator may delete any post")
	assert.Equal(t, []string{models.ModerationPostRemoved}, e.modlog.actions())
	assert.ErrorIs(t, e.feed.DeletePost(ctx, bob.ID, p2.ID), services.ErrPostNotFound)
}

func TestFeed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, carol := e.user(t, "alice"), e.user(t, "bob"), e.user(t, "carol")

	open := e.circle(t, bob, false)
	closed := e.circle(t, bob, true)
	carolsCircle := e.circle(t, carol, false)

	visible := e.post(t, bob, open)
	e.post(t, bob, closed)
	e.post(t, carol, carolsCircle)
	e.join(t, alice, open)
	own := e.post(t, alice, open)

	_, err := e.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	posts, err := e.feed.Feed(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint{visible.ID, own.ID}, ids)

	e.join(t, alice, closed)
	posts, err = e.feed.Feed(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestCirclePostsCarryPerPostStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	c := e.circle(t, alice, false)
	e.join(t, bob, c)
	busy, quiet := e.post(t, alice, c), e.post(t, alice, c)

	_, err := e.feed.Like(ctx, bob.ID, busy.ID)
	require.NoError(t, err)
	_, err = e.feed.AddComment(ctx, bob.ID, busy.ID, "nice")
	require.NoError(t, err)

	posts, err := e.feed.CirclePosts(ctx, bob.ID, c.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	byID := map[uint]models.EnrichedPost{}
	for _, p := range posts {
		byID[p.ID] = p
	}
	assert.Equal(t, models.PostStats{LikesCount: 1, CommentsCount: 1}, byID[busy.ID].PostStats)
	assert.True(t, byID[busy.ID].IsLiked)
	assert.Equal(t, models.PostStats{}, byID[quiet.ID].PostStats)
	assert.False(t, byID[quiet.ID].IsLiked)
}
