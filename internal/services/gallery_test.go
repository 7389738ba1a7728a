package services_test

import (
	"context"
	"testing"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAlbumOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	c := e.circle(t, alice, false)

	personal, err := e.gallery.CreateAlbum(ctx, bob.ID, models.CreateAlbumRequest{Title: "mine"})
	require.NoError(t, err)
	owner, err := personal.Owner()
	require.NoError(t, err)
	assert.Equal(t, models.PersonalOwner{UserID: bob.ID}, owner)

	_, err = e.gallery.CreateAlbum(ctx, bob.ID, models.CreateAlbumRequest{Title: "theirs", CircleID: &c.ID})
	assert.ErrorIs(t, err, services.ErrForbidden)

	e.join(t, bob, c)
	shared, err := e.gallery.CreateAlbum(ctx, bob.ID, models.CreateAlbumRequest{Title: "ours", CircleID: &c.ID})
	require.NoError(t, err)
	owner, err = shared.Owner()
	require.NoError(t, err)
	assert.Equal(t, models.SharedOwner{UserID: bob.ID, CircleID: c.ID}, owner)

	_, err = e.gallery.CreateAlbum(ctx, bob.ID, models.CreateAlbumRequest{Title: "circle", CircleID: &c.ID, CircleOwned: true})
	assert.ErrorIs(t, err, services.ErrForbidden)

	scoped, err := e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "circle", CircleID: &c.ID, CircleOwned: true})
	require.NoError(t, err)
	owner, err = scoped.Owner()
	require.NoError(t, err)
	assert.Equal(t, models.CircleOwner{CircleID: c.ID}, owner)

	_, err = e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "nowhere", CircleOwned: true})
	assert.ErrorIs(t, err, services.ErrValidation)

	// Any member may add to a circle-owned album.
	_, err = e.gallery.AddPhoto(ctx, bob.ID, scoped.ID, models.AddPhotoRequest{URL: "https://example.com/1.jpg"})
	require.NoError(t, err)
	_, err = e.gallery.AddPhoto(ctx, alice.ID, personal.ID, models.AddPhotoRequest{URL: "https://example.com/2.jpg"})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestAlbumPrivacyDefaultsFromSettings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	_, err := e.identity.UpdateSettings(ctx, alice.ID, models.UpdateSettingsRequest{DefaultAlbumPrivacy: boolPtr(true)})
	require.NoError(t, err)

	album, err := e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "default"})
	require.NoError(t, err)
	assert.True(t, album.IsPrivate)

	album, err = e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "explicit", IsPrivate: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, album.IsPrivate)
}

// A public album inside a private circle is still hidden from non-members.
func TestAlbumVisibilityIsConjunction(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, carol := e.user(t, "alice"), e.user(t, "bob"), e.user(t, "carol")
	c := e.circle(t, alice, true)
	e.join(t, carol, c)

	album, err := e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "trip", CircleID: &c.ID, IsPrivate: boolPtr(false)})
	require.NoError(t, err)

	_, err = e.gallery.GetAlbum(ctx, bob.ID, album.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = e.gallery.GetAlbum(ctx, 0, album.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = e.gallery.LikeAlbum(ctx, bob.ID, album.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	detail, err := e.gallery.GetAlbum(ctx, carol.ID, album.ID)
	require.NoError(t, err)
	assert.Equal(t, album.ID, detail.ID)

	_, err = e.gallery.CircleAlbums(ctx, bob.ID, c.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestPrivateAlbumInPublicCircle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, carol := e.user(t, "alice"), e.user(t, "bob"), e.user(t, "carol")
	c := e.circle(t, alice, false)
	e.join(t, carol, c)

	hidden, err := e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "hidden", CircleID: &c.ID, IsPrivate: boolPtr(true)})
	require.NoError(t, err)
	open, err := e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "open", CircleID: &c.ID, IsPrivate: boolPtr(false)})
	require.NoError(t, err)

	albums, err := e.gallery.CircleAlbums(ctx, bob.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, open.ID, albums[0].ID)

	albums, err = e.gallery.CircleAlbums(ctx, carol.ID, c.ID)
	require.NoError(t, err)
	assert.Len(t, albums, 2)

	_, err = e.gallery.GetAlbum(ctx, bob.ID, hidden.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	mine, err := e.gallery.UserAlbums(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, open.ID, mine[0].ID)
}

func TestAlbumEngagement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	album, err := e.gallery.CreateAlbum(ctx, alice.ID, models.CreateAlbumRequest{Title: "public", IsPrivate: boolPtr(false)})
	require.NoError(t, err)

	_, err = e.gallery.LikeAlbum(ctx, bob.ID, album.ID)
	require.NoError(t, err)
	_, err = e.gallery.LikeAlbum(ctx, bob.ID, album.ID)
	assert.ErrorIs(t, err, services.ErrDuplicateLike)

	comment, err := e.gallery.CommentOnAlbum(ctx, bob.ID, album.ID, "lovely")
	require.NoError(t, err)
	photo, err := e.gallery.AddPhoto(ctx, alice.ID, album.ID, models.AddPhotoRequest{URL: "https://example.com/3.jpg"})
	require.NoError(t, err)

	detail, err := e.gallery.GetAlbum(ctx, bob.ID, album.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.LikesCount)
	assert.Equal(t, int64(1), detail.CommentsCount)
	assert.Equal(t, int64(1), detail.PhotosCount)
	assert.True(t, detail.IsLiked)

	assert.ErrorIs(t, e.gallery.DeletePhoto(ctx, bob.ID, photo.ID), services.ErrForbidden)
	require.NoError(t, e.gallery.DeleteAlbumComment(ctx, alice.ID, comment.ID), "album owner moderates comments")
	require.NoError(t, e.gallery.UnlikeAlbum(ctx, bob.ID, album.ID))
	require.NoError(t, e.gallery.UnlikeAlbum(ctx, bob.ID, album.ID))

	assert.ErrorIs(t, e.gallery.DeleteAlbum(ctx, bob.ID, album.ID), services.ErrForbidden)
	require.NoError(t, e.gallery.DeleteAlbum(ctx, alice.ID, album.ID))
	assert.Zero(t, e.count(t, &models.Photo{}, "album_id = ?", album.ID))

	n := e.count(t, &models.Notification{}, "recipient_id = ?", alice.ID)
	assert.Equal(t, int64(2), n, "one album like and one album comment")
}
