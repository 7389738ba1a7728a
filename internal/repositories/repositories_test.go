package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/repositories"
	"github.com/anonto42/circles/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	users       *repositories.PostgresUserRepository
	circles     *repositories.PostgresCircleRepository
	memberships *repositories.PostgresMembershipRepository
	follows     *repositories.PostgresFollowRepository
	posts       *repositories.PostgresPostRepository
	comments    *repositories.PostgresCommentRepository
	likes       *repositories.PostgresLikeRepository
	albums      *repositories.PostgresAlbumRepository
	engagement  *repositories.PostgresAlbumEngagementRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.OpenDB(t)
	return &fixture{
		db:          db,
		users:       repositories.NewPostgresUserRepository(db),
		circles:     repositories.NewPostgresCircleRepository(db),
		memberships: repositories.NewPostgresMembershipRepository(db),
		follows:     repositories.NewPostgresFollowRepository(db),
		posts:       repositories.NewPostgresPostRepository(db),
		comments:    repositories.NewPostgresCommentRepository(db),
		likes:       repositories.NewPostgresLikeRepository(db),
		albums:      repositories.NewPostgresAlbumRepository(db),
		engagement:  repositories.NewPostgresAlbumEngagementRepository(db),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Email: name + "@example.com", Username: name}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) circle(t *testing.T, creator *models.User, private bool) *models.Circle {
	t.Helper()
	c := &models.Circle{Name: fmt.Sprintf("circle of %s", creator.Username), CreatorID: creator.ID, IsPrivate: private}
	require.NoError(t, f.circles.CreateCircle(context.Background(), c))
	return c
}

func (f *fixture) post(t *testing.T, author *models.User, circle *models.Circle) *models.Post {
	t.Helper()
	p := &models.Post{CircleID: circle.ID, UserID: author.ID, Content: "hello"}
	require.NoError(t, f.posts.CreatePost(context.Background(), p))
	return p
}

func (f *fixture) album(t *testing.T, owner models.AlbumOwner) *models.Album {
	t.Helper()
	a := &models.Album{Title: "album"}
	a.SetOwner(owner)
	require.NoError(t, f.albums.CreateAlbum(context.Background(), a))
	return a
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestCreateUserCreatesDefaultSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	s, err := f.users.GetSettings(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFontSize, s.FontSize)
	assert.True(t, s.NotifyOnLike)
	assert.False(t, s.DefaultAlbumPrivacy)

	err = f.users.CreateUser(ctx, &models.User{Email: "alice@example.com", Username: "alice2"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	assert.Equal(t, int64(1), f.count(t, &models.UserSettings{}), "failed signup leaves no settings row")
}

func TestGetMissingRowsReturnNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	_, err = f.memberships.GetMembership(ctx, 1, 1)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	assert.ErrorIs(t, f.memberships.UpdateRole(ctx, 1, 1, models.RoleAdmin), repositories.ErrRecordNotFound)
	assert.ErrorIs(t, f.circles.DeleteCircle(ctx, 42), repositories.ErrRecordNotFound)
	assert.ErrorIs(t, f.posts.DeletePost(ctx, 42), repositories.ErrRecordNotFound)
}

func TestCreateCircleEnrollsCreatorAsAdmin(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	c := f.circle(t, alice, false)

	m, err := f.memberships.GetMembership(context.Background(), alice.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)
}

func TestUniqueEdges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	c := f.circle(t, alice, false)
	p := f.post(t, alice, c)
	a := f.album(t, models.PersonalOwner{UserID: alice.ID})

	require.NoError(t, f.memberships.CreateMembership(ctx, &models.Membership{UserID: bob.ID, CircleID: c.ID, Role: models.RoleMember}))
	err := f.memberships.CreateMembership(ctx, &models.Membership{UserID: bob.ID, CircleID: c.ID, Role: models.RoleAdmin})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	require.NoError(t, f.likes.CreateLike(ctx, &models.Like{UserID: bob.ID, PostID: p.ID}))
	assert.ErrorIs(t, f.likes.CreateLike(ctx, &models.Like{UserID: bob.ID, PostID: p.ID}), repositories.ErrDuplicateKey)

	require.NoError(t, f.follows.CreateFollow(ctx, &models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}))
	assert.ErrorIs(t, f.follows.CreateFollow(ctx, &models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}), repositories.ErrDuplicateKey)

	require.NoError(t, f.engagement.CreateAlbumLike(ctx, &models.AlbumLike{UserID: bob.ID, AlbumID: a.ID}))
	assert.ErrorIs(t, f.engagement.CreateAlbumLike(ctx, &models.AlbumLike{UserID: bob.ID, AlbumID: a.ID}), repositories.ErrDuplicateKey)

	n, err := f.likes.GetLikesCountByPostID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, f.likes.DeleteLike(ctx, p.ID, bob.ID))
	require.NoError(t, f.likes.DeleteLike(ctx, p.ID, bob.ID), "unlike is idempotent")
	require.NoError(t, f.follows.DeleteFollow(ctx, bob.ID, alice.ID))
	require.NoError(t, f.follows.DeleteFollow(ctx, bob.ID, alice.ID), "unfollow is idempotent")
}

func TestCountsByPostIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	c := f.circle(t, alice, false)
	busy, quiet := f.post(t, alice, c), f.post(t, alice, c)

	require.NoError(t, f.likes.CreateLike(ctx, &models.Like{UserID: alice.ID, PostID: busy.ID}))
	require.NoError(t, f.likes.CreateLike(ctx, &models.Like{UserID: bob.ID, PostID: busy.ID}))
	require.NoError(t, f.comments.CreateComment(ctx, &models.Comment{UserID: bob.ID, PostID: busy.ID, Content: "nice"}))

	likes, err := f.likes.GetLikesCountByPostIDs(ctx, []uint{busy.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{busy.ID: 2}, likes)

	comments, err := f.comments.GetCommentsCountByPostIDs(ctx, []uint{busy.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{busy.ID: 1}, comments)

	none, err := f.likes.GetLikesCountByPostIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	c := f.circle(t, alice, true)
	require.NoError(t, f.memberships.CreateMembership(ctx, &models.Membership{UserID: bob.ID, CircleID: c.ID, Role: models.RoleMember}))

	assert.ErrorIs(t, f.circles.TransferOwnership(ctx, c.ID, carol.ID), repositories.ErrRecordNotFound)

	require.NoError(t, f.circles.TransferOwnership(ctx, c.ID, bob.ID))
	got, err := f.circles.GetCircleByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.CreatorID)
	m, err := f.memberships.GetMembership(ctx, bob.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)
}

func TestDeleteCircleCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	doomed := f.circle(t, alice, false)
	kept := f.circle(t, bob, false)

	require.NoError(t, f.memberships.CreateMembership(ctx, &models.Membership{UserID: bob.ID, CircleID: doomed.ID, Role: models.RoleMember}))
	p := f.post(t, bob, doomed)
	require.NoError(t, f.likes.CreateLike(ctx, &models.Like{UserID: alice.ID, PostID: p.ID}))
	require.NoError(t, f.comments.CreateComment(ctx, &models.Comment{PostID: p.ID, UserID: alice.ID, Content: "hi"}))

	scoped := f.album(t, models.CircleOwner{CircleID: doomed.ID})
	shared := f.album(t, models.SharedOwner{UserID: bob.ID, CircleID: doomed.ID})
	require.NoError(t, f.albums.AddPhoto(ctx, &models.Photo{AlbumID: scoped.ID, UserID: bob.ID, URL: "https://example.com/a.jpg"}))
	require.NoError(t, f.engagement.CreateAlbumLike(ctx, &models.AlbumLike{UserID: alice.ID, AlbumID: shared.ID}))
	require.NoError(t, f.engagement.CreateAlbumComment(ctx, &models.AlbumComment{UserID: alice.ID, AlbumID: shared.ID, Content: "nice"}))

	survivor := f.post(t, bob, kept)
	personal := f.album(t, models.PersonalOwner{UserID: bob.ID})

	require.NoError(t, f.circles.DeleteCircle(ctx, doomed.ID))

	_, err := f.circles.GetCircleByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	_, err = f.posts.GetPostByID(ctx, p.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	_, err = f.albums.GetAlbumByID(ctx, scoped.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	_, err = f.albums.GetAlbumByID(ctx, shared.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)

	assert.Zero(t, f.count(t, &models.Like{}))
	assert.Zero(t, f.count(t, &models.Comment{}))
	assert.Zero(t, f.count(t, &models.Photo{}))
	assert.Zero(t, f.count(t, &models.AlbumLike{}))
	assert.Zero(t, f.count(t, &models.AlbumComment{}))

	members, err := f.memberships.GetMembersByCircleID(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = f.posts.GetPostByID(ctx, survivor.ID)
	assert.NoError(t, err)
	_, err = f.albums.GetAlbumByID(ctx, personal.ID)
	assert.NoError(t, err)
}

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	owned := f.circle(t, alice, false)
	other := f.circle(t, bob, false)
	require.NoError(t, f.memberships.CreateMembership(ctx, &models.Membership{UserID: alice.ID, CircleID: other.ID, Role: models.RoleMember}))
	require.NoError(t, f.follows.CreateFollow(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, f.follows.CreateFollow(ctx, &models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}))

	alicePost := f.post(t, alice, other)
	bobPost := f.post(t, bob, other)
	require.NoError(t, f.likes.CreateLike(ctx, &models.Like{UserID: alice.ID, PostID: bobPost.ID}))
	require.NoError(t, f.likes.CreateLike(ctx, &models.Like{UserID: bob.ID, PostID: alicePost.ID}))
	require.NoError(t, f.comments.CreateComment(ctx, &models.Comment{PostID: bobPost.ID, UserID: alice.ID, Content: "hi"}))

	personal := f.album(t, models.PersonalOwner{UserID: alice.ID})
	shared := f.album(t, models.SharedOwner{UserID: alice.ID, CircleID: other.ID})
	bobAlbum := f.album(t, models.PersonalOwner{UserID: bob.ID})
	require.NoError(t, f.albums.AddPhoto(ctx, &models.Photo{AlbumID: bobAlbum.ID, UserID: alice.ID, URL: "https://example.com/b.jpg"}))

	require.NoError(t, f.users.DeleteUser(ctx, alice.ID))

	_, err := f.users.GetUserByID(ctx, alice.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	_, err = f.users.GetSettings(ctx, alice.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	_, err = f.circles.GetCircleByID(ctx, owned.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound, "circles the user created go with them")
	_, err = f.posts.GetPostByID(ctx, alicePost.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	_, err = f.albums.GetAlbumByID(ctx, personal.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)

	got, err := f.albums.GetAlbumByID(ctx, shared.ID)
	require.NoError(t, err)
	owner, err := got.Owner()
	require.NoError(t, err)
	assert.Equal(t, models.CircleOwner{CircleID: other.ID}, owner)

	_, err = f.memberships.GetMembership(ctx, alice.ID, other.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	followers, err := f.follows.GetFollowersCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, followers)
	following, err := f.follows.GetFollowingCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, following)

	likes, err := f.likes.GetLikesCountByPostID(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
	comments, err := f.comments.GetCommentsCount(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Zero(t, comments)

	photos, err := f.albums.GetPhotosByAlbumID(ctx, bobAlbum.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Zero(t, photos[0].UserID)

	_, err = f.users.GetUserByID(ctx, bob.ID)
	assert.NoError(t, err)
}

func TestGetFeedFiltersPrivateCircles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	open := f.circle(t, bob, false)
	closed := f.circle(t, bob, true)
	carolsClosed := f.circle(t, carol, true)
	require.NoError(t, f.memberships.CreateMembership(ctx, &models.Membership{UserID: alice.ID, CircleID: carolsClosed.ID, Role: models.RoleMember}))
	require.NoError(t, f.memberships.CreateMembership(ctx, &models.Membership{UserID: bob.ID, CircleID: carolsClosed.ID, Role: models.RoleMember}))

	public := f.post(t, bob, open)
	f.post(t, bob, closed)
	shared := f.post(t, bob, carolsClosed)

	posts, err := f.posts.GetFeed(ctx, alice.ID, []uint{bob.ID, alice.ID}, 0, 10)
	require.NoError(t, err)
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint{public.ID, shared.ID}, ids)

	posts, err = f.posts.GetFeed(ctx, alice.ID, nil, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestWritesAgainstDeletedParentsAreRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	c := f.circle(t, alice, false)
	p := f.post(t, alice, c)
	a := f.album(t, models.SharedOwner{UserID: alice.ID, CircleID: c.ID})

	require.NoError(t, f.posts.DeletePost(ctx, p.ID))
	err := f.likes.CreateLike(ctx, &models.Like{UserID: bob.ID, PostID: p.ID})
	assert.ErrorIs(t, err, repositories.ErrMissingReference)
	err = f.comments.CreateComment(ctx, &models.Comment{UserID: bob.ID, PostID: p.ID, Content: "late"})
	assert.ErrorIs(t, err, repositories.ErrMissingReference)

	require.NoError(t, f.circles.DeleteCircle(ctx, c.ID))
	err = f.memberships.CreateMembership(ctx, &models.Membership{UserID: bob.ID, CircleID: c.ID, Role: models.RoleMember})
	assert.ErrorIs(t, err, repositories.ErrMissingReference)
	err = f.posts.CreatePost(ctx, &models.Post{CircleID: c.ID, UserID: bob.ID, Content: "late"})
	assert.ErrorIs(t, err, repositories.ErrMissingReference)
	err = f.engagement.CreateAlbumLike(ctx, &models.AlbumLike{UserID: bob.ID, AlbumID: a.ID})
	assert.ErrorIs(t, err, repositories.ErrMissingReference)

	other := f.circle(t, bob, false)
	require.NoError(t, f.users.DeleteUser(ctx, alice.ID))
	err = f.memberships.CreateMembership(ctx, &models.Membership{UserID: alice.ID, CircleID: other.ID, Role: models.RoleMember})
	assert.ErrorIs(t, err, repositories.ErrMissingReference)
	err = f.follows.CreateFollow(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	assert.ErrorIs(t, err, repositories.ErrMissingReference)

	assert.Zero(t, f.count(t, &models.Like{}))
	var orphans int64
	require.NoError(t, f.db.Model(&models.Membership{}).Where("user_id = ?", alice.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}
