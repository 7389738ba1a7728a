package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/policy"
	"github.com/anonto42/circles/backend/internal/repositories"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/anonto42/circles/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryModerationLog keeps events in process.
type memoryModerationLog struct {
	mu     sync.Mutex
	events []models.ModerationEvent
}

func (l *memoryModerationLog) RecordEvent(_ context.Context, event *models.ModerationEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, *event)
	return nil
}

func (l *memoryModerationLog) GetEventsByCircleID(_ context.Context, circleID uint, skip, limit int64) ([]models.ModerationEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.ModerationEvent
	for _, e := range l.events {
		if e.CircleID == circleID {
			out = append(out, e)
		}
	}
	if skip >= int64(len(out)) {
		return []models.ModerationEvent{}, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *memoryModerationLog) actions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Action)
	}
	return out
}

type env struct {
	db            *gorm.DB
	modlog        *memoryModerationLog
	identity      *services.IdentityService
	circles       *services.CircleService
	follows       *services.FollowService
	feed          *services.FeedService
	gallery       *services.GalleryService
	notifications *services.NotificationService
	counters      *services.Counters
}

func newEnv(t *testing.T) *env {
	return newEnvWithOptions(t, false)
}

func newEnvWithOptions(t *testing.T, followersCanView bool) *env {
	db := testutil.OpenDB(t)

	users := repositories.NewPostgresUserRepository(db)
	circles := repositories.NewPostgresCircleRepository(db)
	memberships := repositories.NewPostgresMembershipRepository(db)
	follows := repositories.NewPostgresFollowRepository(db)
	posts := repositories.NewPostgresPostRepository(db)
	comments := repositories.NewPostgresCommentRepository(db)
	likes := repositories.NewPostgresLikeRepository(db)
	albums := repositories.NewPostgresAlbumRepository(db)
	engagement := repositories.NewPostgresAlbumEngagementRepository(db)
	notifications := repositories.NewPostgresNotificationRepository(db)
	modlog := &memoryModerationLog{}

	resolver := policy.NewResolver(circles, memberships, follows, followersCanView)
	counters := services.NewCounters(likes, comments, memberships, follows, albums, engagement)
	notifier := services.NewNotificationService(notifications, users)

	return &env{
		db:            db,
		modlog:        modlog,
		identity:      services.NewIdentityService(users, follows, resolver, counters),
		circles:       services.NewCircleService(circles, memberships, users, resolver, counters, notifier, modlog),
		follows:       services.NewFollowService(follows, users, resolver, notifier),
		feed:          services.NewFeedService(posts, comments, likes, follows, users, circles, resolver, counters, notifier, modlog),
		gallery:       services.NewGalleryService(albums, engagement, circles, users, resolver, counters, notifier),
		notifications: notifier,
		counters:      counters,
	}
}

func (e *env) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.identity.Register(context.Background(), models.CreateLocalUserRequest{
		Email:    name + "@example.com",
		Username: name,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return u
}

func (e *env) circle(t *testing.T, creator *models.User, private bool) *models.Circle {
	t.Helper()
	c, err := e.circles.CreateCircle(context.Background(), creator.ID, models.CreateCircleRequest{Name: creator.Username + "'s circle", IsPrivate: private})
	require.NoError(t, err)
	return c
}

func (e *env) join(t *testing.T, u *models.User, c *models.Circle) {
	t.Helper()
	_, err := e.circles.Join(context.Background(), u.ID, c.ID)
	require.NoError(t, err)
}

func (e *env) post(t *testing.T, author *models.User, c *models.Circle) *models.Post {
	t.Helper()
	p, err := e.feed.CreatePost(context.Background(), author.ID, c.ID, models.CreatePostRequest{Content: "hello from " + author.Username})
	require.NoError(t, err)
	return p
}

func (e *env) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func boolPtr(b bool) *bool { return &b }
