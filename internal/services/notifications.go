package services

import (
	"context"
	"log"
	"time"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/repositories"
)

// NotificationService delivers notifications according to the recipient's
// settings and serves the notification inbox.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	now           func() time.Time
}

func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, now: time.Now}
}

// wants reports whether settings allow a notification of the given type.
func wants(s *models.UserSettings, notificationType string, circleEvent bool) bool {
	if s.MuteAll {
		return false
	}
	if circleEvent && (s.MuteCircleNotifications || !s.NotifyOnCircleActivity) {
		return false
	}
	switch notificationType {
	case models.NotificationLike, models.NotificationAlbumLike:
		return s.NotifyOnLike
	case models.NotificationComment:
		return s.NotifyOnComment
	case models.NotificationFollow:
		return s.NotifyOnFollow
	}
	return true
}

// Notify stores n unless it is a self-action or the recipient opted out.
// Delivery is best effort: failures are logged, never returned.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification, circleEvent bool) {
	if s == nil || n.ActorID == n.RecipientID {
		return
	}
	settings, err := s.users.GetSettings(ctx, n.RecipientID)
	if err != nil {
		log.Printf("notify: settings for user %d: %v", n.RecipientID, err)
		return
	}
	if !wants(settings, n.Type, circleEvent) {
		return
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		log.Printf("notify: create %s notification for user %d: %v", n.Type, n.RecipientID, err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uint, page, limit int) ([]models.Notification, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.notifications.GetByRecipientID(ctx, userID, page, limit)
}

// Grouped buckets the inbox into today, yesterday, this week and older.
func (s *NotificationService) Grouped(ctx context.Context, userID uint) (map[string][]models.Notification, error) {
	today, yesterday, thisWeek, older, err := s.notifications.GetGrouped(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return map[string][]models.Notification{
		"today":     today,
		"yesterday": yesterday,
		"this_week": thisWeek,
		"older":     older,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return storageError(s.notifications.MarkAsRead(ctx, userID, notificationID), ErrNotificationNotFound, nil)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notifications.MarkAllAsRead(ctx, userID)
}
