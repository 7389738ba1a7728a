package models

import "time"

// Notification types
const (
	NotificationLike       = "like"
	NotificationComment    = "comment"
	NotificationFollow     = "follow"
	NotificationRoleChange = "role_change"
	NotificationAlbumLike  = "album_like"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    uint      `json:"target_id"`
	TargetType  string    `json:"target_type" gorm:"size:20"` // post, album, circle, user
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
