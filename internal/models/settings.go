package models

import "time"

// UserSettings holds display, notification and privacy defaults for one user.
type UserSettings struct {
	ID                      uint      `json:"id" gorm:"primaryKey"`
	UserID                  uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	DarkMode                bool      `json:"dark_mode"`
	FontSize                int       `json:"font_size"`
	NotifyOnLike            bool      `json:"notify_on_like"`
	NotifyOnComment         bool      `json:"notify_on_comment"`
	NotifyOnFollow          bool      `json:"notify_on_follow"`
	NotifyOnCircleActivity  bool      `json:"notify_on_circle_activity"`
	DefaultAlbumPrivacy     bool      `json:"default_album_privacy"`
	MuteAll                 bool      `json:"mute_all"`
	MuteCircleNotifications bool      `json:"mute_circle_notifications"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

const DefaultFontSize = 14

// DefaultSettings returns the settings row created alongside a new account.
func DefaultSettings(userID uint) *UserSettings {
	return &UserSettings{
		UserID:                 userID,
		FontSize:               DefaultFontSize,
		NotifyOnLike:           true,
		NotifyOnComment:        true,
		NotifyOnFollow:         true,
		NotifyOnCircleActivity: true,
	}
}

// UpdateSettingsRequest carries a partial settings update; nil fields are left alone.
type UpdateSettingsRequest struct {
	DarkMode                *bool `json:"dark_mode,omitempty"`
	FontSize                *int  `json:"font_size,omitempty" validate:"omitempty,min=10,max=32"`
	NotifyOnLike            *bool `json:"notify_on_like,omitempty"`
	NotifyOnComment         *bool `json:"notify_on_comment,omitempty"`
	NotifyOnFollow          *bool `json:"notify_on_follow,omitempty"`
	NotifyOnCircleActivity  *bool `json:"notify_on_circle_activity,omitempty"`
	DefaultAlbumPrivacy     *bool `json:"default_album_privacy,omitempty"`
	MuteAll                 *bool `json:"mute_all,omitempty"`
	MuteCircleNotifications *bool `json:"mute_circle_notifications,omitempty"`
}

// Apply copies every non-nil field onto s.
func (r *UpdateSettingsRequest) Apply(s *UserSettings) {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&s.DarkMode, r.DarkMode)
	setBool(&s.NotifyOnLike, r.NotifyOnLike)
	setBool(&s.NotifyOnComment, r.NotifyOnComment)
	setBool(&s.NotifyOnFollow, r.NotifyOnFollow)
	setBool(&s.NotifyOnCircleActivity, r.NotifyOnCircleActivity)
	setBool(&s.DefaultAlbumPrivacy, r.DefaultAlbumPrivacy)
	setBool(&s.MuteAll, r.MuteAll)
	setBool(&s.MuteCircleNotifications, r.MuteCircleNotifications)
	if r.FontSize != nil {
		s.FontSize = *r.FontSize
	}
}
