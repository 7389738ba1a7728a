package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account in the circles network.
type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null"`
	Username         string    `json:"username" gorm:"uniqueIndex;not null"`
	Password         string    `json:"-"` // bcrypt hash
	DisplayName      string    `json:"display_name"`
	Bio              string    `json:"bio"`
	AvatarURL        string    `json:"avatar_url"`
	IsProfilePrivate *bool     `json:"is_profile_private"` // nil means the owner never chose
	FirebaseUID      *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfilePrivate resolves the tri-state privacy flag. An unset flag is public.
func (u *User) ProfilePrivate() bool {
	return u.IsProfilePrivate != nil && *u.IsProfilePrivate
}

// UserCompact is the author block embedded in listings.
type UserCompact struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Compact strips a user down to its public listing fields.
func (u *User) Compact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

type CreateLocalUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,alphanum,min=3,max=30"`
	DisplayName string `json:"display_name" validate:"omitempty,min=2,max=50"`
	Password    string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	DisplayName      *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio              *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL        *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	IsProfilePrivate *bool   `json:"is_profile_private,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
