package models

import "time"

// Role is a member's privilege level inside a circle.
type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Rank orders roles by privilege. Unknown roles rank below MEMBER.
func (r Role) Rank() int {
	switch r {
	case RoleMember:
		return 1
	case RoleModerator:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

func (r Role) Valid() bool { return r.Rank() > 0 }

// AtLeast reports whether r carries at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

// Circle is a named group of users.
type Circle struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:80;not null"`
	Description string    `json:"description"`
	IsPrivate   bool      `json:"is_private" gorm:"default:false"`
	CreatorID   uint      `json:"creator_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Creator *User `json:"-" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
}

// Membership grants a user a role inside a circle. One row per (user, circle).
type Membership struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_membership_user_circle;not null"`
	CircleID  uint      `json:"circle_id" gorm:"index;uniqueIndex:idx_membership_user_circle;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'MEMBER'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   *User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Circle *Circle `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type CreateCircleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=80"`
	Description string `json:"description" validate:"max=500"`
	IsPrivate   bool   `json:"is_private"`
}

type UpdateCircleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
}

type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=MEMBER MODERATOR ADMIN"`
}

type TransferOwnershipRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
