package models

import "time"

// Post is a circle-scoped piece of content.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CircleID  uint      `json:"circle_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	ImageURL  string    `json:"image_url,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Circle *Circle `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User   *User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post *Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Like represents a like on a post
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_like_user_post;not null"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_like_user_post;not null"`
	CreatedAt time.Time `json:"created_at"`

	Post *Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"max=2000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL string `json:"video_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content  *string `json:"content,omitempty" validate:"omitempty,max=2000"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL *string `json:"video_url,omitempty" validate:"omitempty,url"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// PostStats are derived from the edge tables on every read.
type PostStats struct {
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
}

// EnrichedPost is a post with author info and viewer-specific flags
type EnrichedPost struct {
	Post
	PostStats
	Author  UserCompact `json:"author"`
	IsLiked bool        `json:"is_liked"`
}
