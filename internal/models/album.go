package models

import (
	"errors"
	"time"
)

// ErrOrphanedAlbum is returned for rows that carry neither a creator nor a circle.
var ErrOrphanedAlbum = errors.New("album has no owner")

// AlbumOwner is one of PersonalOwner, CircleOwner or SharedOwner.
type AlbumOwner interface {
	columns() (creatorID, circleID *uint)
}

// PersonalOwner is an album that belongs to a single user.
type PersonalOwner struct{ UserID uint }

// CircleOwner is an album that belongs to a circle with no individual creator.
type CircleOwner struct{ CircleID uint }

// SharedOwner is an album created by a user inside a circle.
type SharedOwner struct {
	UserID   uint
	CircleID uint
}

func (o PersonalOwner) columns() (*uint, *uint) { return uintPtr(o.UserID), nil }
func (o CircleOwner) columns() (*uint, *uint)   { return nil, uintPtr(o.CircleID) }
func (o SharedOwner) columns() (*uint, *uint)   { return uintPtr(o.UserID), uintPtr(o.CircleID) }

func uintPtr(v uint) *uint { return &v }

// Album is a photo collection. Ownership is stored in two nullable columns
// and only ever written through SetOwner.
type Album struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:120;not null"`
	Description string    `json:"description"`
	IsPrivate   bool      `json:"is_private" gorm:"default:false"`
	CreatorID   *uint     `json:"creator_id" gorm:"index"`
	CircleID    *uint     `json:"circle_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Creator *User   `json:"-" gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL"`
	Circle  *Circle `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// SetOwner writes the ownership columns from the variant.
func (a *Album) SetOwner(o AlbumOwner) {
	a.CreatorID, a.CircleID = o.columns()
}

// Owner decodes the ownership columns.
func (a *Album) Owner() (AlbumOwner, error) {
	switch {
	case a.CreatorID != nil && a.CircleID != nil:
		return SharedOwner{UserID: *a.CreatorID, CircleID: *a.CircleID}, nil
	case a.CreatorID != nil:
		return PersonalOwner{UserID: *a.CreatorID}, nil
	case a.CircleID != nil:
		return CircleOwner{CircleID: *a.CircleID}, nil
	}
	return nil, ErrOrphanedAlbum
}

// IsCreator reports whether userID created the album.
func (a *Album) IsCreator(userID uint) bool {
	return userID != 0 && a.CreatorID != nil && *a.CreatorID == userID
}

// Photo belongs to exactly one album. UserID is not a foreign key: photos
// outlive their uploader with UserID reset to 0.
type Photo struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AlbumID   uint      `json:"album_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index"`
	URL       string    `json:"url" gorm:"not null"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Album *Album `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type AlbumComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AlbumID   uint      `json:"album_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Album *Album `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type AlbumLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_album_like_user_album;not null"`
	AlbumID   uint      `json:"album_id" gorm:"index;uniqueIndex:idx_album_like_user_album;not null"`
	CreatedAt time.Time `json:"created_at"`

	Album *Album `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CreateAlbumRequest creates a personal album when CircleID is nil, a shared
// album inside the circle otherwise, or a circle-owned album with CircleOwned.
type CreateAlbumRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=500"`
	CircleID    *uint  `json:"circle_id,omitempty"`
	CircleOwned bool   `json:"circle_owned"`
	IsPrivate   *bool  `json:"is_private,omitempty"` // defaults to the creator's DefaultAlbumPrivacy
}

type UpdateAlbumRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
}

type CreateAlbumCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// AlbumDetail is an album with its photos, derived counts and the viewer's like.
type AlbumDetail struct {
	Album
	AlbumStats
	Photos  []Photo `json:"photos"`
	IsLiked bool    `json:"is_liked"`
}

type AddPhotoRequest struct {
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption" validate:"max=300"`
}

// AlbumStats are derived from the edge tables on every read.
type AlbumStats struct {
	PhotosCount   int64 `json:"photos_count"`
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
}
