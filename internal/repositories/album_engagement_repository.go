package repositories

import (
	"context"

	"github.com/anonto42/circles/backend/internal/models"
	"gorm.io/gorm"
)

// AlbumEngagementRepository covers comments and likes on albums.
type AlbumEngagementRepository interface {
	CreateAlbumComment(ctx context.Context, comment *models.AlbumComment) error
	GetAlbumCommentByID(ctx context.Context, id uint) (*models.AlbumComment, error)
	GetAlbumComments(ctx context.Context, albumID uint) ([]models.AlbumComment, error)
	GetAlbumCommentsCount(ctx context.Context, albumID uint) (int64, error)
	DeleteAlbumComment(ctx context.Context, id uint) error

	CreateAlbumLike(ctx context.Context, like *models.AlbumLike) error
	DeleteAlbumLike(ctx context.Context, albumID, userID uint) error
	HasUserLikedAlbum(ctx context.Context, albumID, userID uint) (bool, error)
	GetAlbumLikesCount(ctx context.Context, albumID uint) (int64, error)
}

type PostgresAlbumEngagementRepository struct {
	db *gorm.DB
}

func NewPostgresAlbumEngagementRepository(db *gorm.DB) *PostgresAlbumEngagementRepository {
	return &PostgresAlbumEngagementRepository{db: db}
}

func (r *PostgresAlbumEngagementRepository) CreateAlbumComment(ctx context.Context, comment *models.AlbumComment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *PostgresAlbumEngagementRepository) GetAlbumCommentByID(ctx context.Context, id uint) (*models.AlbumComment, error) {
	var comment models.AlbumComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *PostgresAlbumEngagementRepository) GetAlbumComments(ctx context.Context, albumID uint) ([]models.AlbumComment, error) {
	var comments []models.AlbumComment
	err := r.db.WithContext(ctx).Where("album_id = ?", albumID).Order("created_at, id").Find(&comments).Error
	return comments, translate(err)
}

func (r *PostgresAlbumEngagementRepository) GetAlbumCommentsCount(ctx context.Context, albumID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AlbumComment{}).Where("album_id = ?", albumID).Count(&count).Error
	return count, translate(err)
}

func (r *PostgresAlbumEngagementRepository) DeleteAlbumComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.AlbumComment{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CreateAlbumLike relies on idx_album_like_user_album to reject a repeat like.
func (r *PostgresAlbumEngagementRepository) CreateAlbumLike(ctx context.Context, like *models.AlbumLike) error {
	return translate(r.db.WithContext(ctx).Create(like).Error)
}

func (r *PostgresAlbumEngagementRepository) DeleteAlbumLike(ctx context.Context, albumID, userID uint) error {
	return translate(r.db.WithContext(ctx).Where("album_id = ? AND user_id = ?", albumID, userID).Delete(&models.AlbumLike{}).Error)
}

func (r *PostgresAlbumEngagementRepository) HasUserLikedAlbum(ctx context.Context, albumID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AlbumLike{}).Where("album_id = ? AND user_id = ?", albumID, userID).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *PostgresAlbumEngagementRepository) GetAlbumLikesCount(ctx context.Context, albumID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AlbumLike{}).Where("album_id = ?", albumID).Count(&count).Error
	return count, translate(err)
}
