package repositories

import (
	"context"

	"github.com/anonto42/circles/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostsByCircleID(ctx context.Context, circleID uint, skip, limit int) ([]models.Post, error)
	GetFeed(ctx context.Context, viewerID uint, authorIDs []uint, skip, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostsByCircleID(ctx context.Context, circleID uint, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Where("circle_id = ?", circleID).
		Order("created_at DESC, id DESC").Offset(skip).Limit(limit).
		Find(&posts).Error
	return posts, translate(err)
}

// GetFeed returns posts by the given authors that viewerID may see: posts in
// public circles, and posts in private circles the viewer belongs to.
func (r *PostgresPostRepository) GetFeed(ctx context.Context, viewerID uint, authorIDs []uint, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	memberOf := r.db.Model(&models.Membership{}).Select("circle_id").Where("user_id = ?", viewerID)
	err := r.db.WithContext(ctx).
		Joins("JOIN circles ON circles.id = posts.circle_id").
		Where("posts.user_id IN ?", authorIDs).
		Where("circles.is_private = ? OR posts.circle_id IN (?)", false, memberOf).
		Order("posts.created_at DESC, posts.id DESC").Offset(skip).Limit(limit).
		Find(&posts).Error
	return posts, translate(err)
}

func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Save(post).Error)
}

// DeletePost removes the post with its comments and likes.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrRecordNotFound
		}
		return deletePostsWhere(tx, "id = ?", id)
	}))
}
