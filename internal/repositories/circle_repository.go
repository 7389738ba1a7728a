package repositories

import (
	"context"

	"github.com/anonto42/circles/backend/internal/models"
	"gorm.io/gorm"
)

// CircleRepository defines the interface for circle data operations
type CircleRepository interface {
	CreateCircle(ctx context.Context, circle *models.Circle) error
	GetCircleByID(ctx context.Context, id uint) (*models.Circle, error)
	UpdateCircle(ctx context.Context, circle *models.Circle) error
	DeleteCircle(ctx context.Context, id uint) error
	TransferOwnership(ctx context.Context, circleID, newCreatorID uint) error
	GetCirclesForUser(ctx context.Context, userID uint) ([]models.Circle, error)
	GetPublicCircles(ctx context.Context, skip, limit int) ([]models.Circle, error)
}

// PostgresCircleRepository implements CircleRepository for PostgreSQL
type PostgresCircleRepository struct {
	db *gorm.DB
}

func NewPostgresCircleRepository(db *gorm.DB) *PostgresCircleRepository {
	return &PostgresCircleRepository{db: db}
}

// CreateCircle inserts the circle and the creator's ADMIN membership atomically.
func (r *PostgresCircleRepository) CreateCircle(ctx context.Context, circle *models.Circle) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(circle).Error; err != nil {
			return err
		}
		return tx.Create(&models.Membership{
			UserID:   circle.CreatorID,
			CircleID: circle.ID,
			Role:     models.RoleAdmin,
		}).Error
	}))
}

func (r *PostgresCircleRepository) GetCircleByID(ctx context.Context, id uint) (*models.Circle, error) {
	var circle models.Circle
	if err := r.db.WithContext(ctx).First(&circle, id).Error; err != nil {
		return nil, translate(err)
	}
	return &circle, nil
}

func (r *PostgresCircleRepository) UpdateCircle(ctx context.Context, circle *models.Circle) error {
	return translate(r.db.WithContext(ctx).Save(circle).Error)
}

// DeleteCircle removes the circle with its memberships, posts and albums.
func (r *PostgresCircleRepository) DeleteCircle(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCircle(tx, id)
	}))
}

// TransferOwnership moves creator_id to a current member and makes them ADMIN.
func (r *PostgresCircleRepository) TransferOwnership(ctx context.Context, circleID, newCreatorID uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Membership{}).
			Where("circle_id = ? AND user_id = ?", circleID, newCreatorID).
			Update("role", models.RoleAdmin)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		res = tx.Model(&models.Circle{}).Where("id = ?", circleID).Update("creator_id", newCreatorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	}))
}

func (r *PostgresCircleRepository) GetCirclesForUser(ctx context.Context, userID uint) ([]models.Circle, error) {
	var circles []models.Circle
	err := r.db.WithContext(ctx).Where("id IN (?)",
		r.db.Model(&models.Membership{}).Select("circle_id").Where("user_id = ?", userID),
	).Order("name").Find(&circles).Error
	return circles, translate(err)
}

func (r *PostgresCircleRepository) GetPublicCircles(ctx context.Context, skip, limit int) ([]models.Circle, error) {
	var circles []models.Circle
	err := r.db.WithContext(ctx).Where("is_private = ?", false).
		Order("created_at DESC").Offset(skip).Limit(limit).
		Find(&circles).Error
	return circles, translate(err)
}
