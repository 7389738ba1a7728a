package repositories

import (
	"context"

	"github.com/anonto42/circles/backend/internal/models"
	"gorm.io/gorm"
)

// MembershipRepository defines the interface for circle membership operations
type MembershipRepository interface {
	CreateMembership(ctx context.Context, m *models.Membership) error
	GetMembership(ctx context.Context, userID, circleID uint) (*models.Membership, error)
	UpdateRole(ctx context.Context, userID, circleID uint, role models.Role) error
	DeleteMembership(ctx context.Context, userID, circleID uint) error
	GetMembersByCircleID(ctx context.Context, circleID uint) ([]models.Membership, error)
	GetMembersCount(ctx context.Context, circleID uint) (int64, error)
}

// PostgresMembershipRepository implements MembershipRepository for PostgreSQL
type PostgresMembershipRepository struct {
	db *gorm.DB
}

func NewPostgresMembershipRepository(db *gorm.DB) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{db: db}
}

// CreateMembership relies on idx_membership_user_circle to reject a second row for the pair.
func (r *PostgresMembershipRepository) CreateMembership(ctx context.Context, m *models.Membership) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *PostgresMembershipRepository) GetMembership(ctx context.Context, userID, circleID uint) (*models.Membership, error) {
	var m models.Membership
	err := r.db.WithContext(ctx).Where("user_id = ? AND circle_id = ?", userID, circleID).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *PostgresMembershipRepository) UpdateRole(ctx context.Context, userID, circleID uint, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND circle_id = ?", userID, circleID).
		Update("role", role)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresMembershipRepository) DeleteMembership(ctx context.Context, userID, circleID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND circle_id = ?", userID, circleID).Delete(&models.Membership{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresMembershipRepository) GetMembersByCircleID(ctx context.Context, circleID uint) ([]models.Membership, error) {
	var members []models.Membership
	err := r.db.WithContext(ctx).Where("circle_id = ?", circleID).Order("created_at").Find(&members).Error
	return members, translate(err)
}

func (r *PostgresMembershipRepository) GetMembersCount(ctx context.Context, circleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Membership{}).Where("circle_id = ?", circleID).Count(&count).Error
	return count, translate(err)
}
