package repositories

import (
	"context"

	"github.com/anonto42/circles/backend/internal/models"
	"gorm.io/gorm"
)

// AlbumRepository defines the interface for album and photo operations
type AlbumRepository interface {
	CreateAlbum(ctx context.Context, album *models.Album) error
	GetAlbumByID(ctx context.Context, id uint) (*models.Album, error)
	GetAlbumsByCircleID(ctx context.Context, circleID uint) ([]models.Album, error)
	GetAlbumsByCreatorID(ctx context.Context, userID uint) ([]models.Album, error)
	UpdateAlbum(ctx context.Context, album *models.Album) error
	DeleteAlbum(ctx context.Context, id uint) error

	AddPhoto(ctx context.Context, photo *models.Photo) error
	GetPhotoByID(ctx context.Context, id uint) (*models.Photo, error)
	GetPhotosByAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error)
	GetPhotosCount(ctx context.Context, albumID uint) (int64, error)
	DeletePhoto(ctx context.Context, id uint) error
}

// PostgresAlbumRepository implements AlbumRepository for PostgreSQL
type PostgresAlbumRepository struct {
	db *gorm.DB
}

func NewPostgresAlbumRepository(db *gorm.DB) *PostgresAlbumRepository {
	return &PostgresAlbumRepository{db: db}
}

func (r *PostgresAlbumRepository) CreateAlbum(ctx context.Context, album *models.Album) error {
	return translate(r.db.WithContext(ctx).Create(album).Error)
}

func (r *PostgresAlbumRepository) GetAlbumByID(ctx context.Context, id uint) (*models.Album, error) {
	var album models.Album
	if err := r.db.WithContext(ctx).First(&album, id).Error; err != nil {
		return nil, translate(err)
	}
	return &album, nil
}

func (r *PostgresAlbumRepository) GetAlbumsByCircleID(ctx context.Context, circleID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).Where("circle_id = ?", circleID).Order("created_at DESC, id DESC").Find(&albums).Error
	return albums, translate(err)
}

func (r *PostgresAlbumRepository) GetAlbumsByCreatorID(ctx context.Context, userID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).Where("creator_id = ?", userID).Order("created_at DESC, id DESC").Find(&albums).Error
	return albums, translate(err)
}

func (r *PostgresAlbumRepository) UpdateAlbum(ctx context.Context, album *models.Album) error {
	return translate(r.db.WithContext(ctx).Save(album).Error)
}

// DeleteAlbum removes the album with its photos, comments and likes.
func (r *PostgresAlbumRepository) DeleteAlbum(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Album{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrRecordNotFound
		}
		return deleteAlbumsWhere(tx, "id = ?", id)
	}))
}

func (r *PostgresAlbumRepository) AddPhoto(ctx context.Context, photo *models.Photo) error {
	return translate(r.db.WithContext(ctx).Create(photo).Error)
}

func (r *PostgresAlbumRepository) GetPhotoByID(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

func (r *PostgresAlbumRepository) GetPhotosByAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).Where("album_id = ?", albumID).Order("created_at, id").Find(&photos).Error
	return photos, translate(err)
}

func (r *PostgresAlbumRepository) GetPhotosCount(ctx context.Context, albumID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).Where("album_id = ?", albumID).Count(&count).Error
	return count, translate(err)
}

func (r *PostgresAlbumRepository) DeletePhoto(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Photo{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
