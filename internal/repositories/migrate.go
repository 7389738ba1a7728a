package repositories

import (
	"github.com/anonto42/circles/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every relational table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Circle{},
		&models.Membership{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Album{},
		&models.Photo{},
		&models.AlbumComment{},
		&models.AlbumLike{},
		&models.Notification{},
	)
}
