package repositories

import (
	"github.com/anonto42/circles/backend/internal/models"
	"gorm.io/gorm"
)

// Cascades run inside the caller's transaction and remove children before parents.

func deletePostsWhere(tx *gorm.DB, query string, args ...interface{}) error {
	postIDs := tx.Model(&models.Post{}).Select("id").Where(query, args...)
	if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return tx.Where(query, args...).Delete(&models.Post{}).Error
}

func deleteAlbumsWhere(tx *gorm.DB, query string, args ...interface{}) error {
	albumIDs := tx.Model(&models.Album{}).Select("id").Where(query, args...)
	if err := tx.Where("album_id IN (?)", albumIDs).Delete(&models.Photo{}).Error; err != nil {
		return err
	}
	if err := tx.Where("album_id IN (?)", albumIDs).Delete(&models.AlbumComment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("album_id IN (?)", albumIDs).Delete(&models.AlbumLike{}).Error; err != nil {
		return err
	}
	return tx.Where(query, args...).Delete(&models.Album{}).Error
}

func deleteCircle(tx *gorm.DB, circleID uint) error {
	if err := deletePostsWhere(tx, "circle_id = ?", circleID); err != nil {
		return err
	}
	if err := deleteAlbumsWhere(tx, "circle_id = ?", circleID); err != nil {
		return err
	}
	if err := tx.Where("circle_id = ?", circleID).Delete(&models.Membership{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.Circle{}, circleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func deleteUser(tx *gorm.DB, userID uint) error {
	var created []uint
	if err := tx.Model(&models.Circle{}).Where("creator_id = ?", userID).Pluck("id", &created).Error; err != nil {
		return err
	}
	for _, circleID := range created {
		if err := deleteCircle(tx, circleID); err != nil {
			return err
		}
	}

	if err := deletePostsWhere(tx, "user_id = ?", userID); err != nil {
		return err
	}
	if err := deleteAlbumsWhere(tx, "creator_id = ? AND circle_id IS NULL", userID); err != nil {
		return err
	}
	// Shared albums stay with their circle.
	if err := tx.Model(&models.Album{}).Where("creator_id = ?", userID).Update("creator_id", nil).Error; err != nil {
		return err
	}

	edges := []struct {
		model interface{}
		query string
		args  []interface{}
	}{
		{&models.Like{}, "user_id = ?", []interface{}{userID}},
		{&models.Comment{}, "user_id = ?", []interface{}{userID}},
		{&models.AlbumLike{}, "user_id = ?", []interface{}{userID}},
		{&models.AlbumComment{}, "user_id = ?", []interface{}{userID}},
		{&models.Membership{}, "user_id = ?", []interface{}{userID}},
		{&models.Follow{}, "follower_id = ? OR following_id = ?", []interface{}{userID, userID}},
		{&models.Notification{}, "recipient_id = ? OR actor_id = ?", []interface{}{userID, userID}},
		{&models.UserSettings{}, "user_id = ?", []interface{}{userID}},
	}
	for _, e := range edges {
		if err := tx.Where(e.query, e.args...).Delete(e.model).Error; err != nil {
			return err
		}
	}
	// Photos the user uploaded into other albums are kept but anonymized.
	if err := tx.Model(&models.Photo{}).Where("user_id = ?", userID).Update("user_id", 0).Error; err != nil {
		return err
	}

	res := tx.Delete(&models.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
