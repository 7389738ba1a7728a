package policy

import "github.com/anonto42/circles/backend/internal/models"

// ProfileVisible applies profile privacy. A private profile is visible to its
// owner, and to followers only when followersCanView is enabled.
func ProfileVisible(viewerID uint, owner *models.User, viewerFollows, followersCanView bool) bool {
	if !owner.ProfilePrivate() {
		return true
	}
	if viewerID != 0 && viewerID == owner.ID {
		return true
	}
	return followersCanView && viewerFollows
}

// CircleContentVisible gates everything published inside a circle.
func CircleContentVisible(circle *models.Circle, viewerIsMember bool) bool {
	return !circle.IsPrivate || viewerIsMember
}

// PostVisible decides post visibility from its circle alone.
func PostVisible(circle *models.Circle, viewerIsMember bool) bool {
	return CircleContentVisible(circle, viewerIsMember)
}

// AlbumVisible is the conjunction of the circle gate (when the album has a
// circle) and the album's own flag. circle is nil for personal albums. A
// private album is visible to its creator and to members of its circle.
func AlbumVisible(viewerID uint, album *models.Album, circle *models.Circle, viewerIsMember bool) bool {
	if circle != nil && !CircleContentVisible(circle, viewerIsMember) {
		return false
	}
	if !album.IsPrivate {
		return true
	}
	if album.IsCreator(viewerID) {
		return true
	}
	return circle != nil && viewerIsMember
}
