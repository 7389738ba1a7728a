package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/policy"
	"github.com/anonto42/circles/backend/internal/repositories"
)

// GalleryService handles albums, photos and album engagement.
type GalleryService struct {
	albums     repositories.AlbumRepository
	engagement repositories.AlbumEngagementRepository
	circles    repositories.CircleRepository
	users      repositories.UserRepository
	resolver   *policy.Resolver
	counters   *Counters
	notifier   *NotificationService
}

func NewGalleryService(
	albums repositories.AlbumRepository,
	engagement repositories.AlbumEngagementRepository,
	circles repositories.CircleRepository,
	users repositories.UserRepository,
	resolver *policy.Resolver,
	counters *Counters,
	notifier *NotificationService,
) *GalleryService {
	return &GalleryService{
		albums:     albums,
		engagement: engagement,
		circles:    circles,
		users:      users,
		resolver:   resolver,
		counters:   counters,
		notifier:   notifier,
	}
}

// albumAccess is what a user may do with one album.
type albumAccess struct {
	album    *models.Album
	circle   *models.Circle
	standing policy.Standing
}

// manage: the creator, or circle moderators for albums that live in a circle.
func (a albumAccess) manage() bool {
	if a.album.IsCreator(a.standing.UserID) {
		return true
	}
	return a.circle != nil && policy.Allowed(a.standing, policy.ActionManageCircleAlbum)
}

// contribute: managers, plus any member for circle-owned albums.
func (a albumAccess) contribute() bool {
	if a.manage() {
		return true
	}
	return a.circle != nil && a.album.CreatorID == nil && a.standing.IsMember()
}

func (a albumAccess) visible() bool {
	return policy.AlbumVisible(a.standing.UserID, a.album, a.circle, a.standing.IsMember())
}

func (s *GalleryService) access(ctx context.Context, userID, albumID uint) (albumAccess, error) {
	album, err := s.albums.GetAlbumByID(ctx, albumID)
	if err != nil {
		return albumAccess{}, storageError(err, ErrAlbumNotFound, nil)
	}
	a := albumAccess{album: album, standing: policy.Standing{UserID: userID}}
	if album.CircleID != nil {
		circle, err := s.circles.GetCircleByID(ctx, *album.CircleID)
		if err != nil {
			return albumAccess{}, storageError(err, ErrCircleNotFound, nil)
		}
		a.circle = circle
		if a.standing, err = s.resolver.Standing(ctx, userID, circle); err != nil {
			return albumAccess{}, err
		}
	}
	return a, nil
}

func (s *GalleryService) visibleAlbum(ctx context.Context, viewerID, albumID uint) (albumAccess, error) {
	a, err := s.access(ctx, viewerID, albumID)
	if err != nil {
		return a, err
	}
	if !a.visible() {
		return a, forbidden("view this album")
	}
	return a, nil
}

// CreateAlbum creates a personal, shared or circle-owned album. Albums in a
// circle require membership; circle-owned ones require a moderator.
func (s *GalleryService) CreateAlbum(ctx context.Context, actorID uint, req models.CreateAlbumRequest) (*models.Album, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationError("album title is required")
	}
	if err := requireAccount(ctx, s.users, actorID); err != nil {
		return nil, err
	}

	var owner models.AlbumOwner = models.PersonalOwner{UserID: actorID}
	if req.CircleID != nil {
		circle, err := s.circles.GetCircleByID(ctx, *req.CircleID)
		if err != nil {
			return nil, storageError(err, ErrCircleNotFound, nil)
		}
		st, err := s.resolver.Standing(ctx, actorID, circle)
		if err != nil {
			return nil, err
		}
		if !st.IsMember() {
			return nil, forbidden("create albums in a circle you are not a member of")
		}
		owner = models.SharedOwner{UserID: actorID, CircleID: circle.ID}
		if req.CircleOwned {
			if !policy.Allowed(st, policy.ActionManageCircleAlbum) {
				return nil, forbidden("create circle-owned albums")
			}
			owner = models.CircleOwner{CircleID: circle.ID}
		}
	} else if req.CircleOwned {
		return nil, validationError("a circle-owned album needs a circle")
	}

	private := false
	if req.IsPrivate != nil {
		private = *req.IsPrivate
	} else {
		settings, err := s.users.GetSettings(ctx, actorID)
		if err != nil {
			return nil, storageError(err, ErrUserNotFound, nil)
		}
		private = settings.DefaultAlbumPrivacy
	}

	album := &models.Album{Title: title, Description: req.Description, IsPrivate: private}
	album.SetOwner(owner)
	if err := s.albums.CreateAlbum(ctx, album); err != nil {
		return nil, storageError(err, nil, nil)
	}
	return album, nil
}

// GetAlbum returns the album with photos and counts, or ErrForbidden.
func (s *GalleryService) GetAlbum(ctx context.Context, viewerID, albumID uint) (*models.AlbumDetail, error) {
	a, err := s.visibleAlbum(ctx, viewerID, albumID)
	if err != nil {
		return nil, err
	}
	detail := &models.AlbumDetail{Album: *a.album}
	if detail.AlbumStats, err = s.counters.AlbumStats(ctx, albumID); err != nil {
		return nil, err
	}
	if detail.Photos, err = s.albums.GetPhotosByAlbumID(ctx, albumID); err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if detail.IsLiked, err = s.engagement.HasUserLikedAlbum(ctx, albumID, viewerID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// CircleAlbums lists the circle's albums that viewerID may see.
func (s *GalleryService) CircleAlbums(ctx context.Context, viewerID, circleID uint) ([]models.Album, error) {
	circle, err := s.circles.GetCircleByID(ctx, circleID)
	if err != nil {
		return nil, storageError(err, ErrCircleNotFound, nil)
	}
	st, err := s.resolver.Standing(ctx, viewerID, circle)
	if err != nil {
		return nil, err
	}
	if !policy.CircleContentVisible(circle, st.IsMember()) {
		return nil, forbidden("view albums in this circle")
	}
	albums, err := s.albums.GetAlbumsByCircleID(ctx, circleID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Album, 0, len(albums))
	for i := range albums {
		if policy.AlbumVisible(viewerID, &albums[i], circle, st.IsMember()) {
			out = append(out, albums[i])
		}
	}
	return out, nil
}

// UserAlbums lists albums created by userID that viewerID may see.
func (s *GalleryService) UserAlbums(ctx context.Context, viewerID, userID uint) ([]models.Album, error) {
	albums, err := s.albums.GetAlbumsByCreatorID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Album, 0, len(albums))
	for i := range albums {
		ok, err := s.resolver.CanViewAlbum(ctx, viewerID, &albums[i])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, albums[i])
		}
	}
	return out, nil
}

func (s *GalleryService) UpdateAlbum(ctx context.Context, actorID, albumID uint, req models.UpdateAlbumRequest) (*models.Album, error) {
	a, err := s.access(ctx, actorID, albumID)
	if err != nil {
		return nil, err
	}
	if !a.manage() {
		return nil, forbidden("edit this album")
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationError("album title cannot be blank")
		}
		a.album.Title = title
	}
	if req.Description != nil {
		a.album.Description = *req.Description
	}
	if req.IsPrivate != nil {
		a.album.IsPrivate = *req.IsPrivate
	}
	if err := s.albums.UpdateAlbum(ctx, a.album); err != nil {
		return nil, err
	}
	return a.album, nil
}

func (s *GalleryService) DeleteAlbum(ctx context.Context, actorID, albumID uint) error {
	a, err := s.access(ctx, actorID, albumID)
	if err != nil {
		return err
	}
	if !a.manage() {
		return forbidden("delete this album")
	}
	return storageError(s.albums.DeleteAlbum(ctx, albumID), ErrAlbumNotFound, nil)
}

func (s *GalleryService) AddPhoto(ctx context.Context, actorID, albumID uint, req models.AddPhotoRequest) (*models.Photo, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, validationError("photo url is required")
	}
	if err := requireAccount(ctx, s.users, actorID); err != nil {
		return nil, err
	}
	a, err := s.access(ctx, actorID, albumID)
	if err != nil {
		return nil, err
	}
	if !a.contribute() {
		return nil, forbidden("add photos to this album")
	}
	photo := &models.Photo{AlbumID: albumID, UserID: actorID, URL: req.URL, Caption: req.Caption}
	if err := s.albums.AddPhoto(ctx, photo); err != nil {
		return nil, storageError(err, nil, nil)
	}
	return photo, nil
}

// DeletePhoto is allowed for the uploader and for album managers.
func (s *GalleryService) DeletePhoto(ctx context.Context, actorID, photoID uint) error {
	photo, err := s.albums.GetPhotoByID(ctx, photoID)
	if err != nil {
		return storageError(err, ErrPhotoNotFound, nil)
	}
	if photo.UserID != actorID {
		a, err := s.access(ctx, actorID, photo.AlbumID)
		if err != nil {
			return err
		}
		if !a.manage() {
			return forbidden("delete this photo")
		}
	}
	return storageError(s.albums.DeletePhoto(ctx, photoID), ErrPhotoNotFound, nil)
}

func (s *GalleryService) CommentOnAlbum(ctx context.Context, viewerID, albumID uint, content string) (*models.AlbumComment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxCommentLength {
		return nil, validationError("comment must be 1 to %d characters", maxCommentLength)
	}
	if err := requireAccount(ctx, s.users, viewerID); err != nil {
		return nil, err
	}
	a, err := s.visibleAlbum(ctx, viewerID, albumID)
	if err != nil {
		return nil, err
	}
	comment := &models.AlbumComment{AlbumID: albumID, UserID: viewerID, Content: content}
	if err := s.engagement.CreateAlbumComment(ctx, comment); err != nil {
		return nil, storageError(err, nil, nil)
	}
	if a.album.CreatorID != nil {
		s.notifier.Notify(ctx, &models.Notification{
			Type:        models.NotificationComment,
			ActorID:     viewerID,
			RecipientID: *a.album.CreatorID,
			TargetID:    albumID,
			TargetType:  "album",
			Message:     "New comment on your album " + a.album.Title,
		}, false)
	}
	return comment, nil
}

func (s *GalleryService) AlbumComments(ctx context.Context, viewerID, albumID uint) ([]models.AlbumComment, error) {
	if _, err := s.visibleAlbum(ctx, viewerID, albumID); err != nil {
		return nil, err
	}
	return s.engagement.GetAlbumComments(ctx, albumID)
}

func (s *GalleryService) DeleteAlbumComment(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.engagement.GetAlbumCommentByID(ctx, commentID)
	if err != nil {
		return storageError(err, ErrCommentNotFound, nil)
	}
	if comment.UserID != actorID {
		a, err := s.access(ctx, actorID, comment.AlbumID)
		if err != nil {
			return err
		}
		if !a.manage() {
			return forbidden("delete this comment")
		}
	}
	return storageError(s.engagement.DeleteAlbumComment(ctx, commentID), ErrCommentNotFound, nil)
}

// LikeAlbum records a like on a visible album. Liking twice fails with ErrDuplicateLike.
func (s *GalleryService) LikeAlbum(ctx context.Context, viewerID, albumID uint) (*models.AlbumLike, error) {
	if err := requireAccount(ctx, s.users, viewerID); err != nil {
		return nil, err
	}
	a, err := s.visibleAlbum(ctx, viewerID, albumID)
	if err != nil {
		return nil, err
	}
	like := &models.AlbumLike{AlbumID: albumID, UserID: viewerID}
	if err := s.engagement.CreateAlbumLike(ctx, like); err != nil {
		return nil, storageError(err, nil, ErrDuplicateLike)
	}
	if a.album.CreatorID != nil {
		s.notifier.Notify(ctx, &models.Notification{
			Type:        models.NotificationAlbumLike,
			ActorID:     viewerID,
			RecipientID: *a.album.CreatorID,
			TargetID:    albumID,
			TargetType:  "album",
			Message:     "Someone liked your album " + a.album.Title,
		}, false)
	}
	return like, nil
}

// UnlikeAlbum removes the viewer's like if present.
func (s *GalleryService) UnlikeAlbum(ctx context.Context, viewerID, albumID uint) error {
	if _, err := s.albums.GetAlbumByID(ctx, albumID); err != nil {
		return storageError(err, ErrAlbumNotFound, nil)
	}
	return s.engagement.DeleteAlbumLike(ctx, albumID, viewerID)
}
