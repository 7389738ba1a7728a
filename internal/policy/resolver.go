package policy

import (
	"context"
	"errors"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/repositories"
)

type circleReader interface {
	GetCircleByID(ctx context.Context, id uint) (*models.Circle, error)
}

type membershipReader interface {
	GetMembership(ctx context.Context, userID, circleID uint) (*models.Membership, error)
}

type followReader interface {
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
}

// Resolver loads memberships, circles and follow edges to answer visibility
// and standing questions. viewerID 0 is the anonymous viewer.
type Resolver struct {
	circles          circleReader
	memberships      membershipReader
	follows          followReader
	followersCanView bool
}

// NewResolver creates a Resolver. followersCanView lets followers see private profiles.
func NewResolver(circles circleReader, memberships membershipReader, follows followReader, followersCanView bool) *Resolver {
	return &Resolver{
		circles:          circles,
		memberships:      memberships,
		follows:          follows,
		followersCanView: followersCanView,
	}
}

// Standing loads userID's position in circle.
func (r *Resolver) Standing(ctx context.Context, userID uint, circle *models.Circle) (Standing, error) {
	s := Standing{UserID: userID, CircleID: circle.ID, IsCreator: userID != 0 && circle.CreatorID == userID}
	if userID == 0 {
		return s, nil
	}
	m, err := r.memberships.GetMembership(ctx, userID, circle.ID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	s.Role = m.Role
	return s, nil
}

func (r *Resolver) isMember(ctx context.Context, viewerID uint, circle *models.Circle) (bool, error) {
	s, err := r.Standing(ctx, viewerID, circle)
	if err != nil {
		return false, err
	}
	return s.IsMember(), nil
}

// CanViewCircleContent reports whether viewerID may read posts and albums listed under circle.
func (r *Resolver) CanViewCircleContent(ctx context.Context, viewerID uint, circle *models.Circle) (bool, error) {
	if !circle.IsPrivate {
		return true, nil
	}
	member, err := r.isMember(ctx, viewerID, circle)
	if err != nil {
		return false, err
	}
	return CircleContentVisible(circle, member), nil
}

// CanViewPost loads the post's circle and applies PostVisible.
func (r *Resolver) CanViewPost(ctx context.Context, viewerID uint, post *models.Post) (bool, error) {
	circle, err := r.circles.GetCircleByID(ctx, post.CircleID)
	if err != nil {
		return false, err
	}
	member, err := r.isMember(ctx, viewerID, circle)
	if err != nil {
		return false, err
	}
	return PostVisible(circle, member), nil
}

// CanViewAlbum loads the album's circle, if any, and applies AlbumVisible.
func (r *Resolver) CanViewAlbum(ctx context.Context, viewerID uint, album *models.Album) (bool, error) {
	var circle *models.Circle
	member := false
	if album.CircleID != nil {
		c, err := r.circles.GetCircleByID(ctx, *album.CircleID)
		if err != nil {
			return false, err
		}
		circle = c
		if member, err = r.isMember(ctx, viewerID, circle); err != nil {
			return false, err
		}
	}
	return AlbumVisible(viewerID, album, circle, member), nil
}

// CanViewProfile applies ProfileVisible, consulting the follow graph only when it matters.
func (r *Resolver) CanViewProfile(ctx context.Context, viewerID uint, owner *models.User) (bool, error) {
	follows := false
	if owner.ProfilePrivate() && r.followersCanView && viewerID != 0 && viewerID != owner.ID {
		var err error
		if follows, err = r.follows.IsFollowing(ctx, viewerID, owner.ID); err != nil {
			return false, err
		}
	}
	return ProfileVisible(viewerID, owner, follows, r.followersCanView), nil
}
