package services

import (
	"context"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/repositories"
)

// Counters derives every count from its edge table. Nothing is cached, so a
// count can never drift from the rows it describes.
type Counters struct {
	likes       repositories.LikeRepository
	comments    repositories.CommentRepository
	memberships repositories.MembershipRepository
	follows     repositories.FollowRepository
	albums      repositories.AlbumRepository
	engagement  repositories.AlbumEngagementRepository
}

func NewCounters(
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	memberships repositories.MembershipRepository,
	follows repositories.FollowRepository,
	albums repositories.AlbumRepository,
	engagement repositories.AlbumEngagementRepository,
) *Counters {
	return &Counters{
		likes:       likes,
		comments:    comments,
		memberships: memberships,
		follows:     follows,
		albums:      albums,
		engagement:  engagement,
	}
}

func (c *Counters) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return c.likes.GetLikesCountByPostID(ctx, postID)
}

func (c *Counters) CommentCount(ctx context.Context, postID uint) (int64, error) {
	return c.comments.GetCommentsCount(ctx, postID)
}

func (c *Counters) MemberCount(ctx context.Context, circleID uint) (int64, error) {
	return c.memberships.GetMembersCount(ctx, circleID)
}

func (c *Counters) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	return c.follows.GetFollowersCount(ctx, userID)
}

func (c *Counters) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	return c.follows.GetFollowingCount(ctx, userID)
}

func (c *Counters) PostStats(ctx context.Context, postID uint) (models.PostStats, error) {
	var stats models.PostStats
	var err error
	if stats.LikesCount, err = c.LikeCount(ctx, postID); err != nil {
		return stats, err
	}
	stats.CommentsCount, err = c.CommentCount(ctx, postID)
	return stats, err
}

// PostStatsFor derives stats for a page of posts with one grouped query per
// edge table. Every requested post has an entry.
func (c *Counters) PostStatsFor(ctx context.Context, postIDs []uint) (map[uint]models.PostStats, error) {
	likes, err := c.likes.GetLikesCountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := c.comments.GetCommentsCountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	stats := make(map[uint]models.PostStats, len(postIDs))
	for _, id := range postIDs {
		stats[id] = models.PostStats{LikesCount: likes[id], CommentsCount: comments[id]}
	}
	return stats, nil
}

func (c *Counters) AlbumStats(ctx context.Context, albumID uint) (models.AlbumStats, error) {
	var stats models.AlbumStats
	var err error
	if stats.PhotosCount, err = c.albums.GetPhotosCount(ctx, albumID); err != nil {
		return stats, err
	}
	if stats.LikesCount, err = c.engagement.GetAlbumLikesCount(ctx, albumID); err != nil {
		return stats, err
	}
	stats.CommentsCount, err = c.engagement.GetAlbumCommentsCount(ctx, albumID)
	return stats, err
}
