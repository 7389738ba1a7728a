package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/policy"
	"github.com/anonto42/circles/backend/internal/repositories"
)

const maxCommentLength = 500

// FeedService handles posts, comments and likes inside circles.
type FeedService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	circles  repositories.CircleRepository
	resolver *policy.Resolver
	counters *Counters
	notifier *NotificationService
	modlog   moderationLog
}

func NewFeedService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	follows repositories.FollowRepository,
	users repositories.UserRepository,
	circles repositories.CircleRepository,
	resolver *policy.Resolver,
	counters *Counters,
	notifier *NotificationService,
	modlog repositories.ModerationLogRepository,
) *FeedService {
	return &FeedService{
		posts:    posts,
		comments: comments,
		likes:    likes,
		follows:  follows,
		users:    users,
		circles:  circles,
		resolver: resolver,
		counters: counters,
		notifier: notifier,
		modlog:   moderationLog{repo: modlog},
	}
}

func (s *FeedService) loadCircle(ctx context.Context, circleID uint) (*models.Circle, error) {
	circle, err := s.circles.GetCircleByID(ctx, circleID)
	return circle, storageError(err, ErrCircleNotFound, nil)
}

// visiblePost loads a post and checks that viewerID may see it.
func (s *FeedService) visiblePost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, storageError(err, ErrPostNotFound, nil)
	}
	ok, err := s.resolver.CanViewPost(ctx, viewerID, post)
	if err != nil {
		return nil, storageError(err, ErrCircleNotFound, nil)
	}
	if !ok {
		return nil, forbidden("view this post")
	}
	return post, nil
}

// CreatePost publishes into a circle. Only members may post.
func (s *FeedService) CreatePost(ctx context.Context, authorID, circleID uint, req models.CreatePostRequest) (*models.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" && req.VideoURL == "" {
		return nil, validationError("post needs content or media")
	}
	if err := requireAccount(ctx, s.users, authorID); err != nil {
		return nil, err
	}
	circle, err := s.loadCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	st, err := s.resolver.Standing(ctx, authorID, circle)
	if err != nil {
		return nil, err
	}
	if !st.IsMember() {
		return nil, forbidden("post in a circle you are not a member of")
	}
	post := &models.Post{
		CircleID: circleID,
		UserID:   authorID,
		Content:  content,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, storageError(err, nil, nil)
	}
	return post, nil
}

// GetPost returns the post enriched for viewerID, or ErrForbidden.
func (s *FeedService) GetPost(ctx context.Context, viewerID, postID uint) (*models.EnrichedPost, error) {
	post, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrich(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// CirclePosts lists a circle's posts, newest first.
func (s *FeedService) CirclePosts(ctx context.Context, viewerID, circleID uint, page, limit int) ([]models.EnrichedPost, error) {
	circle, err := s.loadCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	ok, err := s.resolver.CanViewCircleContent(ctx, viewerID, circle)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden("view posts in this circle")
	}
	page, limit = normalizePage(page, limit)
	posts, err := s.posts.GetPostsByCircleID(ctx, circleID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, viewerID, posts)
}

// Feed lists posts by the viewer and the users they follow that the viewer may see.
func (s *FeedService) Feed(ctx context.Context, viewerID uint, page, limit int) ([]models.EnrichedPost, error) {
	authors, err := s.follows.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authors = append(authors, viewerID)
	page, limit = normalizePage(page, limit)
	posts, err := s.posts.GetFeed(ctx, viewerID, authors, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, viewerID, posts)
}

// UpdatePost edits a post. Only its author may.
func (s *FeedService) UpdatePost(ctx context.Context, actorID, postID uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, storageError(err, ErrPostNotFound, nil)
	}
	if post.UserID != actorID {
		return nil, forbidden("edit someone else's post")
	}
	if req.Content != nil {
		post.Content = strings.TrimSpace(*req.Content)
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.VideoURL != nil {
		post.VideoURL = *req.VideoURL
	}
	if post.Content == "" && post.ImageURL == "" && post.VideoURL == "" {
		return nil, validationError("post needs content or media")
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. Authors may delete their own; the circle's
// creator and ADMINs may delete anyone's.
func (s *FeedService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return storageError(err, ErrPostNotFound, nil)
	}
	moderated := post.UserID != actorID
	if moderated {
		circle, err := s.loadCircle(ctx, post.CircleID)
		if err != nil {
			return err
		}
		st, err := s.resolver.Standing(ctx, actorID, circle)
		if err != nil {
			return err
		}
		if !policy.Allowed(st, policy.ActionDeleteOthersPost) {
			return forbidden("delete someone else's post")
		}
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return storageError(err, ErrPostNotFound, nil)
	}
	if moderated {
		s.modlog.record(ctx, post.CircleID, actorID, models.ModerationPostRemoved, post.ID,
			map[string]string{"author_id": uintString(post.UserID)})
	}
	return nil
}

// AddComment comments on a post the viewer can see.
func (s *FeedService) AddComment(ctx context.Context, viewerID, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxCommentLength {
		return nil, validationError("comment must be 1 to %d characters", maxCommentLength)
	}
	if err := requireAccount(ctx, s.users, viewerID); err != nil {
		return nil, err
	}
	post, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{PostID: post.ID, UserID: viewerID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, storageError(err, nil, nil)
	}
	s.notifier.Notify(ctx, &models.Notification{
		Type:        models.NotificationComment,
		ActorID:     viewerID,
		RecipientID: post.UserID,
		TargetID:    post.ID,
		TargetType:  "post",
		Message:     "New comment on your post",
	}, false)
	return comment, nil
}

func (s *FeedService) Comments(ctx context.Context, viewerID, postID uint) ([]models.Comment, error) {
	if _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	return s.comments.GetCommentsByPostID(ctx, postID)
}

// DeleteComment removes a comment. Allowed for the comment's author, the
// post's author, and circle MODERATORs and above.
func (s *FeedService) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return storageError(err, ErrCommentNotFound, nil)
	}
	var moderatedIn uint
	if comment.UserID != actorID {
		post, err := s.posts.GetPostByID(ctx, comment.PostID)
		if err != nil {
			return storageError(err, ErrPostNotFound, nil)
		}
		if post.UserID != actorID {
			circle, err := s.loadCircle(ctx, post.CircleID)
			if err != nil {
				return err
			}
			st, err := s.resolver.Standing(ctx, actorID, circle)
			if err != nil {
				return err
			}
			if !policy.Allowed(st, policy.ActionDeleteOthersComment) {
				return forbidden("delete this comment")
			}
			moderatedIn = circle.ID
		}
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return storageError(err, ErrCommentNotFound, nil)
	}
	if moderatedIn != 0 {
		s.modlog.record(ctx, moderatedIn, actorID, models.ModerationCommentRemoved, comment.ID,
			map[string]string{"author_id": uintString(comment.UserID)})
	}
	return nil
}

// Like records a like on a visible post. Liking twice fails with ErrDuplicateLike.
func (s *FeedService) Like(ctx context.Context, viewerID, postID uint) (*models.Like, error) {
	if err := requireAccount(ctx, s.users, viewerID); err != nil {
		return nil, err
	}
	post, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	like := &models.Like{PostID: post.ID, UserID: viewerID}
	if err := s.likes.CreateLike(ctx, like); err != nil {
		return nil, storageError(err, nil, ErrDuplicateLike)
	}
	s.notifier.Notify(ctx, &models.Notification{
		Type:        models.NotificationLike,
		ActorID:     viewerID,
		RecipientID: post.UserID,
		TargetID:    post.ID,
		TargetType:  "post",
		Message:     "Someone liked your post",
	}, false)
	return like, nil
}

// Unlike removes the viewer's like. Unliking a post that was not liked succeeds.
func (s *FeedService) Unlike(ctx context.Context, viewerID, postID uint) error {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return storageError(err, ErrPostNotFound, nil)
	}
	return s.likes.DeleteLike(ctx, postID, viewerID)
}

// PostStats returns derived counts for a visible post.
func (s *FeedService) PostStats(ctx context.Context, viewerID, postID uint) (models.PostStats, error) {
	if _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return models.PostStats{}, err
	}
	return s.counters.PostStats(ctx, postID)
}

func (s *FeedService) enrich(ctx context.Context, viewerID uint, posts []models.Post) ([]models.EnrichedPost, error) {
	out := make([]models.EnrichedPost, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	authorIDs := make([]uint, 0, len(posts))
	postIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool)
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.UserCompact, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].Compact()
	}

	liked, err := s.likes.GetLikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	likedSet := make(map[uint]bool, len(liked))
	for _, id := range liked {
		likedSet[id] = true
	}

	stats, err := s.counters.PostStatsFor(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		out = append(out, models.EnrichedPost{
			Post:      p,
			PostStats: stats[p.ID],
			Author:    byID[p.UserID],
			IsLiked:   likedSet[p.ID],
		})
	}
	return out, nil
}
