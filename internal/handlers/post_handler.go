package handlers

import (
	"net/http"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles posts and their comments and likes
type PostHandler struct {
	feed *services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(feed *services.FeedService) *PostHandler {
	return &PostHandler{feed: feed}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/circles/:id/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/comments", h.AddComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
	h.RegisterPublicRoutes(g)
}

// RegisterPublicRoutes registers the read routes that also serve anonymous viewers.
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/circles/:id/posts", h.GetCirclePosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/comments", h.GetComments)
	g.GET("/posts/:id/stats", h.GetPostStats)
}

// CreatePost creates a new post in a circle the caller belongs to
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.feed.CreatePost(c.Request().Context(), userID, circleID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.feed.GetPost(c.Request().Context(), getUserIDFromContext(c), postID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, post)
}

func (h *PostHandler) GetCirclePosts(c echo.Context) error {
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page, limit := pagination(c)
	posts, err := h.feed.CirclePosts(c.Request().Context(), getUserIDFromContext(c), circleID, page, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, posts)
}

// UpdatePost updates an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.feed.UpdatePost(c.Request().Context(), userID, postID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, post)
}

// DeletePost deletes a post along with its comments and likes
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) AddComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.feed.AddComment(c.Request().Context(), userID, postID, req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, comment)
}

func (h *PostHandler) GetComments(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.feed.Comments(c.Request().Context(), getUserIDFromContext(c), postID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, comments)
}

func (h *PostHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.DeleteComment(c.Request().Context(), userID, commentID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LikePost likes a post; a repeated like is a conflict
func (h *PostHandler) LikePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	like, err := h.feed.Like(c.Request().Context(), userID, postID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, like)
}

// UnlikePost removes the caller's like, if any
func (h *PostHandler) UnlikePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.Unlike(c.Request().Context(), userID, postID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) GetPostStats(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.feed.PostStats(c.Request().Context(), getUserIDFromContext(c), postID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, stats)
}
