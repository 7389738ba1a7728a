package handlers

import (
	"net/http"

	"github.com/anonto42/circles/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns posts from followed users and the caller, newest first,
// restricted to what the caller may see.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	posts, err := h.feed.Feed(c.Request().Context(), userID, page, limit)
	if err != nil {
		return toHTTPError(err)
	}

	return ok(c, http.StatusOK, echo.Map{"posts": posts})
}
