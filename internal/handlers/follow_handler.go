package handlers

import (
	"net/http"

	"github.com/anonto42/circles/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.follows.Follow(c.Request().Context(), currentUserID, targetID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"following": true})
}

// UnfollowUser unfollows a user. Unfollowing someone you do not follow succeeds.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(c.Request().Context(), currentUserID, targetID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"following": false})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	viewerID, err := requireUser(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Followers(c.Request().Context(), viewerID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, users)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	viewerID, err := requireUser(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Following(c.Request().Context(), viewerID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, users)
}
