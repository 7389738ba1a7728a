package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	identity *services.IdentityService
	gallery  *services.GalleryService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(identity *services.IdentityService, gallery *services.GalleryService) *UserHandler {
	return &UserHandler{identity: identity, gallery: gallery}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.DELETE("/profile", h.DeleteUser)
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
	g.GET("/users/search", h.SearchUsers)
	h.RegisterPublicRoutes(g)
}

// RegisterPublicRoutes registers the read routes that also serve anonymous viewers.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/albums", h.GetUserAlbums)
}

// GetUser returns another user's profile, subject to profile privacy
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.identity.GetProfile(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, profile)
}

// GetProfile retrieves the authenticated user's own account
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	user, err := h.identity.GetUser(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.identity.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, user)
}

// DeleteUser deletes the authenticated user and everything they own
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.identity.DeleteUser(c.Request().Context(), userID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) GetSettings(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	settings, err := h.identity.GetSettings(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, settings)
}

func (h *UserHandler) UpdateSettings(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	settings, err := h.identity.UpdateSettings(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, settings)
}

// SearchUsers searches for users by username or display name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, err := h.identity.SearchUsers(c.Request().Context(), query, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, users)
}

// GetUserAlbums lists the albums a user created that the viewer may see
func (h *UserHandler) GetUserAlbums(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	albums, err := h.gallery.UserAlbums(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, albums)
}
