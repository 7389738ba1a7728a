package handlers

import (
	"net/http"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AlbumHandler handles albums, photos and album engagement
type AlbumHandler struct {
	gallery *services.GalleryService
}

func NewAlbumHandler(gallery *services.GalleryService) *AlbumHandler {
	return &AlbumHandler{gallery: gallery}
}

// RegisterAlbumRoutes registers album-related routes
func (h *AlbumHandler) RegisterAlbumRoutes(g *echo.Group) {
	g.POST("/albums", h.CreateAlbum)
	g.PUT("/albums/:id", h.UpdateAlbum)
	g.DELETE("/albums/:id", h.DeleteAlbum)
	g.POST("/albums/:id/photos", h.AddPhoto)
	g.DELETE("/photos/:id", h.DeletePhoto)
	g.POST("/albums/:id/comments", h.AddComment)
	g.DELETE("/album-comments/:id", h.DeleteComment)
	g.POST("/albums/:id/like", h.LikeAlbum)
	g.DELETE("/albums/:id/like", h.UnlikeAlbum)
	h.RegisterPublicRoutes(g)
}

// RegisterPublicRoutes registers the read routes that also serve anonymous viewers.
func (h *AlbumHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/albums/:id", h.GetAlbum)
	g.GET("/albums/:id/comments", h.GetComments)
	g.GET("/circles/:id/albums", h.GetCircleAlbums)
}

func (h *AlbumHandler) CreateAlbum(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateAlbumRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	album, err := h.gallery.CreateAlbum(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, album)
}

func (h *AlbumHandler) GetAlbum(c echo.Context) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	album, err := h.gallery.GetAlbum(c.Request().Context(), getUserIDFromContext(c), albumID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, album)
}

func (h *AlbumHandler) GetCircleAlbums(c echo.Context) error {
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	albums, err := h.gallery.CircleAlbums(c.Request().Context(), getUserIDFromContext(c), circleID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, albums)
}

func (h *AlbumHandler) UpdateAlbum(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateAlbumRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	album, err := h.gallery.UpdateAlbum(c.Request().Context(), userID, albumID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, album)
}

func (h *AlbumHandler) DeleteAlbum(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.gallery.DeleteAlbum(c.Request().Context(), userID, albumID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AlbumHandler) AddPhoto(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.AddPhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	photo, err := h.gallery.AddPhoto(c.Request().Context(), userID, albumID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, photo)
}

func (h *AlbumHandler) DeletePhoto(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	photoID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.gallery.DeletePhoto(c.Request().Context(), userID, photoID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AlbumHandler) AddComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateAlbumCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.gallery.CommentOnAlbum(c.Request().Context(), userID, albumID, req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, comment)
}

func (h *AlbumHandler) GetComments(c echo.Context) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.gallery.AlbumComments(c.Request().Context(), getUserIDFromContext(c), albumID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, comments)
}

func (h *AlbumHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.gallery.DeleteAlbumComment(c.Request().Context(), userID, commentID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AlbumHandler) LikeAlbum(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	like, err := h.gallery.LikeAlbum(c.Request().Context(), userID, albumID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, like)
}

func (h *AlbumHandler) UnlikeAlbum(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	albumID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.gallery.UnlikeAlbum(c.Request().Context(), userID, albumID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
