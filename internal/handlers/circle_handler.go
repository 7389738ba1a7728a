package handlers

import (
	"net/http"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CircleHandler handles circles and memberships
type CircleHandler struct {
	circles *services.CircleService
}

func NewCircleHandler(circles *services.CircleService) *CircleHandler {
	return &CircleHandler{circles: circles}
}

// RegisterCircleRoutes registers circle-related routes
func (h *CircleHandler) RegisterCircleRoutes(g *echo.Group) {
	g.POST("/circles", h.CreateCircle)
	g.GET("/circles/mine", h.GetMyCircles)
	g.PUT("/circles/:id", h.UpdateCircle)
	g.DELETE("/circles/:id", h.DeleteCircle)
	g.POST("/circles/:id/join", h.JoinCircle)
	g.POST("/circles/:id/leave", h.LeaveCircle)
	g.POST("/circles/:id/members", h.AddMember)
	g.PUT("/circles/:id/members/:user_id/role", h.ChangeRole)
	g.DELETE("/circles/:id/members/:user_id", h.RemoveMember)
	g.POST("/circles/:id/transfer", h.TransferOwnership)
	g.GET("/circles/:id/moderation-log", h.GetModerationLog)
	h.RegisterPublicRoutes(g)
}

// RegisterPublicRoutes registers the read routes that also serve anonymous viewers.
func (h *CircleHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/circles", h.GetPublicCircles)
	g.GET("/circles/:id", h.GetCircle)
	g.GET("/circles/:id/members", h.GetMembers)
}

func (h *CircleHandler) CreateCircle(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateCircleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	circle, err := h.circles.CreateCircle(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, circle)
}

func (h *CircleHandler) GetCircle(c echo.Context) error {
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	circle, err := h.circles.GetCircle(c.Request().Context(), getUserIDFromContext(c), circleID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, circle)
}

func (h *CircleHandler) GetPublicCircles(c echo.Context) error {
	page, limit := pagination(c)
	circles, err := h.circles.PublicCircles(c.Request().Context(), page, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, circles)
}

func (h *CircleHandler) GetMyCircles(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	circles, err := h.circles.CirclesForUser(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, circles)
}

func (h *CircleHandler) UpdateCircle(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateCircleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	circle, err := h.circles.UpdateCircle(c.Request().Context(), userID, circleID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, circle)
}

func (h *CircleHandler) DeleteCircle(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.circles.DeleteCircle(c.Request().Context(), userID, circleID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CircleHandler) JoinCircle(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.circles.Join(c.Request().Context(), userID, circleID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, m)
}

func (h *CircleHandler) LeaveCircle(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.circles.Leave(c.Request().Context(), userID, circleID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddMemberRequest enrolls another user, optionally with a role above MEMBER.
type AddMemberRequest struct {
	UserID uint        `json:"user_id" validate:"required"`
	Role   models.Role `json:"role" validate:"omitempty,oneof=MEMBER MODERATOR ADMIN"`
}

func (h *CircleHandler) AddMember(c echo.Context) error {
	actorID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req AddMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.circles.AddMember(c.Request().Context(), actorID, req.UserID, circleID, req.Role)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusCreated, m)
}

func (h *CircleHandler) ChangeRole(c echo.Context) error {
	actorID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	var req models.ChangeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.circles.ChangeRole(c.Request().Context(), actorID, targetID, circleID, req.Role)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, m)
}

func (h *CircleHandler) RemoveMember(c echo.Context) error {
	actorID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.circles.RemoveMember(c.Request().Context(), actorID, targetID, circleID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CircleHandler) TransferOwnership(c echo.Context) error {
	actorID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.TransferOwnershipRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	circle, err := h.circles.TransferOwnership(c.Request().Context(), actorID, circleID, req.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, circle)
}

func (h *CircleHandler) GetMembers(c echo.Context) error {
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	members, err := h.circles.Members(c.Request().Context(), getUserIDFromContext(c), circleID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, members)
}

func (h *CircleHandler) GetModerationLog(c echo.Context) error {
	actorID, err := requireUser(c)
	if err != nil {
		return err
	}
	circleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page, limit := pagination(c)
	events, err := h.circles.ModerationLog(c.Request().Context(), actorID, circleID, page, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, events)
}
