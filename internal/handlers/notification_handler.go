package handlers

import (
	"context"
	"math"
	"net/http"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
	identity      *services.IdentityService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, identity *services.IdentityService) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		identity:      identity,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

// enrich attaches the acting user. Actors deleted since the event keep a zero value.
func (h *NotificationHandler) enrich(ctx context.Context, notifications []models.Notification, cache map[uint]models.UserCompact) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := cache[n.ActorID]; ok {
			enriched[i].Actor = actor
			continue
		}
		user, err := h.identity.GetUser(ctx, n.ActorID)
		if err != nil {
			continue
		}
		cache[n.ActorID] = user.Compact()
		enriched[i].Actor = cache[n.ActorID]
	}
	return enriched
}

// GetNotifications returns paginated notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	ctx := c.Request().Context()
	notifications, total, err := h.notifications.List(ctx, userID, page, limit)
	if err != nil {
		return toHTTPError(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	enriched := h.enrich(ctx, notifications, map[uint]models.UserCompact{})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": enriched,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      total,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	groups, err := h.notifications.Grouped(ctx, userID)
	if err != nil {
		return toHTTPError(err)
	}
	unreadCount, err := h.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return toHTTPError(err)
	}

	cache := map[uint]models.UserCompact{}
	grouped := make(echo.Map, len(groups))
	for bucket, list := range groups {
		grouped[bucket] = h.enrich(ctx, list, cache)
	}

	return ok(c, http.StatusOK, echo.Map{
		"notifications": grouped,
		"unreadCount":   unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	notificationID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.MarkRead(c.Request().Context(), userID, notificationID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAllRead(c.Request().Context(), userID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"success": true})
}
