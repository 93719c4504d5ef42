package handler

import (
	"net/http"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/apperr"
	"sabitax/pkg/pagination"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/api/notifications")
	notifications.Use(middleware.RequireAuth())
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.POST("/read-all", h.MarkAllRead)
	}
}

// List returns the user's in-app notifications
// @Summary      List notifications
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        unread_only  query     bool  false  "Only unread"
// @Param        page         query     int   false  "Page number (default 1)"
// @Param        limit        query     int   false  "Items per page (default 20)"
// @Success      200          {object}  response.Response{data=service.NotificationListResponse}
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	params := pagination.Parse(c)

	unreadOnly := c.Query("unread_only") == "true"

	list, err := h.notificationService.List(c.Request.Context(), userID, unreadOnly, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, list, params.Meta(list.Total)))
}

// MarkRead marks one notification as read
// @Summary      Mark notification read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.BadRequest("invalid notification id"))
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Notification marked as read"}))
}

// MarkAllRead marks every unread notification as read
// @Summary      Mark all notifications read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	affected, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"updated": affected}))
}
