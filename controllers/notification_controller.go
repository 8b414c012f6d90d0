package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/middleware"
	"helpnet/models"
	"helpnet/services"
	"helpnet/utils"
)

type NotificationController struct {
	notificationService *services.NotificationService
}

func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var q models.ListNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ValidationErrorResponse(c, "Invalid query parameters")
		return
	}

	notifications, meta, err := nc.notificationService.ListForUser(c.Request.Context(), userID, q)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "Notifications retrieved successfully", notifications, meta)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("notificationId"))
	if err != nil {
		utils.ErrorResponse(c, utils.NewValidationError("invalid notification ID", nil))
		return
	}

	notification, err := nc.notificationService.MarkAsRead(c.Request.Context(), id, userID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", notification)
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	count, err := nc.notificationService.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notifications marked as read", gin.H{"updated": count})
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	count, err := nc.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Unread count retrieved successfully", gin.H{"count": count})
}
