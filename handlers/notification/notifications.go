package notification

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/services"
	"github.com/umsams/umsams-api/utils/middleware"
	"github.com/umsams/umsams-api/utils/response"
	"github.com/umsams/umsams-api/utils/validation"
	"gorm.io/gorm"
)

// NotificationHandler handles user notification requests
type NotificationHandler struct {
	notifications *services.NotificationService
	validator     *validation.Validator
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		notifications: services.NewNotificationService(db),
		validator:     validation.NewValidator(),
	}
}

// CreateNotificationRequest represents an admin-created notification
type CreateNotificationRequest struct {
	UserID  uint   `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Create creates a notification for a user; admins only
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var req CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	notification, err := h.notifications.CreateNotification(c.Context(), req.UserID, req.Message)
	if err != nil {
		return response.InternalServerError(c, "Failed to create notification")
	}

	return response.Created(c, notification)
}

// ListMine returns the authenticated user's notifications
func (h *NotificationHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	notifications, err := h.notifications.ListNotificationsForUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	return response.Success(c, notifications)
}

// ListUnread returns the authenticated user's unread notifications
func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	notifications, err := h.notifications.ListUnreadForUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	return response.Success(c, notifications)
}

// MarkRead marks one of the authenticated user's notifications as read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid notification ID")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	notification, err := h.notifications.MarkAsRead(c.Context(), uint(id), userID)
	if err != nil {
		if err == services.ErrNotificationNotFound {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification as read")
	}

	return response.Success(c, notification)
}

// MarkAllRead marks every unread notification for the authenticated user as read
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	count, err := h.notifications.MarkAllAsRead(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to mark notifications as read")
	}

	return response.Success(c, fiber.Map{"marked_read": count})
}
