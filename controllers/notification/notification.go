package notification

import (
	"delivery-backend/logger"
	"delivery-backend/middleware"
	notificationModel "delivery-backend/models/notification"
	"delivery-backend/models/user"
	"delivery-backend/types"
	"delivery-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotificationController serves a user's notification feed and the
// delivery-channel registration endpoints (push token, socket id).
type NotificationController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewNotificationController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *NotificationController {
	return &NotificationController{db: db, loggerInstance: asyncLogger}
}

func (nc *NotificationController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	nc.loggerInstance.Log(logEntry)
}

func (nc *NotificationController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	nc.logAPIRequest(c)
	return result
}

func (nc *NotificationController) fail(c *fiber.Ctx, err error) error {
	status := types.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Notification request failed", err)
	}
	return nc.sendResponseWithLog(c, status, types.ApiResponse{
		Message: types.PublicMessage(err),
		Status:  status,
	})
}

// Index returns the newest notifications for the session user and
// marks the returned ones delivered.
func (nc *NotificationController) Index(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var notifications []notificationModel.Notification
	err := nc.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(100).
		Find(&notifications).Error
	if err != nil {
		return nc.fail(c, err)
	}

	undelivered := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		if !n.Delivered {
			undelivered = append(undelivered, n.ID)
		}
	}
	if len(undelivered) > 0 {
		if err := nc.db.Model(&notificationModel.Notification{}).
			Where("id IN ?", undelivered).
			Update("delivered", true).Error; err != nil {
			return nc.fail(c, err)
		}
	}

	return nc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Notifications retrieved",
		Status:  fiber.StatusOK,
		Data:    notifications,
	})
}

// Read marks one notification read. Users can only touch their own.
func (nc *NotificationController) Read(c *fiber.Ctx) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return nc.fail(c, types.NewValidationError(err.Error()))
	}

	res := nc.db.Model(&notificationModel.Notification{}).
		Where("id = ? AND user_id = ?", id, middleware.CurrentUserID(c)).
		Updates(map[string]interface{}{"read": true, "delivered": true})
	if res.Error != nil {
		return nc.fail(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return nc.fail(c, types.NewNotFoundError("Notification not found"))
	}

	return nc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Notification read",
		Status:  fiber.StatusOK,
	})
}

// ReadAll marks every notification of the session user read.
func (nc *NotificationController) ReadAll(c *fiber.Ctx) error {
	err := nc.db.Model(&notificationModel.Notification{}).
		Where("user_id = ? AND read = ?", middleware.CurrentUserID(c), false).
		Updates(map[string]interface{}{"read": true, "delivered": true}).Error
	if err != nil {
		return nc.fail(c, err)
	}

	return nc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "All notifications read",
		Status:  fiber.StatusOK,
	})
}

// StorePushToken saves the device push token for the session user.
func (nc *NotificationController) StorePushToken(c *fiber.Ctx) error {
	var req types.PushTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return nc.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return nc.fail(c, types.NewValidationError(err.Error()))
	}

	err := nc.db.Model(&user.User{}).
		Where("id = ?", middleware.CurrentUserID(c)).
		Update("push_token", req.Token).Error
	if err != nil {
		return nc.fail(c, err)
	}

	return nc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Push token stored",
		Status:  fiber.StatusOK,
	})
}

// StoreSocket saves the live websocket id handed out by the hub so
// realtime notifications reach the right connection.
func (nc *NotificationController) StoreSocket(c *fiber.Ctx) error {
	var req types.SocketRequest
	if err := c.BodyParser(&req); err != nil {
		return nc.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return nc.fail(c, types.NewValidationError(err.Error()))
	}

	err := nc.db.Model(&user.User{}).
		Where("id = ?", middleware.CurrentUserID(c)).
		Update("socket_id", req.SocketID).Error
	if err != nil {
		return nc.fail(c, err)
	}

	return nc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Socket registered",
		Status:  fiber.StatusOK,
	})
}
