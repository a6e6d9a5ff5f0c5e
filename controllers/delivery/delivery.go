package delivery

import (
	"errors"

	"delivery-backend/logger"
	"delivery-backend/middleware"
	deliveryModel "delivery-backend/models/delivery"
	"delivery-backend/models/user"
	"delivery-backend/services/lifecycle"
	"delivery-backend/services/pricing"
	"delivery-backend/types"
	deliveryTypes "delivery-backend/types/delivery"
	"delivery-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeliveryController handles the client-facing delivery surface.
type DeliveryController struct {
	db             *gorm.DB
	engine         *lifecycle.Engine
	pricing        *pricing.Engine
	loggerInstance *logger.AsyncLogger
}

func NewDeliveryController(db *gorm.DB, engine *lifecycle.Engine, pricingEngine *pricing.Engine, asyncLogger *logger.AsyncLogger) *DeliveryController {
	return &DeliveryController{
		db:             db,
		engine:         engine,
		pricing:        pricingEngine,
		loggerInstance: asyncLogger,
	}
}

func (dc *DeliveryController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	dc.loggerInstance.Log(logEntry)
}

func (dc *DeliveryController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	dc.logAPIRequest(c)
	return result
}

func (dc *DeliveryController) fail(c *fiber.Ctx, err error) error {
	status := types.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Delivery request failed", err)
	}
	return dc.sendResponseWithLog(c, status, types.ApiResponse{
		Message: types.PublicMessage(err),
		Status:  status,
	})
}

// Quote prices a prospective delivery, including a coupon preview,
// without creating anything.
func (dc *DeliveryController) Quote(c *fiber.Ctx) error {
	var req deliveryTypes.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return dc.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	quote, err := dc.pricing.QuoteWithCoupons(middleware.CurrentUserID(c), req)
	if err != nil {
		return dc.fail(c, err)
	}

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Quote calculated",
		Status:  fiber.StatusOK,
		Data:    quote,
	})
}

// Store creates a delivery.
func (dc *DeliveryController) Store(c *fiber.Ctx) error {
	var req deliveryTypes.CreateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return dc.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	d, err := dc.engine.Create(middleware.CurrentUserID(c), middleware.CurrentRole(c), req)
	if err != nil {
		return dc.fail(c, err)
	}

	logger.Success("Delivery created")
	return dc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Delivery created successfully",
		Status:  fiber.StatusCreated,
		Data:    d,
	})
}

// Index lists the session user's deliveries (as client or driver).
func (dc *DeliveryController) Index(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	role := middleware.CurrentRole(c)

	query := dc.db.Preload("Client").Preload("Driver").Order("created_at DESC")
	switch {
	case role.IsStaff():
		// Staff use the admin listing; here they see everything too.
	case role == user.RoleDriver:
		query = query.Where("driver_id = ?", userID)
	default:
		query = query.Where("client_id = ?", userID)
	}

	var deliveries []deliveryModel.Delivery
	if err := query.Limit(100).Find(&deliveries).Error; err != nil {
		return dc.fail(c, err)
	}

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Deliveries retrieved",
		Status:  fiber.StatusOK,
		Data:    deliveries,
	})
}

// Show returns one delivery to its client, its driver or staff.
func (dc *DeliveryController) Show(c *fiber.Ctx) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	var d deliveryModel.Delivery
	if err := dc.db.Preload("Client").Preload("Driver").First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dc.fail(c, types.NewNotFoundError("Delivery not found"))
		}
		return dc.fail(c, err)
	}

	userID := middleware.CurrentUserID(c)
	role := middleware.CurrentRole(c)
	isDriver := d.DriverID != nil && *d.DriverID == userID
	if !role.IsStaff() && d.ClientID != userID && !isDriver {
		return dc.fail(c, types.NewForbiddenError("Not authorized for this delivery"))
	}

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Delivery retrieved",
		Status:  fiber.StatusOK,
		Data:    d,
	})
}

// Cancel aborts an active delivery.
func (dc *DeliveryController) Cancel(c *fiber.Ctx) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	var req deliveryTypes.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return dc.fail(c, types.NewValidationError("Invalid request body"))
		}
	}
	if err := req.Validate(); err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	d, err := dc.engine.Cancel(middleware.CurrentUserID(c), middleware.CurrentRole(c), id, req)
	if err != nil {
		return dc.fail(c, err)
	}

	logger.Success("Delivery cancelled")
	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Delivery cancelled",
		Status:  fiber.StatusOK,
		Data:    d,
	})
}

// Review rates the driver of a finished delivery.
func (dc *DeliveryController) Review(c *fiber.Ctx) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	var req deliveryTypes.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return dc.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	r, err := dc.engine.Review(middleware.CurrentUserID(c), id, req)
	if err != nil {
		return dc.fail(c, err)
	}

	return dc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Review submitted",
		Status:  fiber.StatusCreated,
		Data:    r,
	})
}
