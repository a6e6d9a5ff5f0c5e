package driver

import (
	"delivery-backend/constants"
	"delivery-backend/logger"
	"delivery-backend/middleware"
	deliveryModel "delivery-backend/models/delivery"
	"delivery-backend/services/lifecycle"
	"delivery-backend/services/location"
	"delivery-backend/services/performance"
	"delivery-backend/types"
	deliveryTypes "delivery-backend/types/delivery"
	"delivery-backend/utils"
	"delivery-backend/ws"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Reporter produces per-driver performance aggregates.
type Reporter interface {
	DriverReport(driverID uint) (*performance.Report, error)
}

// DriverController handles the dispatch rider surface: assigned
// deliveries, transition markers, live location and performance.
type DriverController struct {
	db             *gorm.DB
	engine         *lifecycle.Engine
	performance    Reporter
	locations      *location.Cache
	hub            *ws.Hub
	loggerInstance *logger.AsyncLogger
}

func NewDriverController(db *gorm.DB, engine *lifecycle.Engine, perf Reporter, locations *location.Cache, hub *ws.Hub, asyncLogger *logger.AsyncLogger) *DriverController {
	return &DriverController{
		db:             db,
		engine:         engine,
		performance:    perf,
		locations:      locations,
		hub:            hub,
		loggerInstance: asyncLogger,
	}
}

func (dc *DriverController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	dc.loggerInstance.Log(logEntry)
}

func (dc *DriverController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	dc.logAPIRequest(c)
	return result
}

func (dc *DriverController) fail(c *fiber.Ctx, err error) error {
	status := types.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Driver request failed", err)
	}
	return dc.sendResponseWithLog(c, status, types.ApiResponse{
		Message: types.PublicMessage(err),
		Status:  status,
	})
}

// Deliveries lists everything assigned to the session driver.
func (dc *DriverController) Deliveries(c *fiber.Ctx) error {
	var deliveries []deliveryModel.Delivery
	err := dc.db.Preload("Client").
		Where("driver_id = ?", middleware.CurrentUserID(c)).
		Order("created_at DESC").
		Find(&deliveries).Error
	if err != nil {
		return dc.fail(c, err)
	}

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Deliveries retrieved",
		Status:  fiber.StatusOK,
		Data:    deliveries,
	})
}

type transition func(driverID, deliveryID uint) (*deliveryModel.Delivery, error)

func (dc *DriverController) applyTransition(c *fiber.Ctx, message string, apply transition) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	d, err := apply(middleware.CurrentUserID(c), id)
	if err != nil {
		return dc.fail(c, err)
	}

	logger.Success(message)
	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusOK,
		Data:    d,
	})
}

// PickupReady marks the driver as waiting at the pickup point.
func (dc *DriverController) PickupReady(c *fiber.Ctx) error {
	return dc.applyTransition(c, "Ready for pickup", dc.engine.MarkPickupReady)
}

// DropoffReady marks the driver as waiting at the drop off point.
func (dc *DriverController) DropoffReady(c *fiber.Ctx) error {
	return dc.applyTransition(c, "Ready for drop off", dc.engine.MarkDropoffReady)
}

// Received marks the package as picked up.
func (dc *DriverController) Received(c *fiber.Ctx) error {
	return dc.applyTransition(c, "Delivery picked up successfully", dc.engine.MarkReceived)
}

// Delivered closes the delivery.
func (dc *DriverController) Delivered(c *fiber.Ctx) error {
	return dc.applyTransition(c, "Delivered successfully", dc.engine.MarkDelivered)
}

// UpdateLocation stores the driver's position in the in-memory cache
// and broadcasts the fresh snapshot to map viewers.
func (dc *DriverController) UpdateLocation(c *fiber.Ctx) error {
	var req deliveryTypes.LocationUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return dc.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return dc.fail(c, types.NewValidationError(err.Error()))
	}

	driverID := middleware.CurrentUserID(c)
	u, err := utils.GetUserByID(dc.db, driverID)
	if err != nil {
		return dc.fail(c, types.NewNotFoundError("Driver not found"))
	}

	entry := location.Entry{
		DriverID:  driverID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Heading:   req.Heading,
		Name:      u.Name,
		Phone:     u.Phone,
	}
	if u.PhotoURL != nil {
		entry.PhotoURL = *u.PhotoURL
	}
	dc.locations.Update(entry)

	dc.hub.Broadcast(constants.EventDrivers, dc.locations.Snapshot())

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Location updated",
		Status:  fiber.StatusOK,
	})
}

// Performance reports the session driver's aggregates. Staff name the
// driver to inspect with the id query parameter, since request bodies
// are unreliable on GET.
func (dc *DriverController) Performance(c *fiber.Ctx) error {
	driverID := middleware.CurrentUserID(c)
	role := middleware.CurrentRole(c)

	if role.IsStaff() {
		id := c.QueryInt("id")
		if id <= 0 {
			return dc.fail(c, types.NewValidationError("id query parameter of the driver to inspect is required"))
		}
		driverID = uint(id)
	}

	report, err := dc.performance.DriverReport(driverID)
	if err != nil {
		return dc.fail(c, err)
	}

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Performance retrieved",
		Status:  fiber.StatusOK,
		Data:    report,
	})
}
