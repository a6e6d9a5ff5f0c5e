package admin

import (
	"errors"
	"os"

	"delivery-backend/constants"
	"delivery-backend/logger"
	"delivery-backend/middleware"
	couponModel "delivery-backend/models/coupon"
	deliveryModel "delivery-backend/models/delivery"
	pricingModel "delivery-backend/models/pricing"
	"delivery-backend/models/user"
	"delivery-backend/services/lifecycle"
	"delivery-backend/services/notify"
	"delivery-backend/services/performance"
	"delivery-backend/types"
	deliveryTypes "delivery-backend/types/delivery"
	"delivery-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminController handles the staff surface: assignments, coupons,
// price lists, account management and fleet reporting.
type AdminController struct {
	db             *gorm.DB
	engine         *lifecycle.Engine
	performance    *performance.Service
	notify         *notify.Dispatcher
	loggerInstance *logger.AsyncLogger
}

func NewAdminController(db *gorm.DB, engine *lifecycle.Engine, perf *performance.Service, dispatcher *notify.Dispatcher, asyncLogger *logger.AsyncLogger) *AdminController {
	return &AdminController{
		db:             db,
		engine:         engine,
		performance:    perf,
		notify:         dispatcher,
		loggerInstance: asyncLogger,
	}
}

func (ac *AdminController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.loggerInstance.Log(logEntry)
}

func (ac *AdminController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.logAPIRequest(c)
	return result
}

func (ac *AdminController) fail(c *fiber.Ctx, err error) error {
	status := types.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Admin request failed", err)
	}
	return ac.sendResponseWithLog(c, status, types.ApiResponse{
		Message: types.PublicMessage(err),
		Status:  status,
	})
}

// Register creates an admin account. The route is public but gated by
// the ADMIN_SECRET shared with operations staff.
func (ac *AdminController) Register(c *fiber.Ctx) error {
	var req types.AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" || req.Secret != secret {
		return ac.fail(c, types.NewUnauthorizedError("Invalid admin secret"))
	}

	var existing user.User
	if err := ac.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return ac.fail(c, types.NewConflictError("User already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ac.fail(c, err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return ac.fail(c, err)
	}

	role := user.RoleAdmin
	if req.Super {
		role = user.RoleSuperAdmin
	}
	u := user.User{
		Uuid:         uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		Valid:        true,
	}
	if err := ac.db.Create(&u).Error; err != nil {
		return ac.fail(c, err)
	}

	token, err := utils.SignUserToken(&u)
	if err != nil {
		return ac.fail(c, err)
	}

	logger.Success("Registered " + role.String() + " account " + u.Uuid)
	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Admin account created",
		Status:  fiber.StatusCreated,
		Token:   token,
		Data:    u.Public(),
	})
}

// Assign attaches or swaps a driver on a delivery.
func (ac *AdminController) Assign(c *fiber.Ctx) error {
	var req deliveryTypes.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	d, err := ac.engine.Assign(req)
	if err != nil {
		return ac.fail(c, err)
	}

	logger.Success("Driver assigned to delivery")
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Driver assigned",
		Status:  fiber.StatusOK,
		Data:    d,
	})
}

// Deliveries lists all deliveries, newest first.
func (ac *AdminController) Deliveries(c *fiber.Ctx) error {
	var deliveries []deliveryModel.Delivery
	err := ac.db.Preload("Client").Preload("Driver").
		Order("created_at DESC").Limit(200).
		Find(&deliveries).Error
	if err != nil {
		return ac.fail(c, err)
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Deliveries retrieved",
		Status:  fiber.StatusOK,
		Data:    deliveries,
	})
}

// DriverDeliveries lists one driver's deliveries.
func (ac *AdminController) DriverDeliveries(c *fiber.Ctx) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	var deliveries []deliveryModel.Delivery
	err = ac.db.Preload("Client").
		Where("driver_id = ?", id).
		Order("created_at DESC").
		Find(&deliveries).Error
	if err != nil {
		return ac.fail(c, err)
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Deliveries retrieved",
		Status:  fiber.StatusOK,
		Data:    deliveries,
	})
}

// CreateCoupon issues a coupon to a client and tells them.
func (ac *AdminController) CreateCoupon(c *fiber.Ctx) error {
	var req types.CouponCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	client, err := utils.GetUserByID(ac.db, req.ClientID)
	if err != nil {
		return ac.fail(c, types.NewNotFoundError("Client not found"))
	}

	coupon := couponModel.Coupon{
		Type:        couponModel.Type(req.Type),
		Value:       req.Value,
		Usages:      req.Usages,
		ClientID:    client.ID,
		CreatedByID: middleware.CurrentUserID(c),
		Expires:     req.Expires,
		Valid:       true,
	}
	if err := ac.db.Create(&coupon).Error; err != nil {
		return ac.fail(c, err)
	}

	ac.notify.Dispatch(notify.Payload{
		UserID:    client.ID,
		Title:     "New coupon",
		Details:   "You have received a new coupon, enjoy!",
		Category:  constants.CategorySuccess,
		Link:      constants.LinkProfile,
		PayloadID: &coupon.ID,
	})

	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Coupon created",
		Status:  fiber.StatusCreated,
		Data:    coupon,
	})
}

// Coupons lists all coupons, valid and invalid.
func (ac *AdminController) Coupons(c *fiber.Ctx) error {
	var coupons []couponModel.Coupon
	if err := ac.db.Preload("Client").Order("created_at DESC").Find(&coupons).Error; err != nil {
		return ac.fail(c, err)
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Coupons retrieved",
		Status:  fiber.StatusOK,
		Data:    coupons,
	})
}

// CancelCoupon invalidates a coupon so it can no longer be redeemed.
func (ac *AdminController) CancelCoupon(c *fiber.Ctx) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	res := ac.db.Model(&couponModel.Coupon{}).
		Where("id = ? AND valid = ?", id, true).
		Update("valid", false)
	if res.Error != nil {
		return ac.fail(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return ac.fail(c, types.NewNotFoundError("No valid coupon with that id"))
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Coupon cancelled",
		Status:  fiber.StatusOK,
	})
}

// UpdatePriceList publishes a new price table for a mode. Old rows are
// kept as history; the latest row wins.
func (ac *AdminController) UpdatePriceList(c *fiber.Ctx) error {
	var req types.PriceListRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	list := pricingModel.PriceList{
		Mode:              deliveryModel.Mode(req.Mode),
		Breakpoints:       pricingModel.BreakpointList(req.Breakpoints),
		LongDistancePrice: req.LongDistancePrice,
		UpdatedByID:       middleware.CurrentUserID(c),
	}
	if err := ac.db.Create(&list).Error; err != nil {
		return ac.fail(c, err)
	}

	logger.Success("Price list published for " + req.Mode)
	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Price list published",
		Status:  fiber.StatusCreated,
		Data:    list,
	})
}

// PriceMatrix returns the latest price list per transport mode.
func (ac *AdminController) PriceMatrix(c *fiber.Ctx) error {
	matrix := make(map[string]pricingModel.PriceList)
	for _, mode := range []deliveryModel.Mode{deliveryModel.ModeMotorcycle, deliveryModel.ModeCar, deliveryModel.ModeMiniVan} {
		var list pricingModel.PriceList
		err := ac.db.Where("mode = ?", mode).Order("created_at DESC").First(&list).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return ac.fail(c, err)
		}
		matrix[mode.String()] = list
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Price matrix retrieved",
		Status:  fiber.StatusOK,
		Data:    matrix,
	})
}

func (ac *AdminController) setUserFlag(c *fiber.Ctx, apply func(*user.User) map[string]interface{}, payload notify.Payload, message string) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	u, err := utils.GetUserByID(ac.db, id)
	if err != nil {
		return ac.fail(c, types.NewNotFoundError("User not found"))
	}

	updates := apply(u)
	if updates == nil {
		return ac.fail(c, types.NewConflictError("No change needed"))
	}
	if err := ac.db.Model(u).Updates(updates).Error; err != nil {
		return ac.fail(c, err)
	}

	payload.UserID = u.ID
	ac.notify.Dispatch(payload)

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusOK,
		Data:    u.Public(),
	})
}

// ApproveUser activates a pending account, typically a new driver.
func (ac *AdminController) ApproveUser(c *fiber.Ctx) error {
	return ac.setUserFlag(c,
		func(u *user.User) map[string]interface{} {
			if u.Valid {
				return nil
			}
			return map[string]interface{}{"valid": true}
		},
		notify.Payload{
			Title:    "Account approved",
			Details:  "Your account has been approved, welcome aboard!",
			Category: constants.CategorySuccess,
			Link:     constants.LinkAccount,
		},
		"User approved")
}

// BanUser locks an account out.
func (ac *AdminController) BanUser(c *fiber.Ctx) error {
	return ac.setUserFlag(c,
		func(u *user.User) map[string]interface{} {
			if u.Banned {
				return nil
			}
			return map[string]interface{}{"banned": true}
		},
		notify.Payload{
			Title:    "Account suspended",
			Details:  "Your account has been suspended, contact support for details.",
			Category: constants.CategoryError,
			Link:     constants.LinkAccount,
		},
		"User banned")
}

// UnbanUser reinstates a banned account.
func (ac *AdminController) UnbanUser(c *fiber.Ctx) error {
	return ac.setUserFlag(c,
		func(u *user.User) map[string]interface{} {
			if !u.Banned {
				return nil
			}
			return map[string]interface{}{"banned": false}
		},
		notify.Payload{
			Title:    "Account reinstated",
			Details:  "Your account has been reinstated, welcome back.",
			Category: constants.CategorySuccess,
			Link:     constants.LinkAccount,
		},
		"User reinstated")
}

// Users lists every account.
func (ac *AdminController) Users(c *fiber.Ctx) error {
	var users []user.User
	if err := ac.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return ac.fail(c, err)
	}

	public := make([]map[string]interface{}, len(users))
	for i := range users {
		public[i] = users[i].Public()
		public[i]["valid"] = users[i].Valid
		public[i]["banned"] = users[i].Banned
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Users retrieved",
		Status:  fiber.StatusOK,
		Data:    public,
	})
}

// Drivers lists every driver account.
func (ac *AdminController) Drivers(c *fiber.Ctx) error {
	var drivers []user.User
	if err := ac.db.Where("role = ?", user.RoleDriver).Order("created_at DESC").Find(&drivers).Error; err != nil {
		return ac.fail(c, err)
	}

	public := make([]map[string]interface{}, len(drivers))
	for i := range drivers {
		public[i] = drivers[i].Public()
		public[i]["valid"] = drivers[i].Valid
		public[i]["banned"] = drivers[i].Banned
		public[i]["staff_id"] = drivers[i].StaffID
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Drivers retrieved",
		Status:  fiber.StatusOK,
		Data:    public,
	})
}

// Performance reports fleet-wide aggregates including revenue.
func (ac *AdminController) Performance(c *fiber.Ctx) error {
	report, err := ac.performance.FleetReport()
	if err != nil {
		return ac.fail(c, err)
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Fleet performance retrieved",
		Status:  fiber.StatusOK,
		Data:    report,
	})
}
