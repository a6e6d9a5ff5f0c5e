package auth

import (
	"errors"
	"time"

	"delivery-backend/constants"
	"delivery-backend/logger"
	"delivery-backend/middleware"
	deliveryModel "delivery-backend/models/delivery"
	"delivery-backend/models/user"
	"delivery-backend/services/notify"
	"delivery-backend/types"
	"delivery-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthController handles registration, login and profile reads.
type AuthController struct {
	db             *gorm.DB
	notify         *notify.Dispatcher
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, dispatcher *notify.Dispatcher, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{db: db, notify: dispatcher, loggerInstance: asyncLogger}
}

func (ac *AuthController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.loggerInstance.Log(logEntry)
}

func (ac *AuthController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.logAPIRequest(c)
	return result
}

func (ac *AuthController) fail(c *fiber.Ctx, err error) error {
	status := types.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Auth request failed", err)
	}
	return ac.sendResponseWithLog(c, status, types.ApiResponse{
		Message: types.PublicMessage(err),
		Status:  status,
	})
}

// Register creates a client or driver account and issues a session
// token. Drivers stay invalid until an admin approves them.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req types.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}
	if !utils.ValidatePhoneNumber(req.Phone) {
		return ac.fail(c, types.NewValidationError("Invalid phone number format"))
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

	u := user.User{
		Uuid:         uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         user.Role(req.Role),
		Valid:        true,
	}
	if u.Role == user.RoleDriver {
		// Approval flips this back on.
		u.Valid = false
		staffID := req.StaffID
		u.StaffID = &staffID
	}
	if req.PhotoURL != "" {
		photo := req.PhotoURL
		u.PhotoURL = &photo
	}
	if req.Birthday != "" {
		if birthday, err := time.Parse("2006-01-02", req.Birthday); err == nil {
			u.Birthday = &birthday
		}
	}

	if err := ac.db.Create(&u).Error; err != nil {
		return ac.fail(c, err)
	}

	token, err := utils.SignUserToken(&u)
	if err != nil {
		return ac.fail(c, err)
	}

	ac.notify.Dispatch(notify.Payload{
		UserID:   u.ID,
		Title:    "New Account",
		Details:  "Welcome " + u.Name + ", your account has been created successfully",
		Category: constants.CategorySuccess,
		Link:     constants.LinkAccount,
	})

	logger.Success("Registered " + u.Role.String() + " account " + u.Uuid)
	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Account created successfully",
		Status:  fiber.StatusCreated,
		Token:   token,
		Data:    u.Public(),
	})
}

// Login exchanges email/password for a session token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.fail(c, types.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return ac.fail(c, types.NewValidationError(err.Error()))
	}

	u, err := utils.GetUserByEmail(ac.db, req.Email)
	if err != nil || !utils.CheckPasswordHash(req.Password, u.PasswordHash) {
		return ac.fail(c, types.NewUnauthorizedError("Invalid credentials"))
	}
	if u.Banned {
		return ac.fail(c, types.NewForbiddenError("Account is banned"))
	}

	token, err := utils.SignUserToken(u)
	if err != nil {
		return ac.fail(c, err)
	}

	logger.Success("Login for user " + u.Uuid)
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Login successful",
		Status:  fiber.StatusOK,
		Token:   token,
		Data:    u.Public(),
	})
}

// Profile returns the session user plus their recent delivery history.
func (ac *AuthController) Profile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	role := middleware.CurrentRole(c)

	u, err := utils.GetUserByID(ac.db, userID)
	if err != nil {
		return ac.fail(c, types.NewNotFoundError("User not found"))
	}

	data := fiber.Map{"user": u.Public()}
	if u.Birthday != nil {
		years, months, days := utils.CalculateAge(*u.Birthday, time.Now())
		data["age"] = fiber.Map{"years": years, "months": months, "days": days}
	}

	var deliveries []deliveryModel.Delivery
	switch role {
	case user.RoleClient:
		if err := ac.db.Preload("Driver").
			Where("client_id = ?", userID).
			Order("created_at DESC").Limit(20).
			Find(&deliveries).Error; err != nil {
			return ac.fail(c, err)
		}
		data["deliveries"] = deliveries
	case user.RoleDriver:
		if err := ac.db.Preload("Client").
			Where("driver_id = ?", userID).
			Order("created_at DESC").Limit(20).
			Find(&deliveries).Error; err != nil {
			return ac.fail(c, err)
		}
		data["deliveries"] = deliveries
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Profile retrieved",
		Status:  fiber.StatusOK,
		Data:    data,
	})
}
