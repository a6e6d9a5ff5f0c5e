package routes

import (
	adminController "delivery-backend/controllers/admin"
	authController "delivery-backend/controllers/auth"
	deliveryController "delivery-backend/controllers/delivery"
	driverController "delivery-backend/controllers/driver"
	notificationController "delivery-backend/controllers/notification"
	"delivery-backend/httpServices/push"
	"delivery-backend/httpServices/routing"
	"delivery-backend/logger"
	"delivery-backend/middleware"
	"delivery-backend/models/user"
	"delivery-backend/services/lifecycle"
	"delivery-backend/services/location"
	"delivery-backend/services/notify"
	"delivery-backend/services/performance"
	"delivery-backend/services/pricing"
	"delivery-backend/ws"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *ws.Hub) {
	asyncLogger := logger.NewAsyncLogger(db)

	matrixClient := routing.NewClient()
	pushClient := push.NewClient()

	dispatcher := notify.NewDispatcher(db, pushClient, hub)
	pricingEngine := pricing.NewEngine(db, matrixClient)
	engine := lifecycle.NewEngine(db, pricingEngine, dispatcher)
	perf := performance.NewService(db)
	locations := location.NewCache()

	auth := authController.NewAuthController(db, dispatcher, asyncLogger)
	deliveries := deliveryController.NewDeliveryController(db, engine, pricingEngine, asyncLogger)
	drivers := driverController.NewDriverController(db, engine, perf, locations, hub, asyncLogger)
	admins := adminController.NewAdminController(db, engine, perf, dispatcher, asyncLogger)
	notifications := notificationController.NewNotificationController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/users", auth.Register)
	api.Post("/auth", auth.Login)
	api.Post("/admin/register", admins.Register)

	/*=============================================================================
	| Session Routes
	===============================================================================*/
	api.Get("/auth", middleware.RequireAuthentication(), auth.Profile)

	/*=============================================================================
	| Delivery Routes
	===============================================================================*/
	deliveryGroup := api.Group("/delivery")

	deliveryGroup.Post("/quote", middleware.RequireRoles(
		user.RoleClient, user.RoleAdmin, user.RoleSuperAdmin,
	), deliveries.Quote)

	deliveryGroup.Post("/", middleware.RequireRoles(
		user.RoleClient, user.RoleAdmin, user.RoleSuperAdmin,
	), deliveries.Store)

	deliveryGroup.Get("/", middleware.RequireAuthentication(), deliveries.Index)
	deliveryGroup.Get("/:id", middleware.RequireAuthentication(), deliveries.Show)

	deliveryGroup.Post("/cancel/:id", middleware.RequireRoles(
		user.RoleClient, user.RoleAdmin, user.RoleSuperAdmin,
	), deliveries.Cancel)

	deliveryGroup.Post("/review/:id", middleware.RequireRoles(
		user.RoleClient,
	), deliveries.Review)

	/*=============================================================================
	| Driver Routes
	===============================================================================*/
	driverGroup := api.Group("/drivers")

	driverGroup.Get("/deliveries", middleware.RequireRoles(user.RoleDriver), drivers.Deliveries)
	driverGroup.Post("/pickup/:id", middleware.RequireRoles(user.RoleDriver), drivers.PickupReady)
	driverGroup.Post("/dropoff/:id", middleware.RequireRoles(user.RoleDriver), drivers.DropoffReady)
	driverGroup.Post("/received/:id", middleware.RequireRoles(user.RoleDriver), drivers.Received)
	driverGroup.Post("/delivered/:id", middleware.RequireRoles(user.RoleDriver), drivers.Delivered)
	driverGroup.Post("/location", middleware.RequireRoles(user.RoleDriver), drivers.UpdateLocation)

	driverGroup.Get("/performance", middleware.RequireRoles(
		user.RoleDriver, user.RoleAdmin, user.RoleSuperAdmin,
	), drivers.Performance)

	/*=============================================================================
	| Notification Routes
	===============================================================================*/
	notificationGroup := api.Group("/notifications").Use(middleware.RequireAuthentication())
	notificationGroup.Get("/", notifications.Index)
	notificationGroup.Post("/read/all", notifications.ReadAll)
	notificationGroup.Post("/read/:id", notifications.Read)
	notificationGroup.Post("/pushtoken", notifications.StorePushToken)
	notificationGroup.Post("/socket", notifications.StoreSocket)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	adminGroup := api.Group("/admin").Use(middleware.RequireStaff())
	adminGroup.Post("/delivery/assign", admins.Assign)
	adminGroup.Get("/delivery", admins.Deliveries)
	adminGroup.Get("/delivery/driver/:id", admins.DriverDeliveries)
	adminGroup.Post("/coupons", admins.CreateCoupon)
	adminGroup.Get("/coupons", admins.Coupons)
	adminGroup.Post("/coupons/cancel/:id", admins.CancelCoupon)
	adminGroup.Post("/prices", admins.UpdatePriceList)
	adminGroup.Get("/prices", admins.PriceMatrix)
	adminGroup.Post("/users/approve/:id", admins.ApproveUser)
	adminGroup.Post("/users/ban/:id", admins.BanUser)
	adminGroup.Post("/users/unban/:id", admins.UnbanUser)
	adminGroup.Get("/users", admins.Users)
	adminGroup.Get("/drivers", admins.Drivers)
	adminGroup.Get("/performance", admins.Performance)
}
