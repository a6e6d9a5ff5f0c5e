package database

import (
	"fmt"
	"os"

	"delivery-backend/logger"
	"delivery-backend/models/coupon"
	"delivery-backend/models/delivery"
	"delivery-backend/models/log"
	"delivery-backend/models/notification"
	"delivery-backend/models/pricing"
	"delivery-backend/models/review"
	"delivery-backend/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency stages.
func autoMigrate() error {
	// Stage 1: accounts, referenced by everything else
	stage1Models := []interface{}{
		&user.User{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: domain tables referencing users
	stage2Models := []interface{}{
		&delivery.Delivery{},
		&coupon.Coupon{},
		&pricing.PriceList{},
		&review.Review{},
		&notification.Notification{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: logging
	remainingModels := []interface{}{
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// User indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)").Error; err != nil {
		return fmt.Errorf("failed to create user email index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)").Error; err != nil {
		return fmt.Errorf("failed to create user role index: %w", err)
	}

	// Delivery indexes: lifecycle queries filter by owner and status,
	// performance windows scan by driver and created_at.
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_deliveries_client_status ON deliveries(client_id, status)").Error; err != nil {
		return fmt.Errorf("failed to create delivery client/status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_deliveries_driver_created ON deliveries(driver_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create delivery driver/created index: %w", err)
	}

	// Coupon lookups are per client.
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_coupons_client_valid ON coupons(client_id, valid)").Error; err != nil {
		return fmt.Errorf("failed to create coupon client index: %w", err)
	}

	// Review aggregation scans by driver and created_at.
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reviews_driver_created ON reviews(driver_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create review driver index: %w", err)
	}

	// Notification feed is per user, newest first.
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create notification user index: %w", err)
	}

	// Latest price list per mode.
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_price_lists_mode_created ON price_lists(mode, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create price list mode index: %w", err)
	}

	return nil
}
