//go:build integration

package pricing

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	couponModel "delivery-backend/models/coupon"
	"delivery-backend/models/user"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run with: go test -tags integration ./services/pricing with
// TEST_DATABASE_DSN pointing at a disposable postgres.
func openIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := db.AutoMigrate(&user.User{}, &couponModel.Coupon{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestRedeemLastUsageConcurrently(t *testing.T) {
	db := openIntegrationDB(t)

	client := user.User{
		Uuid:         uuid.NewString(),
		Name:         "Redeem Race",
		Email:        fmt.Sprintf("redeem-race-%d@example.test", time.Now().UnixNano()),
		Phone:        "01700000000",
		PasswordHash: "x",
		Role:         user.RoleClient,
		Valid:        true,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&client) })

	c := couponModel.Coupon{
		Type:        couponModel.TypeValue,
		Value:       50,
		Usages:      1,
		ClientID:    client.ID,
		CreatedByID: client.ID,
		Expires:     time.Now().Add(time.Hour),
		Valid:       true,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create coupon: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&c) })

	engine := NewEngine(db, nil)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(deliveryID uint) {
			defer wg.Done()
			if err := engine.Redeem(db, c, deliveryID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(uint(i + 1))
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("successes = %d, want exactly one redemption of the last usage", successes)
	}

	var after couponModel.Coupon
	if err := db.First(&after, c.ID).Error; err != nil {
		t.Fatalf("reload coupon: %v", err)
	}
	if after.Usages != 0 {
		t.Errorf("usages = %d, want 0", after.Usages)
	}
	if len(after.Transactions) != 1 {
		t.Errorf("transactions = %d entries, want 1", len(after.Transactions))
	}
}
