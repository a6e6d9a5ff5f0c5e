package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"delivery-backend/models/user"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, id uint, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func protectedApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequireRoles(user.RoleDriver), handler)
	return app
}

func TestIsAuthenticatedRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp(func(c *fiber.Ctx) error { return c.SendStatus(200) })

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestIsAuthenticatedRejectsWrongRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp(func(c *fiber.Ctx) error { return c.SendStatus(200) })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, "client", time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestIsAuthenticatedRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp(func(c *fiber.Ctx) error { return c.SendStatus(200) })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, "driver", -time.Minute))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestIsAuthenticatedRejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp(func(c *fiber.Ctx) error { return c.SendStatus(200) })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, "root", time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestIsAuthenticatedSetsLocals(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var gotID uint
	var gotRole user.Role
	app := protectedApp(func(c *fiber.Ctx) error {
		gotID = CurrentUserID(c)
		gotRole = CurrentRole(c)
		return c.SendStatus(200)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 42, "driver", time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if gotID != 42 {
		t.Errorf("CurrentUserID = %d, want 42", gotID)
	}
	if gotRole != user.RoleDriver {
		t.Errorf("CurrentRole = %q, want driver", gotRole)
	}
}

func TestStaffPolicy(t *testing.T) {
	policy := Staff()
	if !policy(user.RoleAdmin) || !policy(user.RoleSuperAdmin) {
		t.Error("staff policy should admit admins")
	}
	if policy(user.RoleClient) || policy(user.RoleDriver) {
		t.Error("staff policy should reject non-staff")
	}
}
