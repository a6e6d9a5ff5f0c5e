package middleware

import (
	"fmt"
	"os"
	"strings"

	"delivery-backend/models/user"
	"delivery-backend/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Policy decides whether an authenticated role may reach a handler.
// Policies are evaluated exactly once per request, before the handler
// runs, so controllers never re-check roles inline.
type Policy func(role user.Role) bool

// AnyAuthenticated admits every valid session.
func AnyAuthenticated() Policy {
	return func(user.Role) bool { return true }
}

// Roles admits only the listed roles.
func Roles(roles ...user.Role) Policy {
	allowed := make(map[user.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(r user.Role) bool { return allowed[r] }
}

// Staff admits admin and superAdmin.
func Staff() Policy {
	return func(r user.Role) bool { return r.IsStaff() }
}

// IsAuthenticated validates the bearer token and applies the policy.
// Claims land in c.Locals under "user", "userID" and "userRole".
func IsAuthenticated(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return unauthorized(c, "Authorization token required")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, "Invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Invalid token claims")
		}

		id, ok := claims["id"].(float64)
		if !ok || id <= 0 {
			return unauthorized(c, "Invalid token claims")
		}
		roleStr, ok := claims["role"].(string)
		role := user.Role(roleStr)
		if !ok || !role.IsValid() {
			return unauthorized(c, "Invalid token claims")
		}

		if !policy(role) {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Not authorized for this resource",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals("user", claims)
		c.Locals("userID", uint(id))
		c.Locals("userRole", role)
		return c.Next()
	}
}

// RequireRoles is shorthand for IsAuthenticated(Roles(...)).
func RequireRoles(roles ...user.Role) fiber.Handler {
	return IsAuthenticated(Roles(roles...))
}

// RequireStaff admits only admin surfaces.
func RequireStaff() fiber.Handler {
	return IsAuthenticated(Staff())
}

// RequireAuthentication only requires a valid session.
func RequireAuthentication() fiber.Handler {
	return IsAuthenticated(AnyAuthenticated())
}

// CurrentUserID returns the authenticated user id placed by
// IsAuthenticated; zero when unauthenticated.
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// CurrentRole returns the authenticated role placed by IsAuthenticated.
func CurrentRole(c *fiber.Ctx) user.Role {
	if role, ok := c.Locals("userRole").(user.Role); ok {
		return role
	}
	return ""
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies("token")
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}
