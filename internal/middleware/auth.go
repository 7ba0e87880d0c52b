package middleware

import (
	"github.com/charleyoshi/stock-trading-simulator/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// Actor is the typed request-scoped identity for protected handlers. It
// replaces reaching into the raw session map so every protected operation
// receives an explicit identity instead of ambient state.
type Actor struct {
	UserID   uint
	Username string
}

// RequireAuth ensures a user is in the session. Returns 401 with the standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetActor(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetActor returns the typed session identity, or nil when the session holds
// no valid user. Session data round-trips through JSON, so user_id arrives as
// a float64.
func GetActor(c *fiber.Ctx) *Actor {
	u := c.Locals(userLocal)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	id, ok := m["user_id"].(float64)
	if !ok || id <= 0 {
		return nil
	}
	username, _ := m["username"].(string)
	return &Actor{UserID: uint(id), Username: username}
}
