package auth

import (
	"context"
	"strconv"

	"github.com/charleyoshi/stock-trading-simulator/internal/middleware"
	"github.com/charleyoshi/stock-trading-simulator/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for the auth endpoints.
type Handlers struct {
	Service *Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Register POST /api/v1/auth/register — create the account. Does not bind a
// session; the user logs in afterwards.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Username, password and confirmation are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Register(c.Context(), in)
	if err != nil {
		switch err {
		case ErrUsernameRequired, ErrPasswordRequired, ErrConfirmationRequired, ErrPasswordMismatch, ErrUsernameTaken:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return response.SuccessCreated(c, "Registered — you can log in now", fiber.Map{
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"cash":     user.Cash,
		},
	}, nil)
}

// Login POST /api/v1/auth/login — authenticate, regenerate the session, track
// the session ID under user_sessions:<id>, set the cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var in LoginInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Username and password are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Login(c.Context(), in)
	if err != nil {
		switch err {
		case ErrUsernameRequired, ErrPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrInvalidCredentials:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.ID,
		Username: user.Username,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+strconv.FormatUint(uint64(user.ID), 10), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"cash":     user.Cash,
		},
	}, nil)
}

// Me GET /api/v1/auth/me — return the current session identity.
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{
		"user": fiber.Map{
			"id":       actor.UserID,
			"username": actor.Username,
		},
	}, nil)
}

// Logout DELETE /api/v1/auth/logout — clear the session unconditionally:
// SRem from user_sessions, Del the session key, clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	actor := middleware.GetActor(c)

	ctx := context.Background()
	if actor != nil && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+strconv.FormatUint(uint64(actor.UserID), 10), sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
