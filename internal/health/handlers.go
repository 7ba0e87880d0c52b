package health

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers reports process liveness: DB and Redis reachability.
type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Check GET /health — 200 when both stores answer, 503 otherwise.
func (h *Handlers) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if h.DB == nil {
		dbStatus = "down"
	} else if sqlDB, err := h.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "up"
	if h.Rdb == nil || h.Rdb.Ping(context.Background()).Err() != nil {
		redisStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus == "down" || redisStatus == "down" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
