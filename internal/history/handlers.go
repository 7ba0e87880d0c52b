package history

import (
	"github.com/charleyoshi/stock-trading-simulator/internal/middleware"
	"github.com/charleyoshi/stock-trading-simulator/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// Get GET /api/v1/history — list all of the user's transactions.
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	txs, err := h.Service.GetHistory(c.Context(), actor.UserID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", actor.UserID).Msg("history read failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transaction history", fiber.Map{"transactions": txs}, nil)
}
