package portfolio

import (
	"github.com/charleyoshi/stock-trading-simulator/internal/middleware"
	"github.com/charleyoshi/stock-trading-simulator/internal/pkg/response"
	"github.com/charleyoshi/stock-trading-simulator/internal/quotes"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// Get GET /api/v1/portfolio — open positions valued at live quotes, plus cash
// and the grand total. A quote failure fails the whole read rather than
// silently understating the total.
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	p, err := h.Service.GetPortfolio(c.Context(), actor.UserID)
	if err != nil {
		switch err {
		case quotes.ErrUnknownSymbol:
			return response.Error(c, "Not in the stock list", fiber.StatusBadRequest, nil)
		case quotes.ErrQuoteUnavailable:
			return response.Error(c, "Quote service unavailable", fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Uint("user_id", actor.UserID).Msg("portfolio read failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Portfolio", p, nil)
}
