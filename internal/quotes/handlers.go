package quotes

import (
	"github.com/charleyoshi/stock-trading-simulator/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Source Source
}

// Get GET /api/v1/quotes/:symbol — price lookup only, no mutation.
func (h *Handlers) Get(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	if symbol == "" {
		return response.Error(c, "Provide symbol", fiber.StatusBadRequest, nil)
	}

	q, err := h.Source.Lookup(c.Context(), symbol)
	if err != nil {
		switch err {
		case ErrUnknownSymbol:
			return response.Error(c, "Not in the stock list", fiber.StatusBadRequest, nil)
		case ErrQuoteUnavailable:
			return response.Error(c, "Quote service unavailable", fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Str("symbol", symbol).Msg("quote lookup failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Quote", q, nil)
}
