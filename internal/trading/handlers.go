package trading

import (
	"github.com/charleyoshi/stock-trading-simulator/internal/middleware"
	"github.com/charleyoshi/stock-trading-simulator/internal/pkg/response"
	"github.com/charleyoshi/stock-trading-simulator/internal/quotes"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *Service
}

// BuyRequest is the typed buy command. Shares arrives as a JSON integer; a
// fractional or non-numeric value fails parsing at the boundary.
type BuyRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// SellRequest is the typed sell command.
type SellRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// AddCashRequest is the typed top-up command.
type AddCashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Buy POST /api/v1/trading/buy
func (h *Handlers) Buy(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body BuyRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, ErrInvalidShares.Error(), fiber.StatusBadRequest, nil)
	}
	if body.Symbol == "" {
		return response.Error(c, "Missing symbol", fiber.StatusBadRequest, nil)
	}
	if body.Shares == 0 {
		return response.Error(c, "Missing shares", fiber.StatusBadRequest, nil)
	}
	if body.Shares < 0 {
		return response.Error(c, ErrInvalidShares.Error(), fiber.StatusBadRequest, nil)
	}

	receipt, err := h.Service.Buy(c.Context(), actor.UserID, body.Symbol, body.Shares)
	if err != nil {
		return tradeError(c, err)
	}
	log.Info().Uint("user_id", actor.UserID).Str("symbol", receipt.Symbol).
		Int64("shares", receipt.Shares).Str("total", receipt.Total.String()).Msg("buy executed")
	return response.Success(c, "Bought!", receipt, nil)
}

// Sell POST /api/v1/trading/sell
func (h *Handlers) Sell(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body SellRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, ErrInvalidShares.Error(), fiber.StatusBadRequest, nil)
	}
	if body.Symbol == "" {
		return response.Error(c, "Missing symbol", fiber.StatusBadRequest, nil)
	}
	if body.Shares == 0 {
		return response.Error(c, "Missing shares", fiber.StatusBadRequest, nil)
	}
	if body.Shares < 0 {
		return response.Error(c, ErrInvalidShares.Error(), fiber.StatusBadRequest, nil)
	}

	receipt, err := h.Service.Sell(c.Context(), actor.UserID, body.Symbol, body.Shares)
	if err != nil {
		return tradeError(c, err)
	}
	log.Info().Uint("user_id", actor.UserID).Str("symbol", receipt.Symbol).
		Int64("shares", receipt.Shares).Str("total", receipt.Total.String()).Msg("sell executed")
	return response.Success(c, "Sold!", receipt, nil)
}

// AddCash POST /api/v1/trading/add-cash
func (h *Handlers) AddCash(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body AddCashRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, ErrInvalidAmount.Error(), fiber.StatusBadRequest, nil)
	}

	balance, err := h.Service.AddCash(c.Context(), actor.UserID, body.Amount)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Cash added", fiber.Map{"cash": balance}, nil)
}

// tradeError maps engine errors onto the apology taxonomy. Business-rule
// rejections are presented to the user, not logged as faults.
func tradeError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrInvalidShares, ErrInvalidAmount:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case ErrInsufficientFunds, ErrInsufficientShares:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case quotes.ErrUnknownSymbol:
		return response.Error(c, "Not in the stock list", fiber.StatusBadRequest, nil)
	case quotes.ErrQuoteUnavailable:
		return response.Error(c, "Quote service unavailable", fiber.StatusBadRequest, nil)
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("trade failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
