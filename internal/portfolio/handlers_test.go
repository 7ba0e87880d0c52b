package portfolio

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/charleyoshi/stock-trading-simulator/internal/middleware"
	"github.com/charleyoshi/stock-trading-simulator/internal/quotes"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioHandler_RequiresAuth(t *testing.T) {
	q := &fakeQuotes{prices: map[string]*quotes.Quote{}}
	s, _ := setupPortfolio(t, q)
	h := &Handlers{Service: s}

	app := fiber.New()
	app.Get("/portfolio", middleware.RequireAuth(), h.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/portfolio", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPortfolioHandler_Success(t *testing.T) {
	q := &fakeQuotes{prices: map[string]*quotes.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: decimal.NewFromInt(100)},
	}}
	s, u := setupPortfolio(t, q)
	ledgerRow(t, s, u.ID, "AAPL", "Apple Inc", 2, 90)
	h := &Handlers{Service: s}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":  float64(u.ID),
			"username": u.Username,
		})
		return c.Next()
	})
	app.Get("/portfolio", middleware.RequireAuth(), h.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/portfolio", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data, _ := out["data"].(map[string]interface{})
	positions, _ := data["positions"].([]interface{})
	require.Len(t, positions, 1)
	pos, _ := positions[0].(map[string]interface{})
	assert.Equal(t, "AAPL", pos["symbol"])
	assert.Equal(t, "200", pos["value"])
	assert.Equal(t, "1434.56", data["total"], "total = cash 1234.56 + 200")
}

func TestPortfolioHandler_QuoteUnavailable(t *testing.T) {
	q := &fakeQuotes{err: quotes.ErrQuoteUnavailable}
	s, u := setupPortfolio(t, q)
	ledgerRow(t, s, u.ID, "AAPL", "Apple Inc", 2, 90)
	h := &Handlers{Service: s}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":  float64(u.ID),
			"username": u.Username,
		})
		return c.Next()
	})
	app.Get("/portfolio", h.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/portfolio", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
