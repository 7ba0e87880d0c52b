package portfolio

import (
	"context"

	"github.com/charleyoshi/stock-trading-simulator/internal/models"
	"github.com/charleyoshi/stock-trading-simulator/internal/quotes"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service derives the portfolio view from the ledger. Holdings are never
// stored; they are the signed sum of ledger rows per symbol, joined with live
// quotes at read time.
type Service struct {
	DB     *gorm.DB
	Quotes quotes.Source
}

// Position is one open holding valued at the live price.
type Position struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

// Portfolio is the full valuation: open positions, cash, and their sum.
type Portfolio struct {
	Positions []Position      `json:"positions"`
	Cash      decimal.Decimal `json:"cash"`
	Total     decimal.Decimal `json:"total"`
}

type holdingRow struct {
	Symbol      string
	TotalShares int64
}

// GetPortfolio aggregates net shares per symbol (closed-out positions are
// omitted), prices each at the live quote, and totals cash plus positions.
// Pure read; safe to call repeatedly and concurrently.
func (s *Service) GetPortfolio(ctx context.Context, userID uint) (*Portfolio, error) {
	var rows []holdingRow
	if err := s.DB.WithContext(ctx).Model(&models.Transaction{}).
		Select("symbol, SUM(shares) AS total_shares").
		Where("user_id = ?", userID).
		Group("symbol").
		Having("SUM(shares) > 0").
		Order("symbol").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(rows))
	total := user.Cash
	for _, r := range rows {
		q, err := s.Quotes.Lookup(ctx, r.Symbol)
		if err != nil {
			return nil, err
		}
		value := q.Price.Mul(decimal.NewFromInt(r.TotalShares))
		positions = append(positions, Position{
			Symbol: r.Symbol,
			Name:   q.Name,
			Shares: r.TotalShares,
			Price:  q.Price,
			Value:  value,
		})
		total = total.Add(value)
	}

	return &Portfolio{Positions: positions, Cash: user.Cash, Total: total}, nil
}
