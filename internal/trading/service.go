package trading

import (
	"context"

	"github.com/charleyoshi/stock-trading-simulator/internal/models"
	"github.com/charleyoshi/stock-trading-simulator/internal/quotes"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the transaction engine: it validates and executes buy/sell/add-cash
// requests, keeping cash and the ledger reconciled inside one DB transaction.
type Service struct {
	DB     *gorm.DB
	Quotes quotes.Source
}

// Receipt summarizes an executed trade, including the cash balance after it.
type Receipt struct {
	Symbol    string          `json:"symbol"`
	StockName string          `json:"stock_name"`
	Shares    int64           `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	Cash      decimal.Decimal `json:"cash"`
}

// Buy executes a market buy at the live quote price. The quote lookup happens
// before the DB transaction so no lock is held across the external call. The
// ledger append and the cash decrement commit or roll back as one unit.
func (s *Service) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*Receipt, error) {
	if shares <= 0 {
		return nil, ErrInvalidShares
	}
	q, err := s.Quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost := q.Price.Mul(decimal.NewFromInt(shares))

	var receipt *Receipt
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded decrement: the WHERE clause takes the user's row lock and
		// rejects the buy in the same statement if cash would go negative.
		res := tx.Model(&models.User{}).
			Where("id = ? AND cash >= ?", userID, cost).
			Update("cash", gorm.Expr("cash - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var u models.User
			if err := tx.First(&u, userID).Error; err != nil {
				return err
			}
			return ErrInsufficientFunds
		}

		t := models.Transaction{
			UserID:          userID,
			Symbol:          q.Symbol,
			StockName:       q.Name,
			Shares:          shares,
			TransactedPrice: q.Price,
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}

		var u models.User
		if err := tx.First(&u, userID).Error; err != nil {
			return err
		}
		receipt = &Receipt{
			Symbol:    q.Symbol,
			StockName: q.Name,
			Shares:    shares,
			Price:     q.Price,
			Total:     cost,
			Cash:      u.Cash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Sell executes a market sell at the live quote price. Selling more than the
// net holding (the signed ledger sum for the symbol) is rejected with nothing
// mutated.
func (s *Service) Sell(ctx context.Context, userID uint, symbol string, shares int64) (*Receipt, error) {
	if shares <= 0 {
		return nil, ErrInvalidShares
	}
	q, err := s.Quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds := q.Price.Mul(decimal.NewFromInt(shares))

	var receipt *Receipt
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Credit cash first: the user-row write lock serializes concurrent
		// trades for the same user before the holding aggregate is read.
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", proceeds))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var held int64
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND symbol = ?", userID, q.Symbol).
			Select("COALESCE(SUM(shares), 0)").
			Scan(&held).Error; err != nil {
			return err
		}
		if shares > held {
			return ErrInsufficientShares // rolls back the credit
		}

		t := models.Transaction{
			UserID:          userID,
			Symbol:          q.Symbol,
			StockName:       q.Name,
			Shares:          -shares,
			TransactedPrice: q.Price,
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}

		var u models.User
		if err := tx.First(&u, userID).Error; err != nil {
			return err
		}
		receipt = &Receipt{
			Symbol:    q.Symbol,
			StockName: q.Name,
			Shares:    -shares,
			Price:     q.Price,
			Total:     proceeds,
			Cash:      u.Cash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// AddCash tops up the user's balance. Amount must be strictly positive.
func (s *Service) AddCash(ctx context.Context, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	var balance decimal.Decimal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var u models.User
		if err := tx.First(&u, userID).Error; err != nil {
			return err
		}
		balance = u.Cash
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
