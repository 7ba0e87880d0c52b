package history

import (
	"context"

	"github.com/charleyoshi/stock-trading-simulator/internal/models"

	"gorm.io/gorm"
)

// Service reads the transaction ledger for display.
type Service struct {
	DB *gorm.DB
}

// GetHistory returns all of the user's transactions ordered by execution time
// ascending. Closed positions are included; this is the raw event log.
func (s *Service) GetHistory(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("transacted ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
