package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the history ledger. Positive shares = buy,
// negative = sell. Rows are immutable once created; corrections happen via
// new offsetting rows, and holdings are always derived by aggregation.
type Transaction struct {
	TransactionRef  uint            `gorm:"column:transaction_ref;primaryKey;autoIncrement" json:"transaction_ref"`
	UserID          uint            `gorm:"column:user_id;not null;index" json:"user_id"`
	Symbol          string          `gorm:"column:symbol;not null" json:"symbol"`
	StockName       string          `gorm:"column:stock_name;not null" json:"stock_name"`
	Shares          int64           `gorm:"column:shares;not null" json:"shares"`
	TransactedPrice decimal.Decimal `gorm:"column:transacted_price;type:numeric(18,2);not null" json:"transacted_price"`
	Transacted      time.Time       `gorm:"column:transacted;not null;autoCreateTime" json:"transacted"`
}

func (Transaction) TableName() string {
	return "history"
}
