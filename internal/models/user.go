package models

import (
	"github.com/shopspring/decimal"
)

// User is a registered account. Usernames are stored lowercase; uniqueness
// is therefore case-insensitive. Cash is the virtual balance the Transaction
// Engine reconciles against the ledger — non-negativity is enforced at write
// time, not by the schema.
type User struct {
	ID       uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username string          `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Hash     string          `gorm:"column:hash;not null" json:"-"`
	Cash     decimal.Decimal `gorm:"column:cash;type:numeric(18,2);not null" json:"cash"`
}

func (User) TableName() string {
	return "users"
}
