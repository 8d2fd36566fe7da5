package entity

import (
	"database/sql"
	"time"

	"github.com/stakefit/backend/pkg/enum"
)

type TransactionCategory string

var (
	TransactionEarn     = enum.New(TransactionCategory("earn"))
	TransactionSpend    = enum.New(TransactionCategory("spend"))
	TransactionPurchase = enum.New(TransactionCategory("purchase"))
)

// Transaction is an append-only ledger entry, it is never updated or deleted.
type Transaction struct {
	// Snowflake id, ordering by id is ordering by creation time.
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Amount      int64
	Category    TransactionCategory
	Description string

	CheckInID sql.NullString `gorm:"index"`
}
