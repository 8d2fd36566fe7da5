package entity

import "time"

// BaseBalance is the amount every user starts with, it is not recorded in the
// ledger.
const BaseBalance int64 = 1000

// Balance is the materialized sum of the ledger amounts of a user, base
// balance excluded.
type Balance struct {
	UserID    string `gorm:"primaryKey"`
	User      User   `gorm:"foreignKey:UserID"`
	Total     int64
	UpdatedAt time.Time
}
