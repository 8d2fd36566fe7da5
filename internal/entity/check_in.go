package entity

import (
	"database/sql"
	"time"
)

// CheckIn is an accepted check-in attempt. Rejected attempts are not stored.
// Check-ins are kept as history even if their challenge is deleted.
type CheckIn struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time

	ChallengeID string `gorm:"uniqueIndex:idx_check_in_daily"`
	UserID      string `gorm:"uniqueIndex:idx_check_in_daily;index"`
	// Day is the UTC date (YYYY-MM-DD) of the check-in, a user checks in a
	// challenge at most once per day.
	Day string `gorm:"uniqueIndex:idx_check_in_daily;size:10"`

	Latitude       sql.NullFloat64
	Longitude      sql.NullFloat64
	DistanceMeters sql.NullFloat64

	// ProgressApplied only goes from false to true, once.
	ProgressApplied bool `gorm:"index"`
}
