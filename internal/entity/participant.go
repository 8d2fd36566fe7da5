package entity

import "time"

type ChallengeParticipant struct {
	ChallengeID string `gorm:"primaryKey"`
	UserID      string `gorm:"primaryKey;index"`
	User        User   `gorm:"foreignKey:UserID"`

	JoinedAt time.Time
	// Progress is the number of accepted check-ins whose follow-up has been
	// applied.
	Progress int
}
