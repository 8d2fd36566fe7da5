package entity

import "time"

type Follow struct {
	FollowerID string `gorm:"primaryKey"`
	Follower   User   `gorm:"foreignKey:FollowerID"`

	FolloweeID string `gorm:"primaryKey;index"`
	Followee   User   `gorm:"foreignKey:FolloweeID"`

	CreatedAt time.Time
}
