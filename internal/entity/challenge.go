package entity

import (
	"database/sql"
	"time"

	"github.com/stakefit/backend/pkg/enum"
)

type ChallengeStatus string

var (
	ChallengeActive    = enum.New(ChallengeStatus("active"))
	ChallengeCompleted = enum.New(ChallengeStatus("completed"))
	ChallengeCancelled = enum.New(ChallengeStatus("cancelled"))
)

type ChallengeVisibility string

var (
	ChallengePublic  = enum.New(ChallengeVisibility("public"))
	ChallengePrivate = enum.New(ChallengeVisibility("private"))
)

type Challenge struct {
	Base

	Name         string
	Description  string
	DurationDays int
	Type         string
	StakeAmount  int64

	LocationName      sql.NullString
	LocationLatitude  sql.NullFloat64
	LocationLongitude sql.NullFloat64

	CreatedBy      string `gorm:"index"`
	Creator        User   `gorm:"foreignKey:CreatedBy"`
	InvitedUserIDs Array[string]

	Status     ChallengeStatus     `gorm:"index"`
	Visibility ChallengeVisibility `gorm:"index"`

	StartAt time.Time
	// EndAt is fixed at creation and never recomputed.
	EndAt time.Time `gorm:"index"`
}

func (c *Challenge) HasLocation() bool {
	return c.LocationLatitude.Valid && c.LocationLongitude.Valid
}
