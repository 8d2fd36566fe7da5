package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// Central Park, New York.
const (
	CentralParkLatitude  = 40.7829
	CentralParkLongitude = -73.9654
)

var (
	User1 = &entity.User{
		Base:      entity.Base{ID: "user1"},
		FirstName: "Alice",
		LastName:  "Nguyen",
		Username:  "alice",
		Email:     "alice@stakefit.app",
		Phone:     "0900000001",
	}

	User2 = &entity.User{
		Base:      entity.Base{ID: "user2"},
		FirstName: "Bob",
		LastName:  "Tran",
		Username:  "bob",
		Email:     "bob@stakefit.app",
		Phone:     "0900000002",
	}

	User3 = &entity.User{
		Base:      entity.Base{ID: "user3"},
		FirstName: "Carol",
		LastName:  "Le",
		Username:  "carol",
		Email:     "carol@stakefit.app",
		Phone:     "0900000003",
	}

	Users = []*entity.User{User1, User2, User3}

	// Challenge1 is a public challenge of user1 without target location.
	Challenge1 = &entity.Challenge{
		Base:         entity.Base{ID: "challenge1"},
		Name:         "7-Day Squat",
		Description:  "Do 50 squats every day",
		DurationDays: 7,
		Type:         "Strength",
		StakeAmount:  50,
		CreatedBy:    User1.ID,
		Status:       entity.ChallengeActive,
		Visibility:   entity.ChallengePublic,
	}

	// Challenge2 is a public challenge of user2 located at Central Park.
	Challenge2 = &entity.Challenge{
		Base:              entity.Base{ID: "challenge2"},
		Name:              "Central Park Run",
		Description:       "Run around the reservoir",
		DurationDays:      30,
		Type:              "Cardio",
		StakeAmount:       20,
		LocationName:      sql.NullString{Valid: true, String: "Central Park"},
		LocationLatitude:  sql.NullFloat64{Valid: true, Float64: CentralParkLatitude},
		LocationLongitude: sql.NullFloat64{Valid: true, Float64: CentralParkLongitude},
		CreatedBy:         User2.ID,
		Status:            entity.ChallengeActive,
		Visibility:        entity.ChallengePublic,
	}

	// Challenge3 is a private challenge of user1.
	Challenge3 = &entity.Challenge{
		Base:         entity.Base{ID: "challenge3"},
		Name:         "Morning Yoga",
		Description:  "Yoga before breakfast",
		DurationDays: 14,
		Type:         "Flexibility",
		StakeAmount:  0,
		CreatedBy:    User1.ID,
		Status:       entity.ChallengeActive,
		Visibility:   entity.ChallengePrivate,
	}

	Challenges = []*entity.Challenge{Challenge1, Challenge2, Challenge3}
)

// CreateFixtureDb inserts the fixture users and challenges. Every challenge
// has its creator as the only participant.
func CreateFixtureDb(ctx context.Context) {
	db := xcontext.DB(ctx)
	now := time.Now().UTC()

	for _, u := range Users {
		user := *u
		if err := db.Create(&user).Error; err != nil {
			panic(err)
		}
	}

	for i, c := range Challenges {
		challenge := *c
		challenge.CreatedAt = now.Add(time.Duration(i) * time.Second)
		challenge.StartAt = now
		challenge.EndAt = now.Add(time.Duration(challenge.DurationDays) * 24 * time.Hour)
		if err := db.Omit(clause.Associations).Create(&challenge).Error; err != nil {
			panic(err)
		}

		err := db.Omit(clause.Associations).Create(&entity.ChallengeParticipant{
			ChallengeID: challenge.ID,
			UserID:      challenge.CreatedBy,
			JoinedAt:    challenge.CreatedAt,
		}).Error
		if err != nil {
			panic(err)
		}
	}
}
