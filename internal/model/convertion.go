package model

import (
	"time"

	"github.com/stakefit/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	u := User{
		ID:              user.ID,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Username:        user.Username,
		ProfileImageURL: user.ProfileImageURL.String,
	}

	if includeSensitive {
		u.Email = user.Email
		u.Phone = user.Phone
	}

	return u
}

func ConvertParticipant(p *entity.ChallengeParticipant) Participant {
	if p == nil {
		return Participant{}
	}

	return Participant{
		UserID:   p.UserID,
		JoinedAt: p.JoinedAt.Format(DefaultTimeLayout),
		Progress: p.Progress,
	}
}

func ConvertChallenge(c *entity.Challenge, participants []Participant) Challenge {
	if c == nil {
		return Challenge{}
	}

	var location *Location
	if c.HasLocation() {
		location = &Location{
			Name:      c.LocationName.String,
			Latitude:  c.LocationLatitude.Float64,
			Longitude: c.LocationLongitude.Float64,
		}
	}

	invited := []string(c.InvitedUserIDs)
	if invited == nil {
		invited = []string{}
	}

	return Challenge{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		DurationDays:   c.DurationDays,
		Type:           c.Type,
		StakeAmount:    c.StakeAmount,
		Location:       location,
		CreatedBy:      c.CreatedBy,
		InvitedUserIDs: invited,
		Status:         string(c.Status),
		Visibility:     string(c.Visibility),
		StartAt:        c.StartAt.Format(DefaultTimeLayout),
		EndAt:          c.EndAt.Format(DefaultTimeLayout),
		CreatedAt:      c.CreatedAt.Format(DefaultTimeLayout),
		Participants:   participants,
	}
}

func ConvertTransaction(tx *entity.Transaction) Transaction {
	if tx == nil {
		return Transaction{}
	}

	return Transaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Category:    string(tx.Category),
		Description: tx.Description,
		CheckInID:   tx.CheckInID.String,
		CreatedAt:   tx.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertCheckIn(c *entity.CheckIn, challengeName string) CheckIn {
	if c == nil {
		return CheckIn{}
	}

	var distance *float64
	if c.DistanceMeters.Valid {
		d := c.DistanceMeters.Float64
		distance = &d
	}

	return CheckIn{
		ID:             c.ID,
		ChallengeID:    c.ChallengeID,
		ChallengeName:  challengeName,
		UserID:         c.UserID,
		DistanceMeters: distance,
		CreatedAt:      c.CreatedAt.Format(DefaultTimeLayout),
	}
}
