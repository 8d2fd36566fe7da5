package model

import (
	"database/sql"
	"testing"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestConvertUser_HidesSensitiveFields(t *testing.T) {
	user := &entity.User{
		Base:     entity.Base{ID: "user1"},
		Username: "alice",
		Email:    "alice@stakefit.app",
		Phone:    "0900000001",
	}

	public := ConvertUser(user, false)
	require.Equal(t, "alice", public.Username)
	require.Empty(t, public.Email)
	require.Empty(t, public.Phone)

	private := ConvertUser(user, true)
	require.Equal(t, "alice@stakefit.app", private.Email)
	require.Equal(t, "0900000001", private.Phone)
}

func TestConvertChallenge_Location(t *testing.T) {
	c := &entity.Challenge{Base: entity.Base{ID: "challenge1"}}
	require.Nil(t, ConvertChallenge(c, nil).Location)
	require.Equal(t, []string{}, ConvertChallenge(c, nil).InvitedUserIDs)

	c.LocationName = sql.NullString{Valid: true, String: "Central Park"}
	c.LocationLatitude = sql.NullFloat64{Valid: true, Float64: 40.7829}
	c.LocationLongitude = sql.NullFloat64{Valid: true, Float64: -73.9654}

	loc := ConvertChallenge(c, nil).Location
	require.NotNil(t, loc)
	require.Equal(t, Location{Name: "Central Park", Latitude: 40.7829, Longitude: -73.9654}, *loc)
}
