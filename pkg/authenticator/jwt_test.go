package authenticator_test

import (
	"testing"
	"time"

	"github.com/stakefit/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	ID string `json:"id"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[testObject]("secret", "access", time.Minute)
	token, err := engine.Generate("user1", testObject{ID: "abc"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "abc", obj.ID)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[testObject]("secret", "access", -time.Minute)
	token, err := engine.Generate("user1", testObject{ID: "abc"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[testObject]("secret", "access", time.Minute)
	other := authenticator.NewTokenEngine[testObject]("other", "access", time.Minute)

	token, err := engine.Generate("user1", testObject{ID: "abc"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongAudience(t *testing.T) {
	access := authenticator.NewTokenEngine[testObject]("secret", "access", time.Minute)
	refresh := authenticator.NewTokenEngine[testObject]("secret", "refresh", time.Minute)

	token, err := access.Generate("user1", testObject{ID: "abc"})
	require.NoError(t, err)

	_, err = refresh.Verify(token)
	require.Error(t, err)
}
