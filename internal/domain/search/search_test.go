package search

import (
	"testing"

	"github.com/stakefit/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestBleveIndex_InMemory(t *testing.T) {
	ctx := testutil.NewMockContext()
	index := NewBleveIndex(ctx)
	defer index.Close()

	require.NoError(t, index.Index(ChallengeDoc, "challenge1", ChallengeData{
		Name:        "7-Day Squat",
		Type:        "Strength",
		Description: "Do 50 squats every day",
	}))
	require.NoError(t, index.Index(ChallengeDoc, "challenge2", ChallengeData{
		Name:        "Central Park Run",
		Type:        "Cardio",
		Description: "Run around the reservoir",
	}))

	ids, err := index.Search(ChallengeDoc, "squats", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"challenge1"}, ids)

	ids, err = index.Search(ChallengeDoc, "cardio", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"challenge2"}, ids)

	// Reindexing replaces the old document.
	require.NoError(t, index.Index(ChallengeDoc, "challenge1", ChallengeData{Name: "Plank"}))
	ids, err = index.Search(ChallengeDoc, "squats", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, index.Delete(ChallengeDoc, "challenge2"))
	ids, err = index.Search(ChallengeDoc, "cardio", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)
}
