package domain

import (
	"context"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/pkg/xcontext"
)

func float64Ptr(f float64) *float64 {
	return &f
}

// PublicChallengeSeeds are the sample challenges shown to new users.
var PublicChallengeSeeds = []model.CreateChallengeRequest{
	{
		Name:         "East Village 1 Week Weight Training Challenge",
		Description:  "Complete weight training sessions for 7 consecutive days at East Village Gym",
		DurationDays: 7,
		Type:         "Strength",
		StakeAmount:  50,
		LocationName: "East Village Gym",
		Latitude:     float64Ptr(40.7282),
		Longitude:    float64Ptr(-73.9842),
	},
	{
		Name:         "30-Day Morning Run Challenge",
		Description:  "Run at least 3 miles every morning for 30 days",
		DurationDays: 30,
		Type:         "Cardio",
		StakeAmount:  100,
		LocationName: "Central Park",
		Latitude:     float64Ptr(40.7829),
		Longitude:    float64Ptr(-73.9654),
	},
	{
		Name:         "7-Day Squat Challenge",
		Description:  "Complete 100 squats daily for a week",
		DurationDays: 7,
		Type:         "Legs",
		StakeAmount:  50,
	},
}

// SeedPublicChallenges creates the sample public challenges on behalf of
// creatorID. Seeds whose name is already used by a public challenge of the
// creator are skipped, so it can run many times.
func (d *challengeDomain) SeedPublicChallenges(ctx context.Context, creatorID string) (int, error) {
	existing, err := d.challengeRepo.GetListByParticipant(ctx, creatorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges of %s: %v", creatorID, err)
		return 0, err
	}

	names := map[string]bool{}
	for _, c := range existing {
		if c.CreatedBy == creatorID && c.Visibility == entity.ChallengePublic {
			names[c.Name] = true
		}
	}

	ctx = xcontext.WithRequestUserID(ctx, creatorID)
	created := 0
	for _, seed := range PublicChallengeSeeds {
		if names[seed.Name] {
			continue
		}

		req := seed
		if _, err := d.Create(ctx, &req); err != nil {
			return created, err
		}

		created++
	}

	return created, nil
}
