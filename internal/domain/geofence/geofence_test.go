package geofence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var centralPark = Point{Latitude: 40.7829, Longitude: -73.9654}

func TestDistance(t *testing.T) {
	require.Zero(t, Distance(centralPark, centralPark))

	// About 388 meters west.
	d := Distance(centralPark, Point{Latitude: 40.7829, Longitude: -73.9700})
	require.InDelta(t, 388, d, 2)

	// One degree of latitude.
	d = Distance(Point{Latitude: 0, Longitude: 0}, Point{Latitude: 1, Longitude: 0})
	require.InDelta(t, 111195, d, 1)

	require.Equal(t, Distance(centralPark, Point{Latitude: 1, Longitude: 2}), Distance(Point{Latitude: 1, Longitude: 2}, centralPark))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		target   *Point
		claimed  *Point
		accepted bool
		distance bool
		err      error
	}{
		{
			name:     "no target without location",
			accepted: true,
		},
		{
			name:     "no target with location",
			claimed:  &Point{Latitude: 10, Longitude: 10},
			accepted: true,
		},
		{
			name:     "at target",
			target:   &centralPark,
			claimed:  &Point{Latitude: 40.7829, Longitude: -73.9654},
			accepted: true,
			distance: true,
		},
		{
			name:     "too far",
			target:   &centralPark,
			claimed:  &Point{Latitude: 40.7829, Longitude: -73.9700},
			accepted: false,
			distance: true,
		},
		{
			name:   "missing location",
			target: &centralPark,
			err:    ErrMissingLocation,
		},
		{
			name:    "invalid location",
			target:  &centralPark,
			claimed: &Point{Latitude: 91, Longitude: 0},
			err:     ErrInvalidLocation,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(tt.target, tt.claimed)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.accepted, result.Accepted)
			if tt.distance {
				require.NotNil(t, result.DistanceMeters)
				if tt.accepted {
					require.LessOrEqual(t, *result.DistanceMeters, MaxDistanceMeters)
				} else {
					require.Greater(t, *result.DistanceMeters, MaxDistanceMeters)
				}
			} else {
				require.Nil(t, result.DistanceMeters)
			}
		})
	}
}
