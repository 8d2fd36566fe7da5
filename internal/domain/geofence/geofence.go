package geofence

import (
	"errors"
	"math"
)

const (
	// EarthRadiusMeters is the mean radius of the earth.
	EarthRadiusMeters = 6371008.8

	// MaxDistanceMeters is the largest distance between the claimed location
	// and the target for a check-in to be accepted.
	MaxDistanceMeters = 150.0
)

var (
	ErrMissingLocation = errors.New("location is required")
	ErrInvalidLocation = errors.New("location is out of range")
)

type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180 &&
		!math.IsNaN(p.Latitude) && !math.IsNaN(p.Longitude)
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

type Result struct {
	Accepted bool

	// DistanceMeters is nil if the challenge has no target.
	DistanceMeters *float64
}

// Validate decides a check-in attempt. A nil target accepts any claimed
// location, including none.
func Validate(target, claimed *Point) (Result, error) {
	if target == nil {
		return Result{Accepted: true}, nil
	}

	if claimed == nil {
		return Result{}, ErrMissingLocation
	}

	if !claimed.Valid() {
		return Result{}, ErrInvalidLocation
	}

	d := Distance(*target, *claimed)
	return Result{Accepted: d <= MaxDistanceMeters, DistanceMeters: &d}, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
