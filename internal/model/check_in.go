package model

type CheckInRequest struct {
	ChallengeID string   `json:"challenge_id"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// A rejected check-in is not an error, Accepted is false and DistanceMeters
// tells how far the claimed location is from the target.
type CheckInResponse struct {
	Accepted       bool     `json:"accepted"`
	CheckInID      string   `json:"check_in_id,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	Reward         int64    `json:"reward"`
}
