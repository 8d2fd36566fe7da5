package model

import "time"

type CreateChallengeRequest struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	DurationDays   int        `json:"duration_days"`
	Type           string     `json:"type"`
	StakeAmount    int64      `json:"stake_amount"`
	LocationName   string     `json:"location_name"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	InvitedUserIDs []string   `json:"invited_user_ids"`
	Visibility     string     `json:"visibility"`
	StartAt        *time.Time `json:"start_at"`
}

type CreateChallengeResponse struct {
	ID string `json:"id"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type JoinChallengeResponse struct{}

type LeaveChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type LeaveChallengeResponse struct{}

type DeleteChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type DeleteChallengeResponse struct{}

type GetMyChallengesRequest struct {
	// UserID lists the challenges of another user, default is the requester.
	UserID string `json:"user_id"`
}

type GetMyChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type GetChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type GetChallengeResponse Challenge

type GetPublicChallengesRequest struct {
	Limit int `json:"limit"`
}

type GetPublicChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type SearchChallengesRequest struct {
	Q     string `json:"q"`
	Limit int    `json:"limit"`
}

type SearchChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type GetChallengeLeaderboardRequest struct {
	ChallengeID string `json:"challenge_id"`
	Offset      int    `json:"offset"`
	Limit       int    `json:"limit"`
}

type GetChallengeLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
