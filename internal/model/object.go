package model

type AccessToken struct {
	ID string `json:"id"`
}

type RefreshToken struct {
	ID string `json:"id"`
}

type User struct {
	ID              string `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profile_image_url"`

	// TokenBalance is only filled on the profile of the requester.
	TokenBalance *int64 `json:"token_balance,omitempty"`
}

type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Participant struct {
	UserID   string `json:"user_id"`
	JoinedAt string `json:"joined_at"`
	Progress int    `json:"progress"`
}

type Challenge struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	DurationDays   int       `json:"duration_days"`
	Type           string    `json:"type"`
	StakeAmount    int64     `json:"stake_amount"`
	Location       *Location `json:"location,omitempty"`
	CreatedBy      string    `json:"created_by"`
	InvitedUserIDs []string  `json:"invited_user_ids"`
	Status         string    `json:"status"`
	Visibility     string    `json:"visibility"`
	StartAt        string    `json:"start_at"`
	EndAt          string    `json:"end_at"`
	CreatedAt      string    `json:"created_at"`

	Participants []Participant `json:"participants,omitempty"`
}

type Transaction struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	CheckInID   string `json:"check_in_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type CheckIn struct {
	ID             string   `json:"id"`
	ChallengeID    string   `json:"challenge_id"`
	ChallengeName  string   `json:"challenge_name,omitempty"`
	UserID         string   `json:"user_id"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	CheckIns int    `json:"check_ins"`
	Rank     int    `json:"rank"`
}
