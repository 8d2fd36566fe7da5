package model

type FollowRequest struct {
	UserID string `json:"user_id"`
}

type FollowResponse struct{}

type UnfollowRequest struct {
	UserID string `json:"user_id"`
}

type UnfollowResponse struct{}

type GetFollowingRequest struct {
	UserID string `json:"user_id"`
}

type GetFollowingResponse struct {
	UserIDs []string `json:"user_ids"`
}

type GetFollowersRequest struct {
	UserID string `json:"user_id"`
}

type GetFollowersResponse struct {
	UserIDs []string `json:"user_ids"`
}

type GetSuggestedFriendsRequest struct {
	Limit int `json:"limit"`
}

type GetSuggestedFriendsResponse struct {
	Users []User `json:"users"`
}

type GetFeedRequest struct {
	Limit int `json:"limit"`
}

type GetFeedResponse struct {
	CheckIns []CheckIn `json:"check_ins"`
}
