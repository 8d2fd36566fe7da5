package model

type GetMeRequest struct{}

type GetMeResponse User

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse User

type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type UpdateUserResponse struct{}

type UploadAvatarRequest struct{}

type UploadAvatarResponse struct {
	URL string `json:"url"`
}
