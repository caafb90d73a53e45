package api

// swagger:model api.SignupRequest
type SignupRequest struct {
	Email    string  `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password string  `json:"password" form:"password" validate:"required,min=8" example:"password123"`
	Name     *string `json:"name,omitempty" form:"name" validate:"omitempty,max=200" example:"Alice"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"password123"`
}

// AppleCallbackRequest 是 Apple 以 form_post 送回的欄位
// swagger:model api.AppleCallbackRequest
type AppleCallbackRequest struct {
	Code  string `form:"code"`
	State string `form:"state"`
	// User 僅在第一次授權時出現 (JSON 字串)
	User string `form:"user"`
	// Error 使用者取消授權時為 user_cancelled_authorize
	Error string `form:"error"`
}
