package api

import (
	"time"

	"starter-auth/internal/model"
)

// swagger:model api.UserResponse
type UserResponse struct {
	ID    string  `json:"id" example:"3f1c2a9e-8d4b-4a51-9a57-0d5f8c1e2b7a"`
	Email string  `json:"email" example:"alice@example.com"`
	Name  *string `json:"name" example:"Alice"`
}

// swagger:model api.AuthResponse
type AuthResponse struct {
	User UserResponse `json:"user"`
}

// AdminUserResponse 管理員查詢使用者時回傳，不含密碼摘要與 provider id
// swagger:model api.AdminUserResponse
type AdminUserResponse struct {
	UserResponse
	IsAdmin     bool      `json:"is_admin" example:"false"`
	HasPassword bool      `json:"has_password" example:"true"`
	AppleLinked bool      `json:"apple_linked" example:"false"`
	CreatedAt   time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2025-05-01T15:04:05Z"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func NewAdminUserResponse(u *model.User) AdminUserResponse {
	_, hasPassword := u.PasswordDigest()
	_, linked := u.ProviderID()
	return AdminUserResponse{
		UserResponse: NewUserResponse(u),
		IsAdmin:      u.IsAdmin,
		HasPassword:  hasPassword,
		AppleLinked:  linked,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
