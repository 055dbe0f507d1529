// File: internal/api/user.go
package api

import "recipe-app/internal/model"

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required,min=5" example:"Secret123!"`
	Name     string `json:"name" form:"name" validate:"max=255" example:"Alice"`
}

// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	Name     *string `json:"name" form:"name" validate:"omitempty,max=255" example:"Alice"`
	Password *string `json:"password" form:"password" validate:"omitempty,min=5" example:"NewSecret456!"`
}

// swagger:model api.TokenRequest
type TokenRequest struct {
	Email    string `json:"email" form:"email" validate:"required" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.TokenResponse
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOi..."`
}

// swagger:model api.UserResponse
type UserResponse struct {
	Email string `json:"email" example:"alice@example.com"`
	Name  string `json:"name" example:"Alice"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}
