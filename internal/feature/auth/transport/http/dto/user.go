package dto

import (
	"time"

	"cartify_backend/internal/feature/auth/domain/entity"
)

// UserRes is the public view of an account. The password hash is never serialized.
type UserRes struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserListRes(users []*entity.User) []UserRes {
	out := make([]UserRes, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserRes(u))
	}
	return out
}

// UpdateProfileReq replaces the editable profile fields.
type UpdateProfileReq struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
}

// ChangePasswordReq is the body of PUT /auth/me/password.
type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
