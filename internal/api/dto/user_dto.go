package dto

import (
	"time"

	"github.com/fixora/helpdesk/internal/domain"
)

// CreateUserRequest payload.
type CreateUserRequest struct {
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	SlackUserID *string `json:"slack_user_id"`
	Department  *string `json:"department"`
	Role        string  `json:"role"`
	Phone       *string `json:"phone"`
}

// UpdateUserRequest payload; absent fields stay untouched.
type UpdateUserRequest struct {
	FullName    *string `json:"full_name"`
	SlackUserID *string `json:"slack_user_id"`
	Department  *string `json:"department"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
	Phone       *string `json:"phone"`
}

// UserResponse directory entry.
type UserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	SlackUserID *string   `json:"slack_user_id"`
	Department  *string   `json:"department"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	Phone       *string   `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TokenResponse carries an issued actor token.
type TokenResponse struct {
	Token string `json:"token"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		SlackUserID: u.SlackUserID,
		Department:  u.Department,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewUserListResponse maps users.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
