package dto

import (
	"time"

	"github.com/resolvepro/complaint-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name           string `json:"name" validate:"notblank,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Password       string `json:"password" validate:"required,max=72"`
	Role           string `json:"role" validate:"omitempty,role"`
	Specialization string `json:"specialization" validate:"max=100"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ExternalLoginRequest carries an identity already verified by an external provider.
type ExternalLoginRequest struct {
	ExternalID string `json:"external_id" validate:"notblank,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Name       string `json:"name" validate:"notblank,max=255"`
	Role       string `json:"role" validate:"required,oneof=user admin"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           domain.Role       `json:"role"`
	Status         domain.UserStatus `json:"status"`
	Specialization *string           `json:"specialization"`
	CreatedAt      time.Time         `json:"created_at"`
}

// AuthResponse is returned by register and login endpoints. Token fields are omitted
// for accounts still waiting for approval.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		Status:         user.Status,
		Specialization: user.Specialization,
		CreatedAt:      user.CreatedAt,
	}
}

// NewUserResponses maps a slice, never returning nil.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// NewAuthResponse builds the register/login body.
func NewAuthResponse(user *domain.User, token string, expiresAt time.Time) AuthResponse {
	resp := AuthResponse{User: NewUserResponse(user)}
	if token != "" {
		resp.Token = token
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

// EngineerResponse lists an engineer for manual assignment.
type EngineerResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Specialization *string `json:"specialization"`
}

// NewEngineerResponse maps an engineer.
func NewEngineerResponse(u *domain.User) EngineerResponse {
	return EngineerResponse{ID: u.ID, Name: u.Name, Email: u.Email, Specialization: u.Specialization}
}

// NewEngineerResponses maps engineers, never returning nil.
func NewEngineerResponses(users []domain.User) []EngineerResponse {
	out := make([]EngineerResponse, 0, len(users))
	for i := range users {
		out = append(out, NewEngineerResponse(&users[i]))
	}
	return out
}
