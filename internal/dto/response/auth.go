package response

import (
	"time"

	"movie-ticketing/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	FullName  string          `json:"full_name"`
	Role      entity.UserRole `json:"role"`
}

type UserResponse struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	FullName     string          `json:"full_name"`
	DateOfBirth  *string         `json:"date_of_birth,omitempty"`
	AddressLine1 *string         `json:"address_line1,omitempty"`
	AddressLine2 *string         `json:"address_line2,omitempty"`
	City         *string         `json:"city,omitempty"`
	State        *string         `json:"state,omitempty"`
	Zip          *string         `json:"zip,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Role         entity.UserRole `json:"role"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		FullName:     user.FullName(),
		AddressLine1: user.AddressLine1,
		AddressLine2: user.AddressLine2,
		City:         user.City,
		State:        user.State,
		Zip:          user.Zip,
		Phone:        user.Phone,
		Role:         user.Role,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
	}
	if user.DateOfBirth != nil {
		dob := user.DateOfBirth.Format(time.DateOnly)
		resp.DateOfBirth = &dob
	}
	return resp
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName(),
		Role:     user.Role,
	}

	if session != nil {
		resp.Token = session.Token.String()
		expires := session.ExpiresAt
		resp.ExpiresAt = &expires
	}

	return resp
}
