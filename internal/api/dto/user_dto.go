package dto

import (
	"time"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

// UserProfileResponse describes an account without credentials.
type UserProfileResponse struct {
	ID        int64     `json:"idUtilisateur"`
	Email     string    `json:"email"`
	LastName  string    `json:"nom"`
	FirstName string    `json:"prenom"`
	Phone     string    `json:"telephone,omitempty"`
	UserType  string    `json:"type"`
	Active    bool      `json:"actif"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserProfileResponse maps a domain user.
func NewUserProfileResponse(user *domain.User) UserProfileResponse {
	return UserProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		LastName:  user.LastName,
		FirstName: user.FirstName,
		Phone:     user.Phone,
		UserType:  string(user.Type),
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}

// SessionResponse echoes the identity attached to the current request.
type SessionResponse struct {
	Authenticated bool     `json:"authenticated"`
	Email         string   `json:"email,omitempty"`
	UserID        int64    `json:"userId,omitempty"`
	UserType      string   `json:"userType,omitempty"`
	Roles         []string `json:"roles"`
}

// PasswordStrengthRequest payload for the strength checker.
type PasswordStrengthRequest struct {
	Password  string `json:"motDePasse"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"prenom,omitempty"`
	LastName  string `json:"nom,omitempty"`
}

// PasswordStrengthResponse reports the policy evaluation.
type PasswordStrengthResponse struct {
	Valid       bool     `json:"valid"`
	Strength    int      `json:"strength"`
	Label       string   `json:"label"`
	Errors      []string `json:"errors"`
	Suggestions []string `json:"suggestions"`
}
