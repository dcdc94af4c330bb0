package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"motDePasse"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FirstName string `json:"prenom"`
	LastName  string `json:"nom"`
	Email     string `json:"email"`
	Password  string `json:"motDePasse"`
	UserType  string `json:"userType"`
	Phone     string `json:"telephone,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	UserType  string `json:"userType"`
}

// TokenTypeBearer is the scheme announced in AuthResponse.Type.
const TokenTypeBearer = "Bearer"
