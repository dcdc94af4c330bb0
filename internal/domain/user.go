package domain

import (
	"strings"
	"time"
)

// UserType classifies marketplace accounts.
type UserType string

const (
	UserTypeClient      UserType = "CLIENT"
	UserTypeLivreur     UserType = "LIVREUR"
	UserTypePrestataire UserType = "PRESTATAIRE"
	UserTypeCommercant  UserType = "COMMERCANT"
	UserTypeAdmin       UserType = "ADMIN"
)

var userTypes = map[UserType]struct{}{
	UserTypeClient:      {},
	UserTypeLivreur:     {},
	UserTypePrestataire: {},
	UserTypeCommercant:  {},
	UserTypeAdmin:       {},
}

// Valid reports whether t is a recognized classification.
func (t UserType) Valid() bool {
	_, ok := userTypes[t]
	return ok
}

// ParseUserType normalizes raw input into a UserType.
func ParseUserType(raw string) (UserType, bool) {
	t := UserType(strings.ToUpper(strings.TrimSpace(raw)))
	return t, t.Valid()
}

// User is the account record behind a credential.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	LastName     string
	FirstName    string
	Phone        string
	Type         UserType
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
