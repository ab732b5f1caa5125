package domain

import "time"

// Role is the capability tag stored on a user account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFarmer Role = "farmer"
	RoleDealer Role = "dealer"
	RoleUser   Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFarmer, RoleDealer, RoleUser:
		return true
	default:
		return false
	}
}

// User is the account record behind a Subject.
type User struct {
	ID           string
	Email        string
	Phone        *string
	Username     *string
	FirstName    *string
	LastName     *string
	Location     *string
	PasswordHash string
	Role         Role
	AcceptTerms  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subject returns the user's principal identifier.
func (u *User) Subject() Subject {
	return Subject(u.ID)
}
