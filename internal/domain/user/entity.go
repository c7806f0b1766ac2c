package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the caller role attached to every authenticated request.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered borrower or an administrator.
type User struct {
	ID             uuid.UUID
	Email          string
	PasswordHashed string
	FirstName      string
	LastName       string
	Phone          string
	StreetAddress  string
	City           string
	State          string
	ZipCode        string
	DateOfBirth    *time.Time
	Role           Role
	Verified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
