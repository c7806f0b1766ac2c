package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, filter *Filter) ([]*User, int64, error)
}

// Filter narrows and pages user listings.
type Filter struct {
	Role      *Role
	Verified  *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
