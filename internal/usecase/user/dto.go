package user

import (
	"time"

	"github.com/google/uuid"

	domainUser "device-lending-backend/internal/domain/user"
)

type RegisterRequest struct {
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required"`
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Phone         string  `json:"phone"`
	StreetAddress string  `json:"street_address" validate:"required"`
	City          string  `json:"city" validate:"required"`
	State         string  `json:"state" validate:"required"`
	ZipCode       string  `json:"zip_code" validate:"required"`
	DateOfBirth   *string `json:"date_of_birth"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	StreetAddress *string `json:"street_address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	ZipCode       *string `json:"zip_code"`
	DateOfBirth   *string `json:"date_of_birth"`
	Role          *string `json:"role"`
	Verified      *bool   `json:"verified"`
}

type ListUsersRequest struct {
	Role      *string `form:"role"`
	Verified  *bool   `form:"verified"`
	Search    string  `form:"search"`
	Page      int     `form:"page"`
	PageSize  int     `form:"page_size"`
	SortBy    string  `form:"sort_by"`
	SortOrder string  `form:"sort_order"`
}

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone,omitempty"`
	StreetAddress string     `json:"street_address"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	ZipCode       string     `json:"zip_code"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Role          string     `json:"role"`
	Verified      bool       `json:"verified"`
	CreatedAt     time.Time  `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		StreetAddress: u.StreetAddress,
		City:          u.City,
		State:         u.State,
		ZipCode:       u.ZipCode,
		DateOfBirth:   u.DateOfBirth,
		Role:          string(u.Role),
		Verified:      u.Verified,
		CreatedAt:     u.CreatedAt,
	}
}
