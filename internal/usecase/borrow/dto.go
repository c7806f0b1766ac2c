package borrow

import (
	"time"

	"github.com/google/uuid"

	domainBorrow "device-lending-backend/internal/domain/borrow"
	"device-lending-backend/internal/domain/user"
)

// Actor identifies the authenticated caller as resolved by the router. The
// engine trusts this input.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// CreateBorrowRequest carries a new borrow request. Status, condition,
// return date, explicit device and user id are honored only for staff;
// self-service values for those fields are ignored or rejected per the
// lifecycle rules.
type CreateBorrowRequest struct {
	UserID     *uuid.UUID `json:"user_id"`
	LocationID uuid.UUID  `json:"location_id" validate:"required"`
	DeviceID   *uuid.UUID `json:"device_id"`
	DeviceType *string    `json:"device_type"`
	BorrowDate string     `json:"borrow_date" validate:"required"`
	ReturnDate *string    `json:"return_date"`
	Status     *string    `json:"borrow_status"`
	Condition  *string    `json:"device_return_condition"`
	Reason     string     `json:"reason_for_borrow" validate:"required"`
	DailyUsage *float64   `json:"daily_usage"`
}

// UpdateBorrowRequest carries a partial update; nil fields are left at their
// prior values.
type UpdateBorrowRequest struct {
	Status     *string    `json:"borrow_status"`
	BorrowDate *string    `json:"borrow_date"`
	ReturnDate *string    `json:"return_date"`
	Condition  *string    `json:"device_return_condition"`
	Reason     *string    `json:"reason_for_borrow"`
	DeviceID   *uuid.UUID `json:"device_id"`
	DailyUsage *float64   `json:"daily_usage"`
}

// ListBorrowsRequest pages and filters borrow listings.
type ListBorrowsRequest struct {
	UserID    *uuid.UUID `form:"user_id"`
	DeviceID  *uuid.UUID `form:"device_id"`
	Status    *string    `form:"status"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	SortBy    string     `form:"sort_by"`
	SortOrder string     `form:"sort_order"`
}

type BorrowResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	DeviceID   uuid.UUID       `json:"device_id"`
	BorrowDate time.Time       `json:"borrow_date"`
	ReturnDate *time.Time      `json:"return_date,omitempty"`
	Status     string          `json:"borrow_status"`
	Condition  *string         `json:"device_return_condition,omitempty"`
	Reason     string          `json:"reason_for_borrow"`
	DailyUsage *float64        `json:"daily_usage,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	User       *UserSummary    `json:"user,omitempty"`
	Device     *DeviceSummary  `json:"device,omitempty"`
}

type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type DeviceSummary struct {
	ID           uuid.UUID `json:"id"`
	Brand        string    `json:"brand"`
	Model        *string   `json:"model,omitempty"`
	DeviceType   string    `json:"device_type"`
	SerialNumber string    `json:"serial_number"`
	LocationID   uuid.UUID `json:"location_id"`
}

type BorrowListResponse struct {
	Borrows    []BorrowResponse `json:"borrows"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func ToBorrowResponse(b *domainBorrow.Borrow) *BorrowResponse {
	resp := &BorrowResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		DeviceID:   b.DeviceID,
		BorrowDate: b.BorrowDate,
		ReturnDate: b.ReturnDate,
		Status:     string(b.Status),
		Reason:     string(b.Reason),
		DailyUsage: b.DailyUsage,
		CreatedAt:  b.CreatedAt,
	}
	if b.Condition != nil {
		c := string(*b.Condition)
		resp.Condition = &c
	}
	if b.User != nil {
		resp.User = &UserSummary{
			ID:        b.User.ID,
			Email:     b.User.Email,
			FirstName: b.User.FirstName,
			LastName:  b.User.LastName,
		}
	}
	if b.Device != nil {
		resp.Device = &DeviceSummary{
			ID:           b.Device.ID,
			Brand:        b.Device.Brand,
			Model:        b.Device.Model,
			DeviceType:   b.Device.DeviceType,
			SerialNumber: b.Device.SerialNumber,
			LocationID:   b.Device.LocationID,
		}
	}
	return resp
}
