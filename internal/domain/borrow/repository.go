package borrow

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for borrow records.
//
// ClaimDevice and Reassign are the two write paths that must uphold the
// single-active-borrow-per-device invariant; both serialize on the device row
// inside one transaction and re-count active borrows before writing.
type Repository interface {
	// Create persists a borrow without the device-conflict check. Only valid
	// for records whose status is outside the active set.
	Create(ctx context.Context, b *Borrow) error

	// ClaimDevice atomically verifies the device has no active borrow and
	// inserts b. Returns ErrDeviceConflict if the device is already claimed.
	ClaimDevice(ctx context.Context, b *Borrow) error

	GetByID(ctx context.Context, borrowID uuid.UUID) (*Borrow, error)

	// Update applies changes to the record identified by borrowID. The caller
	// decides which columns may change; nothing else is touched.
	Update(ctx context.Context, borrowID uuid.UUID, changes map[string]interface{}) error

	// Reassign moves the record onto deviceID and applies changes in the same
	// transaction. When requireIdle is set, the target device must have no
	// other active borrow or ErrDeviceConflict is returned.
	Reassign(ctx context.Context, borrowID, deviceID uuid.UUID, requireIdle bool, changes map[string]interface{}) error

	Delete(ctx context.Context, borrowID uuid.UUID) error
	List(ctx context.Context, filter *Filter) ([]*Borrow, int64, error)

	CountActiveByDevice(ctx context.Context, deviceID uuid.UUID) (int64, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Filter narrows and pages borrow listings.
type Filter struct {
	UserID    *uuid.UUID
	DeviceID  *uuid.UUID
	Status    *Status
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
