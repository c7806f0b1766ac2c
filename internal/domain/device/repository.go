package device

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for devices.
type Repository interface {
	Create(ctx context.Context, d *Device) error
	GetByID(ctx context.Context, deviceID uuid.UUID) (*Device, error)
	GetBySerialNumber(ctx context.Context, serial string) (*Device, error)
	Update(ctx context.Context, d *Device) error
	Delete(ctx context.Context, deviceID uuid.UUID) error
	List(ctx context.Context, filter *Filter) ([]*Device, int64, error)

	// FindAvailable returns the first device at the location, optionally
	// restricted to deviceType, whose borrow history holds no record in the
	// active status set. Ties are broken by the store's natural order; the
	// caller must still re-validate at commit time.
	FindAvailable(ctx context.Context, locationID uuid.UUID, deviceType *string) (*Device, error)
}

// Filter narrows and pages device listings.
type Filter struct {
	LocationID *uuid.UUID
	DeviceType *string
	Brand      *string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
