package device

import (
	"time"

	"github.com/google/uuid"

	"device-lending-backend/internal/domain/location"
)

// Device is a loanable physical unit owned by a pickup location.
//
// A device carries no "available" flag. Availability is derived from its
// borrow history: a device is free exactly when it has no borrow record in
// the active status set.
type Device struct {
	ID           uuid.UUID
	Brand        string
	Model        *string
	DeviceType   string
	SerialNumber string
	LocationID   uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Location *location.Location
}
