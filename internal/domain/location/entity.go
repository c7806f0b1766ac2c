package location

import (
	"time"

	"github.com/google/uuid"
)

// Location is a fixed pickup site that owns devices.
type Location struct {
	ID            uuid.UUID
	StreetAddress string
	City          string
	State         string
	ZipCode       string
	Nickname      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
