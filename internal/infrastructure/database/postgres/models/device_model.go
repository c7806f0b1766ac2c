package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceModel represents the database model for Device. Availability is
// never stored; it is derived from the borrow history.
type DeviceModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Brand        string    `gorm:"type:varchar(100);not null"`
	Model        *string   `gorm:"type:varchar(100)"`
	DeviceType   string    `gorm:"type:varchar(50);not null;index"`
	SerialNumber string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	LocationID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	Location *LocationModel `gorm:"foreignKey:LocationID"`
}

func (DeviceModel) TableName() string {
	return "devices"
}
