package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationModel represents the database model for Location.
type LocationModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	StreetAddress string    `gorm:"type:varchar(255);not null"`
	City          string    `gorm:"type:varchar(100);not null"`
	State         string    `gorm:"type:varchar(50);not null"`
	ZipCode       string    `gorm:"type:varchar(10);not null"`
	Nickname      *string   `gorm:"type:varchar(100)"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (LocationModel) TableName() string {
	return "locations"
}
