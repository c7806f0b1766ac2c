package models

import (
	"time"

	"github.com/google/uuid"
)

// BorrowModel represents the database model for Borrow.
type BorrowModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	DeviceID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	BorrowDate      time.Time  `gorm:"not null"`
	ReturnDate      *time.Time `gorm:""`
	BorrowStatus    string     `gorm:"type:varchar(20);not null;index"`
	ReturnCondition *string    `gorm:"column:device_return_condition;type:varchar(20)"`
	ReasonForBorrow string     `gorm:"type:varchar(20);not null"`
	DailyUsage      *float64   `gorm:""`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`

	User   *UserModel   `gorm:"foreignKey:UserID"`
	Device *DeviceModel `gorm:"foreignKey:DeviceID"`
}

func (BorrowModel) TableName() string {
	return "borrows"
}
