package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User.
type UserModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHashed string     `gorm:"type:varchar(255);not null"`
	FirstName      string     `gorm:"type:varchar(100);not null"`
	LastName       string     `gorm:"type:varchar(100);not null"`
	Phone          string     `gorm:"type:varchar(20)"`
	StreetAddress  string     `gorm:"type:varchar(255)"`
	City           string     `gorm:"type:varchar(100)"`
	State          string     `gorm:"type:varchar(50)"`
	ZipCode        string     `gorm:"type:varchar(10);index"`
	DateOfBirth    *time.Time `gorm:"type:date"`
	Role           string     `gorm:"type:varchar(20);not null;default:'user'"`
	Verified       bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
