// Package model contains the GORM persistence models mirroring the database tables.
package model

import (
	"time"
)

// AccountModel mirrors the 'accounts' table. The location is stored as a
// nullable (longitude, latitude) column pair; both are set or both are NULL.
type AccountModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null"`
	FirstName    string `gorm:"type:varchar(150)"`
	LastName     string `gorm:"type:varchar(150)"`
	HomeAddress  string `gorm:"type:varchar(255)"`
	PhoneNumber  string `gorm:"type:varchar(20)"`
	Longitude    *float64
	Latitude     *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Sessions []SessionModel `gorm:"foreignKey:AccountID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
