package models

import "time"

// Customer: phone is the natural key used by checkout and returns lookups.
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Phone     string `gorm:"size:20;not null;uniqueIndex"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
