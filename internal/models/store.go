package models

import "time"

type Store struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Location  string `gorm:"size:255"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}

// StoreInventory: per-store stock pool of one SKU. Rows are created on first
// distribution and mutated by every sale/return/exchange at that store.
type StoreInventory struct {
	ID          uint `gorm:"primaryKey"`
	StoreID     uint `gorm:"not null;uniqueIndex:idx_store_size_stock"`
	Store       Store
	SizeStockID uint `gorm:"not null;uniqueIndex:idx_store_size_stock"`
	SizeStock   SizeStock
	Quantity    int `gorm:"not null;default:0;check:quantity >= 0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StoreGSTSetting: per-store tax configuration applied at checkout.
type StoreGSTSetting struct {
	ID           uint `gorm:"primaryKey"`
	StoreID      uint `gorm:"uniqueIndex;not null"`
	Store        Store
	GSTRate      float64 `gorm:"not null;default:18"`
	GSTNumber    string  `gorm:"size:50"`
	IsGSTEnabled bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
