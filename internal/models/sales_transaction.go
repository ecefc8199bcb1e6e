package models

import "time"

// SalesTransaction: one reporting fact per SKU sold per invoice. Discount and
// GST are apportioned pro-rata by line value at settlement time. Never used as
// the source of truth for stock; StoreInventory is.
type SalesTransaction struct {
	ID          uint `gorm:"primaryKey"`
	StoreID     uint `gorm:"index;not null"`
	Store       Store
	InvoiceID   *uint     `gorm:"index"`
	SizeStockID *uint     `gorm:"index"` // nil for legacy barcode-group sales
	ProductName string    `gorm:"size:255"` // denormalized for reporting
	Barcode     string    `gorm:"size:50;not null"`
	Quantity    int       `gorm:"not null"`
	Price       float64   `gorm:"not null"` // unit price
	TotalAmount float64   `gorm:"not null"` // price * quantity, before discount/gst
	Discount    float64   `gorm:"not null;default:0"`
	GSTAmount   float64   `gorm:"not null;default:0"`
	FinalAmount float64   `gorm:"not null"` // total - discount + gst
	CreatedAt   time.Time `gorm:"index"`
}
