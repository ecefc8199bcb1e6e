package models

import "time"

type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

type Invoice struct {
	ID             uint   `gorm:"primaryKey"`
	InvoiceNumber  string `gorm:"size:50;not null;uniqueIndex"`
	StoreID        uint   `gorm:"index;not null"`
	Store          Store
	CustomerID     *uint `gorm:"index"`
	Customer       *Customer
	Subtotal       float64       `gorm:"not null"`
	DiscountType   DiscountType  `gorm:"size:20;not null;default:none"`
	DiscountValue  float64       `gorm:"not null;default:0"`
	DiscountAmount float64       `gorm:"not null;default:0"`
	GSTRate        float64       `gorm:"not null;default:0"`
	GSTAmount      float64       `gorm:"not null;default:0"`
	TotalAmount    float64       `gorm:"not null"`
	PaymentMethod  PaymentMethod `gorm:"size:20;not null;default:cash"`
	CreatedAt      time.Time     `gorm:"index"`
	UpdatedAt      time.Time

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceItem: denormalized snapshot of the sold SKU so historical invoices
// stay stable when the catalog is later renamed or repriced.
type InvoiceItem struct {
	ID          uint `gorm:"primaryKey"`
	InvoiceID   uint `gorm:"index;not null"`
	SizeStockID uint `gorm:"index;not null"`
	ProductName string  `gorm:"size:255;not null"` // "Category - Variant (Color, Size)"
	Barcode     string  `gorm:"size:50;not null"`
	Quantity    int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	LineTotal   float64 `gorm:"not null"`
	CreatedAt   time.Time
}
