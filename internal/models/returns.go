package models

import "time"

type ReturnType string

const (
	ReturnTypeReturn   ReturnType = "return"
	ReturnTypeExchange ReturnType = "exchange"
)

type ReturnRecord struct {
	ID                uint `gorm:"primaryKey"`
	StoreID           uint `gorm:"index;not null"`
	Store             Store
	CustomerID        uint `gorm:"index;not null"`
	Customer          Customer
	OriginalInvoiceID uint `gorm:"index;not null"`
	OriginalInvoice   Invoice `gorm:"foreignKey:OriginalInvoiceID"`
	ReturnType        ReturnType `gorm:"size:20;not null"`
	// Zero for exchanges: the refund is settled against the exchange value,
	// the net due lives only in the settlement response.
	TotalRefundAmount float64 `gorm:"not null;default:0"`
	Status            string  `gorm:"size:20;not null;default:completed"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items         []ReturnItem   `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE"`
	ExchangeItems []ExchangeItem `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE"`
}

type ReturnItem struct {
	ID            uint `gorm:"primaryKey"`
	ReturnID      uint `gorm:"index;not null"`
	SizeStockID   uint `gorm:"index;not null"`
	ProductName   string  `gorm:"size:255;not null"`
	Barcode       string  `gorm:"size:50;not null"`
	Quantity      int     `gorm:"not null"`
	OriginalPrice float64 `gorm:"not null"`
	RefundAmount  float64 `gorm:"not null"`
	CreatedAt     time.Time
}

// ExchangeItem: a unit scanned in as the replacement side of an exchange.
type ExchangeItem struct {
	ID          uint `gorm:"primaryKey"`
	ReturnID    uint `gorm:"index;not null"`
	SizeStockID uint `gorm:"index;not null"`
	ProductName string  `gorm:"size:255;not null"`
	Barcode     string  `gorm:"size:50;not null"`
	Quantity    int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	CreatedAt   time.Time
}
