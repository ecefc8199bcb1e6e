package models

import "time"

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Variants []Variant `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

type Variant struct {
	ID         uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"index;not null"`
	Category   Category
	Name       string `gorm:"size:100;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Colors        []Color        `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	BarcodeGroups []BarcodeGroup `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	SizeStocks    []SizeStock    `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}

type Color struct {
	ID        uint `gorm:"primaryKey"`
	VariantID uint `gorm:"index;not null"`
	Variant   Variant
	Name      string `gorm:"size:100;not null"`
	Hex       string `gorm:"size:10"` // display hex, e.g. "#1a1a1a"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Size: global size list shared across all variants and colors.
type Size struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"size:10;not null;unique"` // "XS".."XXL"
	Name      string `gorm:"size:50;not null"`
	SortOrder int    `gorm:"not null"`
	CreatedAt time.Time
}
