package models

import (
	"strconv"
	"strings"
	"time"
)

// SizeStock: the sellable SKU. One barcode, one price, one
// (variant, color, size) triple, plus the central warehouse pool.
type SizeStock struct {
	ID             uint `gorm:"primaryKey"`
	VariantID      uint `gorm:"not null;uniqueIndex:idx_variant_color_size"`
	Variant        Variant
	ColorID        uint `gorm:"not null;uniqueIndex:idx_variant_color_size"`
	Color          Color
	SizeID         uint `gorm:"not null;uniqueIndex:idx_variant_color_size"`
	Size           Size
	Barcode        string  `gorm:"size:50;not null;uniqueIndex"`
	Price          float64 `gorm:"not null"`
	WarehouseStock int     `gorm:"not null;default:0;check:warehouse_stock >= 0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BarcodeGroup: legacy model, one barcode and one price shared across several
// sizes of a variant. Kept only so barcodes printed before the per-size SKU
// migration still resolve at the till; no new groups are created.
type BarcodeGroup struct {
	ID        uint `gorm:"primaryKey"`
	VariantID uint `gorm:"index;not null"`
	Variant   Variant
	Name      string  `gorm:"size:100;not null"`
	Barcode   string  `gorm:"size:50;not null;uniqueIndex"`
	Price     float64 `gorm:"not null"`
	SizeIDs   string  `gorm:"size:255;not null"` // comma-separated size ids
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SizeIDList parses the comma-separated size id column. Invalid entries are
// skipped rather than failing the whole group.
func (g *BarcodeGroup) SizeIDList() []uint {
	parts := strings.Split(g.SizeIDs, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}
