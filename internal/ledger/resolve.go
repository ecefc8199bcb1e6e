package ledger

import (
	"errors"
	"fmt"
	"strings"

	"boutique-backend/internal/models"

	"gorm.io/gorm"
)

type SkuKind int

const (
	// SkuPerSize: the barcode belongs to a per-size SizeStock row.
	SkuPerSize SkuKind = iota + 1
	// SkuGroupedLegacy: the barcode belongs to a pre-migration BarcodeGroup
	// covering several sizes. Resolve-only; no new groups are ever created.
	SkuGroupedLegacy
)

// SkuRef is the result of resolving a scanned barcode, exactly once per scan.
// For grouped legacy barcodes the concrete SizeStock is the first size in the
// group with positive stock at the store the scan happened at.
type SkuRef struct {
	Kind      SkuKind
	SizeStock *models.SizeStock
	Group     *models.BarcodeGroup

	Barcode   string
	UnitPrice float64
}

// ResolveBarcode looks a trimmed barcode up in the per-size SKU namespace
// first and falls back to the legacy barcode-group namespace. storeID scopes
// the legacy size pick; it does not gate per-size resolution.
func ResolveBarcode(db *gorm.DB, storeID uint, rawBarcode string) (*SkuRef, error) {
	barcode := strings.TrimSpace(rawBarcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", ErrNotFound)
	}

	var stock models.SizeStock
	err := db.Where("barcode = ?", barcode).First(&stock).Error
	if err == nil {
		return &SkuRef{
			Kind:      SkuPerSize,
			SizeStock: &stock,
			Barcode:   stock.Barcode,
			UnitPrice: stock.Price,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	var group models.BarcodeGroup
	err = db.Where("barcode = ?", barcode).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: barcode %q", ErrNotFound, barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	sizeIDs := group.SizeIDList()
	if len(sizeIDs) == 0 {
		return nil, fmt.Errorf("%w: barcode group %d has no sizes", ErrNotFound, group.ID)
	}

	// Pick the first size in the group with positive stock at this store.
	var stocked models.SizeStock
	err = db.
		Joins("JOIN store_inventories ON store_inventories.size_stock_id = size_stocks.id").
		Where("store_inventories.store_id = ? AND store_inventories.quantity > 0", storeID).
		Where("size_stocks.variant_id = ? AND size_stocks.size_id IN ?", group.VariantID, sizeIDs).
		Order("size_stocks.size_id").
		First(&stocked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no size of group %q in stock at store %d", ErrInsufficientStock, group.Name, storeID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	return &SkuRef{
		Kind:      SkuGroupedLegacy,
		SizeStock: &stocked,
		Group:     &group,
		Barcode:   group.Barcode,
		UnitPrice: group.Price, // grouped sales use the group price, not the SKU price
	}, nil
}

// DisplayName builds the denormalized "Category - Variant (Color, Size)"
// label snapshotted onto invoice lines, return lines and sales facts.
func DisplayName(db *gorm.DB, sizeStockID uint) (string, error) {
	var full models.SizeStock
	err := db.
		Preload("Variant").
		Preload("Variant.Category").
		Preload("Color").
		Preload("Size").
		First(&full, sizeStockID).Error
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return fmt.Sprintf("%s - %s (%s, %s)",
		full.Variant.Category.Name, full.Variant.Name, full.Color.Name, full.Size.Code), nil
}
