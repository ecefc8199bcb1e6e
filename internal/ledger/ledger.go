package ledger

import (
	"errors"
	"fmt"

	"boutique-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Every mutating operation in this package runs as one database transaction
// with conditional decrements ("quantity - N only where quantity >= N"), so
// two operators racing on the same SKU either serialize or one gets a clean
// InsufficientStock instead of a silently lost unit.

// Distribute moves quantity units of one SKU from the warehouse pool to a
// store's shelf pool. Both halves of the transfer commit together or not at
// all.
func Distribute(db *gorm.DB, storeID, sizeStockID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: distribution quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := DecrementWarehouse(tx, sizeStockID, quantity); err != nil {
			return err
		}
		return IncrementStoreStock(tx, storeID, sizeStockID, quantity)
	})
}

// SellAtStore performs a single-unit scan-and-sell at one store: resolve the
// barcode, decrement the shelf pool by one, append a sales fact. Cart-based
// multi-line checkout lives in the checkout package and uses the same
// decrement primitive.
func SellAtStore(db *gorm.DB, storeID uint, barcode string) (*models.SalesTransaction, error) {
	var sale *models.SalesTransaction

	err := db.Transaction(func(tx *gorm.DB) error {
		ref, err := ResolveBarcode(tx, storeID, barcode)
		if err != nil {
			return err
		}

		if err := DecrementStoreStock(tx, storeID, ref.SizeStock.ID, 1); err != nil {
			return err
		}

		name, err := DisplayName(tx, ref.SizeStock.ID)
		if err != nil {
			return err
		}

		sale = &models.SalesTransaction{
			StoreID:     storeID,
			ProductName: name,
			Barcode:     ref.Barcode,
			Quantity:    1,
			Price:       ref.UnitPrice,
			TotalAmount: ref.UnitPrice,
			FinalAmount: ref.UnitPrice,
		}
		if ref.Kind == SkuPerSize {
			id := ref.SizeStock.ID
			sale.SizeStockID = &id
		}
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ComputeAvailableStock returns the warehouse pool for a
// (variant, color, size) combination, 0 if no SKU exists for it. Callers use
// it to cap distribution inputs; Distribute re-checks inside its transaction.
func ComputeAvailableStock(db *gorm.DB, variantID, colorID, sizeID uint) (int, error) {
	var stock models.SizeStock
	err := db.Where("variant_id = ? AND color_id = ? AND size_id = ?", variantID, colorID, sizeID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return stock.WarehouseStock, nil
}

// AdjustWarehouseStock is the direct admin override, independent of the
// distribution flow.
func AdjustWarehouseStock(db *gorm.DB, sizeStockID uint, newQuantity int) error {
	if newQuantity < 0 {
		return fmt.Errorf("%w: warehouse stock cannot be negative", ErrInvalidQuantity)
	}

	res := db.Model(&models.SizeStock{}).
		Where("id = ?", sizeStockID).
		UpdateColumn("warehouse_stock", newQuantity)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrTransient, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: size stock %d", ErrNotFound, sizeStockID)
	}
	return nil
}

// DecrementWarehouse takes quantity units out of the warehouse pool. The
// WHERE clause carries the sufficiency check so a concurrent decrement cannot
// drive the pool negative.
func DecrementWarehouse(tx *gorm.DB, sizeStockID uint, quantity int) error {
	res := tx.Model(&models.SizeStock{}).
		Where("id = ? AND warehouse_stock >= ?", sizeStockID, quantity).
		UpdateColumn("warehouse_stock", gorm.Expr("warehouse_stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrTransient, res.Error)
	}
	if res.RowsAffected == 0 {
		var stock models.SizeStock
		if err := tx.First(&stock, sizeStockID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: size stock %d", ErrNotFound, sizeStockID)
		}
		return fmt.Errorf("%w: warehouse has %d, requested %d", ErrInsufficientStock, stock.WarehouseStock, quantity)
	}
	return nil
}

// DecrementStoreStock takes quantity units off a store shelf, same contract
// as DecrementWarehouse.
func DecrementStoreStock(tx *gorm.DB, storeID, sizeStockID uint, quantity int) error {
	res := tx.Model(&models.StoreInventory{}).
		Where("store_id = ? AND size_stock_id = ? AND quantity >= ?", storeID, sizeStockID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrTransient, res.Error)
	}
	if res.RowsAffected == 0 {
		var inv models.StoreInventory
		err := tx.Where("store_id = ? AND size_stock_id = ?", storeID, sizeStockID).First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Never stocked at this store is a lookup failure, not a
			// quantity failure.
			return fmt.Errorf("%w: product not stocked at store %d", ErrNotFound, storeID)
		}
		return fmt.Errorf("%w: store has %d, requested %d", ErrInsufficientStock, inv.Quantity, quantity)
	}
	return nil
}

// IncrementStoreStock adds units to a store shelf, creating the inventory row
// on first distribution.
func IncrementStoreStock(tx *gorm.DB, storeID, sizeStockID uint, quantity int) error {
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}, {Name: "size_stock_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("store_inventories.quantity + ?", quantity),
		}),
	}).Create(&models.StoreInventory{
		StoreID:     storeID,
		SizeStockID: sizeStockID,
		Quantity:    quantity,
	}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return nil
}

// StoreQuantity reads the current shelf quantity of one SKU at one store,
// 0 if the store has never received it.
func StoreQuantity(db *gorm.DB, storeID, sizeStockID uint) (int, error) {
	var inv models.StoreInventory
	err := db.Where("store_id = ? AND size_stock_id = ?", storeID, sizeStockID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return inv.Quantity, nil
}
