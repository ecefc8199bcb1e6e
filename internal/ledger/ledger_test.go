package ledger

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"boutique-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Store{},
		&models.Category{},
		&models.Variant{},
		&models.Color{},
		&models.Size{},
		&models.SizeStock{},
		&models.BarcodeGroup{},
		&models.StoreInventory{},
		&models.SalesTransaction{},
	))
	return db
}

// seedSKU creates one store and one sellable SKU with the given warehouse
// pool. Names are suffixed with the barcode so one test can seed several.
func seedSKU(t *testing.T, db *gorm.DB, barcode string, price float64, warehouse int) (*models.Store, *models.SizeStock) {
	t.Helper()

	store := models.Store{Name: "Main " + barcode, IsActive: true}
	require.NoError(t, db.Create(&store).Error)

	category := models.Category{Name: "Shirts " + barcode}
	require.NoError(t, db.Create(&category).Error)
	variant := models.Variant{CategoryID: category.ID, Name: "Oxford"}
	require.NoError(t, db.Create(&variant).Error)
	color := models.Color{VariantID: variant.ID, Name: "Blue"}
	require.NoError(t, db.Create(&color).Error)
	size := models.Size{Code: "M-" + barcode, Name: "Medium", SortOrder: 3}
	require.NoError(t, db.Create(&size).Error)

	stock := models.SizeStock{
		VariantID:      variant.ID,
		ColorID:        color.ID,
		SizeID:         size.ID,
		Barcode:        barcode,
		Price:          price,
		WarehouseStock: warehouse,
	}
	require.NoError(t, db.Create(&stock).Error)
	return &store, &stock
}

func TestDistributeRejectsNonPositiveQuantity(t *testing.T) {
	assert.ErrorIs(t, Distribute(nil, 1, 1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, Distribute(nil, 1, 1, -5), ErrInvalidQuantity)
}

func TestAdjustWarehouseStockRejectsNegative(t *testing.T) {
	assert.ErrorIs(t, AdjustWarehouseStock(nil, 1, -1), ErrInvalidQuantity)
}

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("%w: only 2 left on the shelf", ErrInsufficientStock)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDistributeMovesBothPoolsTogether(t *testing.T) {
	db := newTestDB(t)
	store, stock := seedSKU(t, db, "BC-DIST", 20, 10)

	require.NoError(t, Distribute(db, store.ID, stock.ID, 4))

	var after models.SizeStock
	require.NoError(t, db.First(&after, stock.ID).Error)
	assert.Equal(t, 6, after.WarehouseStock)

	qty, err := StoreQuantity(db, store.ID, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)

	// A second distribution lands on the existing inventory row.
	require.NoError(t, Distribute(db, store.ID, stock.ID, 2))
	qty, err = StoreQuantity(db, store.ID, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, qty)
}

func TestDistributeInsufficientLeavesPoolsUntouched(t *testing.T) {
	db := newTestDB(t)
	store, stock := seedSKU(t, db, "BC-SHORT", 20, 3)

	err := Distribute(db, store.ID, stock.ID, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var after models.SizeStock
	require.NoError(t, db.First(&after, stock.ID).Error)
	assert.Equal(t, 3, after.WarehouseStock, "failed transfer must not touch the warehouse pool")

	qty, err := StoreQuantity(db, store.ID, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty, "failed transfer must not create shelf stock")
}

func TestDecrementStoreStockNeverOversells(t *testing.T) {
	db := newTestDB(t)
	store, stock := seedSKU(t, db, "BC-OVER", 20, 10)
	require.NoError(t, Distribute(db, store.ID, stock.ID, 2))

	err := DecrementStoreStock(db, store.ID, stock.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	qty, err := StoreQuantity(db, store.ID, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}

func TestDecrementStoreStockUnstockedProduct(t *testing.T) {
	db := newTestDB(t)
	store, stock := seedSKU(t, db, "BC-NEW", 20, 10)

	// Never distributed to this store: a lookup failure, not a quantity one.
	err := DecrementStoreStock(db, store.ID, stock.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSellAtStoreDecrementsAndRecordsFact(t *testing.T) {
	db := newTestDB(t)
	store, stock := seedSKU(t, db, "BC-SELL", 25, 5)
	require.NoError(t, Distribute(db, store.ID, stock.ID, 1))

	sale, err := SellAtStore(db, store.ID, "BC-SELL")
	require.NoError(t, err)
	assert.Equal(t, 25.0, sale.Price)
	assert.Equal(t, 1, sale.Quantity)
	require.NotNil(t, sale.SizeStockID)
	assert.Equal(t, stock.ID, *sale.SizeStockID)

	qty, err := StoreQuantity(db, store.ID, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	_, err = SellAtStore(db, store.ID, "BC-SELL")
	assert.ErrorIs(t, err, ErrInsufficientStock)
}
