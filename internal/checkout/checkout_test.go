package checkout

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"boutique-backend/internal/ledger"
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
		&models.StoreGSTSetting{},
		&models.Customer{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.SalesTransaction{},
	))
	return db
}

func seedShelfSKU(t *testing.T, db *gorm.DB, barcode string, price float64, shelf int, store *models.Store) *models.SizeStock {
	t.Helper()

	category := models.Category{Name: "Shirts " + barcode}
	require.NoError(t, db.Create(&category).Error)
	variant := models.Variant{CategoryID: category.ID, Name: "Oxford"}
	require.NoError(t, db.Create(&variant).Error)
	color := models.Color{VariantID: variant.ID, Name: "Blue"}
	require.NoError(t, db.Create(&color).Error)
	size := models.Size{Code: "M-" + barcode, Name: "Medium", SortOrder: 3}
	require.NoError(t, db.Create(&size).Error)

	stock := models.SizeStock{
		VariantID: variant.ID,
		ColorID:   color.ID,
		SizeID:    size.ID,
		Barcode:   barcode,
		Price:     price,
	}
	require.NoError(t, db.Create(&stock).Error)

	if shelf > 0 {
		require.NoError(t, ledger.IncrementStoreStock(db, store.ID, stock.ID, shelf))
	}
	return &stock
}

func TestMergeLinesCollapsesRepeatedScans(t *testing.T) {
	lines := []CartLine{
		{Barcode: "BC-1", Quantity: 1},
		{Barcode: "BC-2", Quantity: 1},
		{Barcode: "BC-1", Quantity: 2},
	}

	merged := MergeLines(lines)
	require.Len(t, merged, 2)

	assert.Equal(t, "BC-1", merged[0].Barcode)
	assert.Equal(t, 3, merged[0].Quantity)
	assert.Equal(t, "BC-2", merged[1].Barcode)
	assert.Equal(t, 1, merged[1].Quantity)
}

func TestMergeLinesTrimsWhitespace(t *testing.T) {
	merged := MergeLines([]CartLine{
		{Barcode: " BC-1 ", Quantity: 1},
		{Barcode: "BC-1", Quantity: 1},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "BC-1", merged[0].Barcode)
	assert.Equal(t, 2, merged[0].Quantity)
}

func TestMergeLinesEmpty(t *testing.T) {
	assert.Empty(t, MergeLines(nil))
}

func TestNewInvoiceNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^KF-\d{13,}-[0-9A-F]{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		n := NewInvoiceNumber()
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	assert.Len(t, seen, 10, "invoice numbers must not collide")
}

func TestSettleRejectsEmptyCart(t *testing.T) {
	_, err := Settle(nil, SettleInput{StoreID: 1})
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestSettleRejectsNonPositiveQuantity(t *testing.T) {
	_, err := Settle(nil, SettleInput{
		StoreID: 1,
		Lines:   []CartLine{{Barcode: "BC-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestSettleCreatesInvoiceAndDecrementsShelf(t *testing.T) {
	db := newTestDB(t)
	store := models.Store{Name: "Main", IsActive: true}
	require.NoError(t, db.Create(&store).Error)
	stock := seedShelfSKU(t, db, "BC-A", 20, 5, &store)

	result, err := Settle(db, SettleInput{
		StoreID:       store.ID,
		Lines:         []CartLine{{Barcode: "BC-A", Quantity: 2}},
		CustomerPhone: "9876543210",
		CustomerName:  "Asha",
	})
	require.NoError(t, err)

	// No GST settings row: the 18% enabled default applies.
	assert.Equal(t, 40.0, result.Invoice.Subtotal)
	assert.Equal(t, 7.2, result.Invoice.GSTAmount)
	assert.Equal(t, 47.2, result.Invoice.TotalAmount)
	require.NotNil(t, result.Customer)
	assert.Equal(t, "9876543210", result.Customer.Phone)

	qty, err := ledger.StoreQuantity(db, store.ID, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	var facts []models.SalesTransaction
	require.NoError(t, db.Find(&facts).Error)
	require.Len(t, facts, 1)
	assert.Equal(t, 2, facts[0].Quantity)
	require.NotNil(t, facts[0].InvoiceID)
	assert.Equal(t, result.Invoice.ID, *facts[0].InvoiceID)
}

func TestSettleIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	store := models.Store{Name: "Main", IsActive: true}
	require.NoError(t, db.Create(&store).Error)
	stockA := seedShelfSKU(t, db, "BC-A", 20, 5, &store)
	seedShelfSKU(t, db, "BC-B", 30, 1, &store)

	// The second line oversells, so the whole cart must fail: no invoice, no
	// facts, and the first line's decrement rolled back.
	_, err := Settle(db, SettleInput{
		StoreID: store.ID,
		Lines: []CartLine{
			{Barcode: "BC-A", Quantity: 1},
			{Barcode: "BC-B", Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	var invoices, items, facts int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&invoices).Error)
	require.NoError(t, db.Model(&models.InvoiceItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.SalesTransaction{}).Count(&facts).Error)
	assert.Equal(t, int64(0), invoices)
	assert.Equal(t, int64(0), items)
	assert.Equal(t, int64(0), facts)

	qty, err := ledger.StoreQuantity(db, store.ID, stockA.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)
}
