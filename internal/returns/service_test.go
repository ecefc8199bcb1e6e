package returns

import (
	"fmt"
	"strings"
	"testing"
	"time"

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
		&models.Customer{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.ReturnRecord{},
		&models.ReturnItem{},
		&models.ExchangeItem{},
	))
	return db
}

func seedSKU(t *testing.T, db *gorm.DB, barcode string, price float64, shelf int, store *models.Store) *models.SizeStock {
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

// seedSettledInvoice creates a store, a customer and one settled invoice with
// a single line of quantity 3 at 20.00.
func seedSettledInvoice(t *testing.T, db *gorm.DB) (*models.Store, *models.SizeStock, *models.Invoice, *models.InvoiceItem) {
	t.Helper()

	store := models.Store{Name: "Main", IsActive: true}
	require.NoError(t, db.Create(&store).Error)
	stock := seedSKU(t, db, "BC-SOLD", 20, 0, &store)

	cust := models.Customer{Phone: "9876543210", Name: "Asha"}
	require.NoError(t, db.Create(&cust).Error)

	invoice := models.Invoice{
		InvoiceNumber: "KF-1-TEST",
		StoreID:       store.ID,
		CustomerID:    &cust.ID,
		Subtotal:      60,
		TotalAmount:   60,
		DiscountType:  models.DiscountNone,
		PaymentMethod: models.PaymentCash,
	}
	require.NoError(t, db.Create(&invoice).Error)

	item := models.InvoiceItem{
		InvoiceID:   invoice.ID,
		SizeStockID: stock.ID,
		ProductName: "Shirts - Oxford (Blue, M)",
		Barcode:     stock.Barcode,
		Quantity:    3,
		UnitPrice:   20,
		LineTotal:   60,
	}
	require.NoError(t, db.Create(&item).Error)

	return &store, stock, &invoice, &item
}

func shelfQty(t *testing.T, db *gorm.DB, storeID, sizeStockID uint) int {
	t.Helper()
	qty, err := ledger.StoreQuantity(db, storeID, sizeStockID)
	require.NoError(t, err)
	return qty
}

func TestIsEligibleWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsEligible(now.Add(-13*24*time.Hour-23*time.Hour), now))
	assert.True(t, IsEligible(now.Add(-EligibilityWindow), now), "exactly 14 days is still eligible")
	assert.True(t, IsEligible(now, now))
}

func TestIsEligibleExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.False(t, IsEligible(now.Add(-15*24*time.Hour), now))
	assert.False(t, IsEligible(now.Add(-EligibilityWindow-time.Second), now))
}

func TestSettleRejectsEmptyReturnLines(t *testing.T) {
	_, err := Settle(nil, SettleInput{
		StoreID:    1,
		InvoiceID:  1,
		ReturnType: models.ReturnTypeReturn,
	}, time.Now())
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestSettleRejectsUnknownReturnType(t *testing.T) {
	_, err := Settle(nil, SettleInput{
		StoreID:     1,
		InvoiceID:   1,
		ReturnType:  "refund",
		ReturnLines: []ReturnLine{{InvoiceItemID: 1, Quantity: 1}},
	}, time.Now())
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestSettleRejectsExchangeWithoutReplacements(t *testing.T) {
	_, err := Settle(nil, SettleInput{
		StoreID:     1,
		InvoiceID:   1,
		ReturnType:  models.ReturnTypeExchange,
		ReturnLines: []ReturnLine{{InvoiceItemID: 1, Quantity: 1}},
	}, time.Now())
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestSettleReturnRestocksShelfAndRefunds(t *testing.T) {
	db := newTestDB(t)
	store, stock, invoice, item := seedSettledInvoice(t, db)

	result, err := Settle(db, SettleInput{
		StoreID:     store.ID,
		InvoiceID:   invoice.ID,
		ReturnType:  models.ReturnTypeReturn,
		ReturnLines: []ReturnLine{{InvoiceItemID: item.ID, Quantity: 2}},
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 40.0, result.TotalRefund)
	assert.Equal(t, 40.0, result.Record.TotalRefundAmount)
	assert.Equal(t, 2, shelfQty(t, db, store.ID, stock.ID), "returned units go back to the shelf")

	var items []models.ReturnItem
	require.NoError(t, db.Where("return_id = ?", result.Record.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 40.0, items[0].RefundAmount)
}

func TestSettleRejectsQuantityAboveSold(t *testing.T) {
	db := newTestDB(t)
	store, stock, invoice, item := seedSettledInvoice(t, db)

	_, err := Settle(db, SettleInput{
		StoreID:     store.ID,
		InvoiceID:   invoice.ID,
		ReturnType:  models.ReturnTypeReturn,
		ReturnLines: []ReturnLine{{InvoiceItemID: item.ID, Quantity: 4}},
	}, time.Now())
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	assert.Equal(t, 0, shelfQty(t, db, store.ID, stock.ID))
}

func TestSettleRejectsDuplicateLinesForSameItem(t *testing.T) {
	db := newTestDB(t)
	store, stock, invoice, item := seedSettledInvoice(t, db)

	// Each line alone is within the sold quantity of 3; together they are
	// not. A settle here would refund double and mint phantom shelf stock.
	_, err := Settle(db, SettleInput{
		StoreID:    store.ID,
		InvoiceID:  invoice.ID,
		ReturnType: models.ReturnTypeReturn,
		ReturnLines: []ReturnLine{
			{InvoiceItemID: item.ID, Quantity: 3},
			{InvoiceItemID: item.ID, Quantity: 3},
		},
	}, time.Now())
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	assert.Equal(t, 0, shelfQty(t, db, store.ID, stock.ID), "rejected settle must not restock")

	var count int64
	require.NoError(t, db.Model(&models.ReturnRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSettleExpiredInvoice(t *testing.T) {
	db := newTestDB(t)
	store, _, invoice, item := seedSettledInvoice(t, db)

	stale := time.Now().Add(-15 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.Invoice{}).
		Where("id = ?", invoice.ID).
		UpdateColumn("created_at", stale).Error)

	_, err := Settle(db, SettleInput{
		StoreID:     store.ID,
		InvoiceID:   invoice.ID,
		ReturnType:  models.ReturnTypeReturn,
		ReturnLines: []ReturnLine{{InvoiceItemID: item.ID, Quantity: 1}},
	}, time.Now())
	assert.ErrorIs(t, err, ledger.ErrExpired)
}

func TestSettleExchangeSwapsShelfStock(t *testing.T) {
	db := newTestDB(t)
	store, returnedStock, invoice, item := seedSettledInvoice(t, db)
	replacement := seedSKU(t, db, "BC-REPL", 30, 5, store)

	result, err := Settle(db, SettleInput{
		StoreID:       store.ID,
		InvoiceID:     invoice.ID,
		ReturnType:    models.ReturnTypeExchange,
		ReturnLines:   []ReturnLine{{InvoiceItemID: item.ID, Quantity: 1}},
		ExchangeLines: []ExchangeLine{{Barcode: "BC-REPL", Quantity: 1}},
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 20.0, result.TotalRefund)
	assert.Equal(t, 30.0, result.TotalExchangeValue)
	assert.Equal(t, 10.0, result.NetDue, "customer pays the difference")
	assert.Equal(t, 0.0, result.Record.TotalRefundAmount, "exchanges store no refund")

	assert.Equal(t, 1, shelfQty(t, db, store.ID, returnedStock.ID))
	assert.Equal(t, 4, shelfQty(t, db, store.ID, replacement.ID))
}

func TestSettleExchangeUnstockedReplacementRollsBack(t *testing.T) {
	db := newTestDB(t)
	store, returnedStock, invoice, item := seedSettledInvoice(t, db)
	seedSKU(t, db, "BC-GHOST", 30, 0, store) // real SKU, never on this shelf

	_, err := Settle(db, SettleInput{
		StoreID:       store.ID,
		InvoiceID:     invoice.ID,
		ReturnType:    models.ReturnTypeExchange,
		ReturnLines:   []ReturnLine{{InvoiceItemID: item.ID, Quantity: 1}},
		ExchangeLines: []ExchangeLine{{Barcode: "BC-GHOST", Quantity: 1}},
	}, time.Now())
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	// The failed exchange rolls the whole settlement back, including the
	// restock of the returned line.
	assert.Equal(t, 0, shelfQty(t, db, store.ID, returnedStock.ID))

	var count int64
	require.NoError(t, db.Model(&models.ReturnRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
