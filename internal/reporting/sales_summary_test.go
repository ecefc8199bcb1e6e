package reporting

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boutique-backend/internal/database"
	"boutique-backend/internal/models"

	"github.com/gofiber/fiber/v2"
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
		&models.Invoice{},
		&models.SalesTransaction{},
	))
	return db
}

func fact(storeID uint, barcode, name string, qty int, final float64, day time.Time) models.SalesTransaction {
	return models.SalesTransaction{
		StoreID:     storeID,
		Store:       models.Store{Name: "Store"},
		Barcode:     barcode,
		ProductName: name,
		Quantity:    qty,
		FinalAmount: final,
		CreatedAt:   day,
	}
}

func TestTopProductsOrderingAndLimit(t *testing.T) {
	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	facts := []models.SalesTransaction{
		fact(1, "BC-A", "Shirt", 2, 200, day),
		fact(1, "BC-B", "Jeans", 5, 500, day),
		fact(1, "BC-A", "Shirt", 4, 400, day),
		fact(1, "BC-C", "Kurta", 1, 100, day),
	}

	top := topProducts(facts, 2)
	require.Len(t, top, 2)

	assert.Equal(t, "BC-A", top[0].Barcode)
	assert.Equal(t, 6, top[0].Quantity)
	assert.Equal(t, 600.0, top[0].Revenue)
	assert.Equal(t, "BC-B", top[1].Barcode)
}

func TestTopProductsTieBreaksOnBarcode(t *testing.T) {
	day := time.Now()
	facts := []models.SalesTransaction{
		fact(1, "BC-B", "Jeans", 3, 300, day),
		fact(1, "BC-A", "Shirt", 3, 150, day),
	}

	top := topProducts(facts, 5)
	require.Len(t, top, 2)
	assert.Equal(t, "BC-A", top[0].Barcode)
	assert.Equal(t, "BC-B", top[1].Barcode)
}

func TestStoreTotalsSortedByRevenue(t *testing.T) {
	day := time.Now()
	facts := []models.SalesTransaction{
		fact(1, "BC-A", "Shirt", 1, 100, day),
		fact(2, "BC-B", "Jeans", 2, 900, day),
		fact(1, "BC-C", "Kurta", 3, 300, day),
	}

	totals := storeTotals(facts)
	require.Len(t, totals, 2)

	assert.Equal(t, uint(2), totals[0].StoreID)
	assert.Equal(t, 900.0, totals[0].Revenue)
	assert.Equal(t, uint(1), totals[1].StoreID)
	assert.Equal(t, 4, totals[1].Quantity)
	assert.Equal(t, 400.0, totals[1].Revenue)
}

func TestDailySeriesBucketsAndSorts(t *testing.T) {
	d1 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	facts := []models.SalesTransaction{
		fact(1, "BC-A", "Shirt", 1, 100, d1),
		fact(1, "BC-B", "Jeans", 2, 200, d2),
		fact(1, "BC-C", "Kurta", 1, 50, d1),
	}

	series := dailySeries(facts)
	require.Len(t, series, 2)

	assert.Equal(t, "2025-06-01", series[0].Date)
	assert.Equal(t, 200.0, series[0].Revenue)
	assert.Equal(t, "2025-06-02", series[1].Date)
	assert.Equal(t, 2, series[1].Quantity)
	assert.Equal(t, 150.0, series[1].Revenue)
}

func TestParseWindowDefaultsToLast30Days(t *testing.T) {
	from, to, err := parseWindow("", "")
	require.NoError(t, err)

	assert.Equal(t, to.AddDate(0, 0, -29), from)
	assert.False(t, to.Before(from))
}

func TestParseWindowExplicitRange(t *testing.T) {
	from, to, err := parseWindow("2025-05-01", "2025-05-31")
	require.NoError(t, err)

	assert.Equal(t, "2025-05-01", from.Format("2006-01-02"))
	assert.Equal(t, "2025-05-31", to.Format("2006-01-02"))
}

func TestParseWindowRejectsBadInput(t *testing.T) {
	_, _, err := parseWindow("01/05/2025", "")
	assert.Error(t, err)

	_, _, err = parseWindow("2025-05-31", "2025-05-01")
	assert.Error(t, err)
}

func TestSalesSummaryAOVExcludesQuickSales(t *testing.T) {
	db := newTestDB(t)
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	store := models.Store{Name: "Main", IsActive: true}
	require.NoError(t, db.Create(&store).Error)

	invoice := models.Invoice{
		InvoiceNumber: "KF-1-TEST",
		StoreID:       store.ID,
		Subtotal:      100,
		TotalAmount:   100,
		DiscountType:  models.DiscountNone,
		PaymentMethod: models.PaymentCash,
	}
	require.NoError(t, db.Create(&invoice).Error)

	require.NoError(t, db.Create(&models.SalesTransaction{
		StoreID:     store.ID,
		InvoiceID:   &invoice.ID,
		ProductName: "Shirt",
		Barcode:     "BC-A",
		Quantity:    2,
		Price:       50,
		TotalAmount: 100,
		FinalAmount: 100,
	}).Error)
	// Quick scan sale: a fact with no invoice behind it.
	require.NoError(t, db.Create(&models.SalesTransaction{
		StoreID:     store.ID,
		ProductName: "Jeans",
		Barcode:     "BC-B",
		Quantity:    1,
		Price:       50,
		TotalAmount: 50,
		FinalAmount: 50,
	}).Error)

	app := fiber.New()
	app.Get("/reports/sales-summary", SalesSummaryHandler())

	req := httptest.NewRequest(http.MethodGet, "/reports/sales-summary", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body SalesSummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 150.0, body.TotalRevenue, "fact revenue includes quick sales")
	assert.Equal(t, int64(1), body.TransactionCount)
	assert.Equal(t, 100.0, body.AverageOrderValue, "average order value is an invoice metric")
}
