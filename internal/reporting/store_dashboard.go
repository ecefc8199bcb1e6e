package reporting

import (
	"time"

	"boutique-backend/internal/database"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type StoreDashboardResponse struct {
	StoreID          uint    `json:"store_id"`
	Date             string  `json:"date"`
	TodayRevenue     float64 `json:"today_revenue"`
	TodayItemsSold   int     `json:"today_items_sold"`
	TodayInvoices    int64   `json:"today_invoices"`
	InventoryUnits   int     `json:"inventory_units"`    // units on this store's shelf
	DistinctSKUsHeld int64   `json:"distinct_skus_held"` // SKUs with positive quantity
	LowStockSKUs     int64   `json:"low_stock_skus"`     // 1 or 2 units left
	OutOfStockSKUs   int64   `json:"out_of_stock_skus"`  // rows that hit zero
}

// GET /api/reports/store-dashboard is the store user's till-side snapshot,
// scoped to their own store from the JWT.
func StoreDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := web.ResolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		res := StoreDashboardResponse{
			StoreID: storeID,
			Date:    dayStart.Format("2006-01-02"),
		}

		type todayRow struct {
			Revenue  float64 `gorm:"column:revenue"`
			Quantity int     `gorm:"column:quantity"`
		}
		var today todayRow
		err = database.DB.Model(&models.SalesTransaction{}).
			Where("store_id = ? AND created_at >= ?", storeID, dayStart).
			Select("COALESCE(SUM(final_amount),0) AS revenue, COALESCE(SUM(quantity),0) AS quantity").
			Scan(&today).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate today's sales")
		}
		res.TodayRevenue = today.Revenue
		res.TodayItemsSold = today.Quantity

		if err := database.DB.Model(&models.Invoice{}).
			Where("store_id = ? AND created_at >= ?", storeID, dayStart).
			Count(&res.TodayInvoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count today's invoices")
		}

		type invRow struct {
			Units int `gorm:"column:units"`
		}
		var inv invRow
		err = database.DB.Model(&models.StoreInventory{}).
			Where("store_id = ?", storeID).
			Select("COALESCE(SUM(quantity),0) AS units").
			Scan(&inv).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate inventory")
		}
		res.InventoryUnits = inv.Units

		database.DB.Model(&models.StoreInventory{}).
			Where("store_id = ? AND quantity > 0", storeID).Count(&res.DistinctSKUsHeld)
		database.DB.Model(&models.StoreInventory{}).
			Where("store_id = ? AND quantity > 0 AND quantity <= 2", storeID).Count(&res.LowStockSKUs)
		database.DB.Model(&models.StoreInventory{}).
			Where("store_id = ? AND quantity = 0", storeID).Count(&res.OutOfStockSKUs)

		return c.JSON(res)
	}
}
