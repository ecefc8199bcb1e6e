package reporting

import (
	"fmt"
	"sort"
	"time"

	"boutique-backend/internal/database"
	"boutique-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// gormSession lets the shared window query be finished more than once
// (totals scan, then fact load) without condition pollution.
var gormSession = gorm.Session{}

type TopProduct struct {
	ProductName string  `json:"product_name"`
	Barcode     string  `json:"barcode"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

type StoreTotal struct {
	StoreID   uint    `json:"store_id"`
	StoreName string  `json:"store_name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type DailyPoint struct {
	Date     string  `json:"date"` // "2006-01-02"
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type SalesSummaryResponse struct {
	From              string       `json:"from"`
	To                string       `json:"to"`
	StoreID           *uint        `json:"store_id"`
	TotalRevenue      float64      `json:"total_revenue"`
	TotalDiscount     float64      `json:"total_discount"`
	TotalGST          float64      `json:"total_gst"`
	ItemsSold         int          `json:"items_sold"`
	TransactionCount  int64        `json:"transaction_count"` // settled invoices
	AverageOrderValue float64      `json:"average_order_value"`
	TopProducts       []TopProduct `json:"top_products"`
	StoreTotals       []StoreTotal `json:"store_totals"`
	DailySeries       []DailyPoint `json:"daily_series"`
}

// GET /api/reports/sales-summary?from=2026-08-01&to=2026-08-28&store_id=1&top=5
//
// Pure aggregation over the sales facts; null and zero numeric fields are
// excluded by COALESCE rather than blowing up the sums.
func SalesSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseWindow(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}

		topN := 5
		if topStr := c.Query("top"); topStr != "" {
			if _, err := fmt.Sscan(topStr, &topN); err != nil || topN <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "top is invalid")
			}
		}

		var storeID *uint
		if sidStr := c.Query("store_id"); sidStr != "" {
			var sid uint
			if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "store_id is invalid")
			}
			storeID = &sid
		}

		res := SalesSummaryResponse{
			From:    from.Format("2006-01-02"),
			To:      to.Format("2006-01-02"),
			StoreID: storeID,
		}

		factsQ := database.DB.Model(&models.SalesTransaction{}).
			Where("created_at >= ? AND created_at < ?", from, to.AddDate(0, 0, 1))
		invoicesQ := database.DB.Model(&models.Invoice{}).
			Where("created_at >= ? AND created_at < ?", from, to.AddDate(0, 0, 1))
		if storeID != nil {
			factsQ = factsQ.Where("store_id = ?", *storeID)
			invoicesQ = invoicesQ.Where("store_id = ?", *storeID)
		}

		type totalsRow struct {
			Revenue  float64 `gorm:"column:revenue"`
			Discount float64 `gorm:"column:discount"`
			GST      float64 `gorm:"column:gst"`
			Quantity int     `gorm:"column:quantity"`
		}
		var totals totalsRow
		err = factsQ.Session(&gormSession).
			Select("COALESCE(SUM(final_amount),0) AS revenue, COALESCE(SUM(discount),0) AS discount, COALESCE(SUM(gst_amount),0) AS gst, COALESCE(SUM(quantity),0) AS quantity").
			Scan(&totals).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
		}
		res.TotalRevenue = totals.Revenue
		res.TotalDiscount = totals.Discount
		res.TotalGST = totals.GST
		res.ItemsSold = totals.Quantity

		if err := invoicesQ.Session(&gormSession).Count(&res.TransactionCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count invoices")
		}
		// AOV is an invoice metric. Quick scan sales have no invoice, so the
		// numerator comes from invoice totals, not the fact revenue.
		type invoiceTotalsRow struct {
			Revenue float64 `gorm:"column:revenue"`
		}
		var invoiceTotals invoiceTotalsRow
		err = invoicesQ.Session(&gormSession).
			Select("COALESCE(SUM(total_amount),0) AS revenue").
			Scan(&invoiceTotals).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate invoices")
		}
		if res.TransactionCount > 0 {
			res.AverageOrderValue = invoiceTotals.Revenue / float64(res.TransactionCount)
		}

		// Per-group breakdowns work over the raw facts; at single-tenant
		// retail volume a load-and-group is plenty.
		var facts []models.SalesTransaction
		if err := factsQ.Session(&gormSession).Preload("Store").Find(&facts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}

		res.TopProducts = topProducts(facts, topN)
		res.StoreTotals = storeTotals(facts)
		res.DailySeries = dailySeries(facts)

		return c.JSON(res)
	}
}

func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := to.AddDate(0, 0, -29)

	if fromStr != "" {
		d, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "from must be 'YYYY-MM-DD'")
		}
		from = d
	}
	if toStr != "" {
		d, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "to must be 'YYYY-MM-DD'")
		}
		to = d
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "to must not be before from")
	}
	return from, to, nil
}

func topProducts(facts []models.SalesTransaction, n int) []TopProduct {
	byBarcode := make(map[string]*TopProduct)
	for _, f := range facts {
		tp, ok := byBarcode[f.Barcode]
		if !ok {
			tp = &TopProduct{ProductName: f.ProductName, Barcode: f.Barcode}
			byBarcode[f.Barcode] = tp
		}
		tp.Quantity += f.Quantity
		tp.Revenue += f.FinalAmount
	}

	out := make([]TopProduct, 0, len(byBarcode))
	for _, tp := range byBarcode {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Barcode < out[j].Barcode
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func storeTotals(facts []models.SalesTransaction) []StoreTotal {
	byStore := make(map[uint]*StoreTotal)
	for _, f := range facts {
		st, ok := byStore[f.StoreID]
		if !ok {
			st = &StoreTotal{StoreID: f.StoreID, StoreName: f.Store.Name}
			byStore[f.StoreID] = st
		}
		st.Quantity += f.Quantity
		st.Revenue += f.FinalAmount
	}

	out := make([]StoreTotal, 0, len(byStore))
	for _, st := range byStore {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

func dailySeries(facts []models.SalesTransaction) []DailyPoint {
	byDay := make(map[string]*DailyPoint)
	for _, f := range facts {
		day := f.CreatedAt.Format("2006-01-02")
		dp, ok := byDay[day]
		if !ok {
			dp = &DailyPoint{Date: day}
			byDay[day] = dp
		}
		dp.Quantity += f.Quantity
		dp.Revenue += f.FinalAmount
	}

	out := make([]DailyPoint, 0, len(byDay))
	for _, dp := range byDay {
		out = append(out, *dp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
