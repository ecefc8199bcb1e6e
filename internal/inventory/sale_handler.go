package inventory

import (
	"log"

	"boutique-backend/internal/audit"
	"boutique-backend/internal/database"
	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type QuickSaleRequest struct {
	StoreID *uint  `json:"store_id"` // required for super_admin
	Barcode string `json:"barcode"`
}

type QuickSaleResponse struct {
	TransactionID uint    `json:"transaction_id"`
	Barcode       string  `json:"barcode"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
}

// POST /api/sales/scan is a single-unit scan-and-sell, no cart. The cart-based
// flow with discount/GST lives under /api/checkout.
func QuickSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body QuickSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Barcode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "barcode is required")
		}

		storeID, err := web.ResolveStoreIDFromBodyOrRole(c, body.StoreID)
		if err != nil {
			return err
		}

		sale, err := ledger.SellAtStore(database.DB, storeID, body.Barcode)
		if err != nil {
			return web.LedgerError(err)
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				StoreID:     &storeID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionCreate,
				Description: "Quick sale " + sale.Barcode,
				After:       sale,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(QuickSaleResponse{
			TransactionID: sale.ID,
			Barcode:       sale.Barcode,
			Price:         sale.Price,
			Quantity:      sale.Quantity,
		})
	}
}
