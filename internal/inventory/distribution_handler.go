package inventory

import (
	"fmt"
	"log"

	"boutique-backend/internal/audit"
	"boutique-backend/internal/database"
	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type DistributeRequest struct {
	StoreID     *uint `json:"store_id"` // required for super_admin
	SizeStockID uint  `json:"size_stock_id"`
	Quantity    int   `json:"quantity"`
}

type DistributeResponse struct {
	StoreID        uint `json:"store_id"`
	SizeStockID    uint `json:"size_stock_id"`
	Quantity       int  `json:"quantity"`
	WarehouseStock int  `json:"warehouse_stock"` // after the transfer
	StoreQuantity  int  `json:"store_quantity"`  // after the transfer
}

// POST /api/distributions
func DistributeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DistributeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.SizeStockID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "size_stock_id is required")
		}

		storeID, err := web.ResolveStoreIDFromBodyOrRole(c, body.StoreID)
		if err != nil {
			return err
		}

		var store models.Store
		if err := database.DB.First(&store, storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Store not found (ID: %d)", storeID))
		}
		if !store.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Store is deactivated")
		}

		if err := ledger.Distribute(database.DB, storeID, body.SizeStockID, body.Quantity); err != nil {
			return web.LedgerError(err)
		}

		var stock models.SizeStock
		if err := database.DB.First(&stock, body.SizeStockID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reload size stock")
		}
		storeQty, err := ledger.StoreQuantity(database.DB, storeID, body.SizeStockID)
		if err != nil {
			return web.LedgerError(err)
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				StoreID:     &storeID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "distribution",
				EntityID:    body.SizeStockID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Distributed %d x size stock %d to store %s", body.Quantity, body.SizeStockID, store.Name),
				After:       fiber.Map{"quantity": body.Quantity, "warehouse_stock": stock.WarehouseStock, "store_quantity": storeQty},
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(DistributeResponse{
			StoreID:        storeID,
			SizeStockID:    body.SizeStockID,
			Quantity:       body.Quantity,
			WarehouseStock: stock.WarehouseStock,
			StoreQuantity:  storeQty,
		})
	}
}

// GET /api/available-stock?variant_id=1&color_id=2&size_id=3
func AvailableStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var variantID, colorID, sizeID uint
		if _, err := fmt.Sscan(c.Query("variant_id"), &variantID); err != nil || variantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "variant_id is required")
		}
		if _, err := fmt.Sscan(c.Query("color_id"), &colorID); err != nil || colorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "color_id is required")
		}
		if _, err := fmt.Sscan(c.Query("size_id"), &sizeID); err != nil || sizeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "size_id is required")
		}

		available, err := ledger.ComputeAvailableStock(database.DB, variantID, colorID, sizeID)
		if err != nil {
			return web.LedgerError(err)
		}

		return c.JSON(fiber.Map{
			"variant_id":      variantID,
			"color_id":        colorID,
			"size_id":         sizeID,
			"warehouse_stock": available,
		})
	}
}
