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

type StoreInventoryRow struct {
	SizeStockID uint    `json:"size_stock_id"`
	ProductName string  `json:"product_name"`
	Barcode     string  `json:"barcode"`
	SizeCode    string  `json:"size_code"`
	ColorName   string  `json:"color_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// GET /api/store-inventory?store_id=1
func ListStoreInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := web.ResolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var rows []models.StoreInventory
		err = database.DB.
			Preload("SizeStock").
			Preload("SizeStock.Variant").
			Preload("SizeStock.Variant.Category").
			Preload("SizeStock.Color").
			Preload("SizeStock.Size").
			Where("store_id = ?", storeID).
			Find(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list store inventory")
		}

		res := make([]StoreInventoryRow, 0, len(rows))
		for _, r := range rows {
			res = append(res, StoreInventoryRow{
				SizeStockID: r.SizeStockID,
				ProductName: ProductDisplayName(&r.SizeStock),
				Barcode:     r.SizeStock.Barcode,
				SizeCode:    r.SizeStock.Size.Code,
				ColorName:   r.SizeStock.Color.Name,
				Price:       r.SizeStock.Price,
				Quantity:    r.Quantity,
			})
		}

		return c.JSON(res)
	}
}

type AdjustWarehouseStockRequest struct {
	WarehouseStock *int `json:"warehouse_stock"`
}

// PUT /api/size-stocks/:id/warehouse-stock is a direct admin override,
// independent of the distribution flow.
func AdjustWarehouseStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sizeStockID uint
		if _, err := fmt.Sscan(c.Params("id"), &sizeStockID); err != nil || sizeStockID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid size stock id")
		}

		var body AdjustWarehouseStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.WarehouseStock == nil {
			return fiber.NewError(fiber.StatusBadRequest, "warehouse_stock is required")
		}

		var before models.SizeStock
		if err := database.DB.First(&before, sizeStockID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Size stock not found")
		}

		if err := ledger.AdjustWarehouseStock(database.DB, sizeStockID, *body.WarehouseStock); err != nil {
			return web.LedgerError(err)
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "size_stock",
				EntityID:    sizeStockID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Warehouse stock adjusted %d -> %d", before.WarehouseStock, *body.WarehouseStock),
				Before:      fiber.Map{"warehouse_stock": before.WarehouseStock},
				After:       fiber.Map{"warehouse_stock": *body.WarehouseStock},
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.JSON(fiber.Map{
			"id":              sizeStockID,
			"warehouse_stock": *body.WarehouseStock,
		})
	}
}

// ProductDisplayName builds the denormalized "Category - Variant (Color,
// Size)" label snapshotted onto invoice and return lines.
func ProductDisplayName(s *models.SizeStock) string {
	return fmt.Sprintf("%s - %s (%s, %s)",
		s.Variant.Category.Name, s.Variant.Name, s.Color.Name, s.Size.Code)
}
