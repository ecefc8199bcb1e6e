package catalog

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"boutique-backend/internal/audit"
	"boutique-backend/internal/database"
	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSizeStockRequest struct {
	VariantID      uint    `json:"variant_id"`
	ColorID        uint    `json:"color_id"`
	SizeID         uint    `json:"size_id"`
	Barcode        string  `json:"barcode"`
	Price          float64 `json:"price"`
	WarehouseStock int     `json:"warehouse_stock"`
}

type UpdateSizeStockRequest struct {
	Barcode *string  `json:"barcode"`
	Price   *float64 `json:"price"`
}

type SizeStockResponse struct {
	ID             uint    `json:"id"`
	VariantID      uint    `json:"variant_id"`
	ColorID        uint    `json:"color_id"`
	SizeID         uint    `json:"size_id"`
	SizeCode       string  `json:"size_code,omitempty"`
	Barcode        string  `json:"barcode"`
	Price          float64 `json:"price"`
	WarehouseStock int     `json:"warehouse_stock"`
}

// POST /api/admin/size-stocks creates the sellable SKU for one
// (variant, color, size) triple. At most one SKU per triple; barcodes are
// globally unique across SKUs and legacy groups.
func CreateSizeStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSizeStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Barcode = strings.TrimSpace(body.Barcode)
		if body.VariantID == 0 || body.ColorID == 0 || body.SizeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "variant_id, color_id and size_id are required")
		}
		if body.Barcode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "barcode is required")
		}
		if body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must be positive")
		}
		if body.WarehouseStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "warehouse_stock cannot be negative")
		}

		var color models.Color
		if err := database.DB.First(&color, body.ColorID).Error; err != nil || color.VariantID != body.VariantID {
			return fiber.NewError(fiber.StatusBadRequest, "Color does not belong to this variant")
		}
		var size models.Size
		if err := database.DB.First(&size, body.SizeID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Size not found")
		}

		if err := checkBarcodeFree(database.DB, body.Barcode); err != nil {
			return web.LedgerError(err)
		}

		var existing models.SizeStock
		err := database.DB.
			Where("variant_id = ? AND color_id = ? AND size_id = ?", body.VariantID, body.ColorID, body.SizeID).
			First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "A SKU already exists for this variant/color/size")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check existing SKU")
		}

		stock := models.SizeStock{
			VariantID:      body.VariantID,
			ColorID:        body.ColorID,
			SizeID:         body.SizeID,
			Barcode:        body.Barcode,
			Price:          body.Price,
			WarehouseStock: body.WarehouseStock,
		}
		if err := database.DB.Create(&stock).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create SKU")
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "size_stock",
				EntityID:    stock.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("SKU %s created with %d units", stock.Barcode, stock.WarehouseStock),
				After:       stock,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		res := toSizeStockResponse(&stock)
		res.SizeCode = size.Code
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// PUT /api/admin/size-stocks/:id allows price/barcode updates only; warehouse
// stock changes go through the ledger endpoints.
func UpdateSizeStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var stock models.SizeStock
		if err := database.DB.First(&stock, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "SKU not found")
		}

		var body UpdateSizeStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := stock

		if body.Barcode != nil {
			barcode := strings.TrimSpace(*body.Barcode)
			if barcode == "" {
				return fiber.NewError(fiber.StatusBadRequest, "barcode cannot be empty")
			}
			if barcode != stock.Barcode {
				if err := checkBarcodeFree(database.DB, barcode); err != nil {
					return web.LedgerError(err)
				}
				stock.Barcode = barcode
			}
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price must be positive")
			}
			stock.Price = *body.Price
		}

		if err := database.DB.Save(&stock).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update SKU")
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				UserID:     userID,
				UserName:   userName,
				EntityType: "size_stock",
				EntityID:   stock.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      stock,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.JSON(toSizeStockResponse(&stock))
	}
}

// GET /api/admin/size-stocks?variant_id=1
func ListSizeStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Size").Model(&models.SizeStock{})

		if vidStr := c.Query("variant_id"); vidStr != "" {
			var vid uint
			if _, err := fmt.Sscan(vidStr, &vid); err != nil || vid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "variant_id is invalid")
			}
			dbq = dbq.Where("variant_id = ?", vid)
		}

		var stocks []models.SizeStock
		if err := dbq.Find(&stocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list SKUs")
		}

		res := make([]SizeStockResponse, 0, len(stocks))
		for i := range stocks {
			r := toSizeStockResponse(&stocks[i])
			r.SizeCode = stocks[i].Size.Code
			res = append(res, r)
		}
		return c.JSON(res)
	}
}

// checkBarcodeFree enforces barcode uniqueness across both namespaces: the
// per-size SKU table and the legacy barcode groups.
func checkBarcodeFree(db *gorm.DB, barcode string) error {
	var count int64
	if err := db.Model(&models.SizeStock{}).Where("barcode = ?", barcode).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateBarcode, barcode)
	}
	if err := db.Model(&models.BarcodeGroup{}).Where("barcode = ?", barcode).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s (legacy barcode group)", ledger.ErrDuplicateBarcode, barcode)
	}
	return nil
}

func toSizeStockResponse(s *models.SizeStock) SizeStockResponse {
	return SizeStockResponse{
		ID:             s.ID,
		VariantID:      s.VariantID,
		ColorID:        s.ColorID,
		SizeID:         s.SizeID,
		Barcode:        s.Barcode,
		Price:          s.Price,
		WarehouseStock: s.WarehouseStock,
	}
}
