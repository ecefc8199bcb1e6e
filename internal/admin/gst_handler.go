package admin

import (
	"errors"
	"strings"

	"boutique-backend/internal/database"
	"boutique-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GSTSettingRequest struct {
	GSTRate      *float64 `json:"gst_rate"`
	GSTNumber    *string  `json:"gst_number"`
	IsGSTEnabled *bool    `json:"is_gst_enabled"`
}

type GSTSettingResponse struct {
	StoreID      uint    `json:"store_id"`
	GSTRate      float64 `json:"gst_rate"`
	GSTNumber    string  `json:"gst_number"`
	IsGSTEnabled bool    `json:"is_gst_enabled"`
}

// GET /api/admin/stores/:id/gst-settings. Checkout falls back to
// 18% enabled when no row exists, so the read mirrors that default.
func GetGSTSettingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Params("id")

		var store models.Store
		if err := database.DB.First(&store, "id = ?", storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Store not found")
		}

		var setting models.StoreGSTSetting
		err := database.DB.Where("store_id = ?", store.ID).First(&setting).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(GSTSettingResponse{
				StoreID:      store.ID,
				GSTRate:      18,
				IsGSTEnabled: true,
			})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load GST settings")
		}

		return c.JSON(GSTSettingResponse{
			StoreID:      setting.StoreID,
			GSTRate:      setting.GSTRate,
			GSTNumber:    setting.GSTNumber,
			IsGSTEnabled: setting.IsGSTEnabled,
		})
	}
}

// PUT /api/admin/stores/:id/gst-settings
func UpsertGSTSettingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Params("id")

		var store models.Store
		if err := database.DB.First(&store, "id = ?", storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Store not found")
		}

		var body GSTSettingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.GSTRate != nil && (*body.GSTRate < 0 || *body.GSTRate > 100) {
			return fiber.NewError(fiber.StatusBadRequest, "gst_rate must be between 0 and 100")
		}

		var setting models.StoreGSTSetting
		err := database.DB.Where("store_id = ?", store.ID).First(&setting).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setting = models.StoreGSTSetting{
				StoreID:      store.ID,
				GSTRate:      18,
				IsGSTEnabled: true,
			}
		} else if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load GST settings")
		}

		if body.GSTRate != nil {
			setting.GSTRate = *body.GSTRate
		}
		if body.GSTNumber != nil {
			setting.GSTNumber = strings.TrimSpace(*body.GSTNumber)
		}
		if body.IsGSTEnabled != nil {
			setting.IsGSTEnabled = *body.IsGSTEnabled
		}

		if err := database.DB.Save(&setting).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save GST settings")
		}

		return c.JSON(GSTSettingResponse{
			StoreID:      setting.StoreID,
			GSTRate:      setting.GSTRate,
			GSTNumber:    setting.GSTNumber,
			IsGSTEnabled: setting.IsGSTEnabled,
		})
	}
}
