package catalog

import (
	"strings"

	"boutique-backend/internal/database"
	"boutique-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateVariantRequest struct {
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
}

type CreateColorRequest struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type VariantResponse struct {
	ID         uint                `json:"id"`
	CategoryID uint                `json:"category_id"`
	Name       string              `json:"name"`
	Colors     []ColorResponse     `json:"colors,omitempty"`
	SizeStocks []SizeStockResponse `json:"size_stocks,omitempty"`
}

type ColorResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// POST /api/admin/variants
func CreateVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVariantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.CategoryID == 0 || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category_id and name are required")
		}

		var category models.Category
		if err := database.DB.First(&category, body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		variant := models.Variant{CategoryID: body.CategoryID, Name: body.Name}
		if err := database.DB.Create(&variant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create variant")
		}

		return c.Status(fiber.StatusCreated).JSON(toVariantResponse(&variant))
	}
}

// POST /api/admin/variants/:id/colors
func CreateColorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		variantID := c.Params("id")

		var variant models.Variant
		if err := database.DB.First(&variant, "id = ?", variantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Variant not found")
		}

		var body CreateColorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Color name cannot be empty")
		}

		color := models.Color{
			VariantID: variant.ID,
			Name:      body.Name,
			Hex:       strings.TrimSpace(body.Hex),
		}
		if err := database.DB.Create(&color).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create color")
		}

		return c.Status(fiber.StatusCreated).JSON(ColorResponse{
			ID:   color.ID,
			Name: color.Name,
			Hex:  color.Hex,
		})
	}
}

// DELETE /api/admin/variants/:id
func DeleteVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var variant models.Variant
		if err := database.DB.First(&variant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Variant not found")
		}

		if err := database.DB.Delete(&variant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete variant")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/sizes returns the global, ordered size list.
func ListSizesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sizes []models.Size
		if err := database.DB.Order("sort_order").Find(&sizes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sizes")
		}

		type sizeResponse struct {
			ID        uint   `json:"id"`
			Code      string `json:"code"`
			Name      string `json:"name"`
			SortOrder int    `json:"sort_order"`
		}

		res := make([]sizeResponse, 0, len(sizes))
		for _, s := range sizes {
			res = append(res, sizeResponse{ID: s.ID, Code: s.Code, Name: s.Name, SortOrder: s.SortOrder})
		}
		return c.JSON(res)
	}
}

func toVariantResponse(v *models.Variant) VariantResponse {
	res := VariantResponse{
		ID:         v.ID,
		CategoryID: v.CategoryID,
		Name:       v.Name,
	}
	for _, col := range v.Colors {
		res.Colors = append(res.Colors, ColorResponse{ID: col.ID, Name: col.Name, Hex: col.Hex})
	}
	for i := range v.SizeStocks {
		res.SizeStocks = append(res.SizeStocks, toSizeStockResponse(&v.SizeStocks[i]))
	}
	return res
}
