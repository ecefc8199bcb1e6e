package catalog

import (
	"log"
	"strings"

	"boutique-backend/internal/audit"
	"boutique-backend/internal/database"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

type CategoryResponse struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	CreatedAt string            `json:"created_at"`
	Variants  []VariantResponse `json:"variants,omitempty"`
}

// POST /api/admin/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Category name cannot be empty")
		}

		category := models.Category{Name: body.Name}
		if err := database.DB.Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				UserID:     userID,
				UserName:   userName,
				EntityType: "category",
				EntityID:   category.ID,
				Action:     models.AuditActionCreate,
				After:      category,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(CategoryResponse{
			ID:        category.ID,
			Name:      category.Name,
			CreatedAt: category.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/catalog returns the full category/variant/color tree, with size stocks.
func CatalogTreeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		err := database.DB.
			Preload("Variants").
			Preload("Variants.Colors").
			Preload("Variants.BarcodeGroups").
			Preload("Variants.SizeStocks").
			Preload("Variants.SizeStocks.Size").
			Order("name").
			Find(&categories).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load catalog")
		}

		res := make([]CategoryResponse, 0, len(categories))
		for i := range categories {
			res = append(res, toCategoryResponse(&categories[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/categories/:id renames only; categories are never
// otherwise mutated.
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var category models.Category
		if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := category

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Category name cannot be empty")
			}
			category.Name = name
		}

		if err := database.DB.Save(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update category")
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				UserID:     userID,
				UserName:   userName,
				EntityType: "category",
				EntityID:   category.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      category,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.JSON(CategoryResponse{
			ID:        category.ID,
			Name:      category.Name,
			CreatedAt: category.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// DELETE /api/admin/categories/:id cascades to variants, colors, groups
// and size stocks through FK constraints, so no orphaned SKUs survive.
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var category models.Category
		if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		if err := database.DB.Delete(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				UserID:     userID,
				UserName:   userName,
				EntityType: "category",
				EntityID:   category.ID,
				Action:     models.AuditActionDelete,
				Before:     category,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toCategoryResponse(cat *models.Category) CategoryResponse {
	res := CategoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		CreatedAt: cat.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for i := range cat.Variants {
		res.Variants = append(res.Variants, toVariantResponse(&cat.Variants[i]))
	}
	return res
}
