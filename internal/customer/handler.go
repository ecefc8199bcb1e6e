package customer

import (
	"boutique-backend/internal/database"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type CustomerResponse struct {
	ID        uint   `json:"id"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Phone:     c.Phone,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/customers/lookup?phone=9876543210
func LookupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		phone := c.Query("phone")
		if phone == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phone is required")
		}

		cust, err := FindByPhone(database.DB, phone)
		if err != nil {
			return web.LedgerError(err)
		}

		return c.JSON(toResponse(cust))
	}
}

// GET /api/customers
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customers []models.Customer
		if err := database.DB.Order("created_at DESC").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		res := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			res = append(res, toResponse(&customers[i]))
		}
		return c.JSON(res)
	}
}
