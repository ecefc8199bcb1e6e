package admin

import (
	"strings"

	"boutique-backend/internal/database"
	"boutique-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type StoreResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type CreateStoreRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type UpdateStoreRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	IsActive *bool   `json:"is_active"`
}

type CreateStoreAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StoreAccountResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	StoreID   *uint  `json:"store_id"`
	CreatedAt string `json:"created_at"`
}

func toStoreResponse(s *models.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// Store CRUD
// ----------------------------------------

func CreateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Store name cannot be empty")
		}

		store := models.Store{
			Name:     body.Name,
			Location: strings.TrimSpace(body.Location),
			IsActive: true,
		}

		if err := database.DB.Create(&store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create store")
		}

		return c.Status(fiber.StatusCreated).JSON(toStoreResponse(&store))
	}
}

func ListStoresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stores []models.Store
		if err := database.DB.Find(&stores).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list stores")
		}

		res := make([]StoreResponse, 0, len(stores))
		for i := range stores {
			res = append(res, toStoreResponse(&stores[i]))
		}

		return c.JSON(res)
	}
}

func GetStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var store models.Store
		if err := database.DB.First(&store, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Store not found")
		}

		return c.JSON(toStoreResponse(&store))
	}
}

func UpdateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var store models.Store
		if err := database.DB.First(&store, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Store not found")
		}

		var body UpdateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Store name cannot be empty")
			}
			store.Name = name
		}

		if body.Location != nil {
			store.Location = strings.TrimSpace(*body.Location)
		}

		if body.IsActive != nil {
			store.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update store")
		}

		return c.JSON(toStoreResponse(&store))
	}
}

// ----------------------------------------
// Store account provisioning
// ----------------------------------------

func CreateStoreAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Params("id")

		var store models.Store
		if err := database.DB.First(&store, "id = ?", storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Store not found")
		}

		var body CreateStoreAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "This email is already in use")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			StoreID:      &store.ID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleStoreUser,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create store account")
		}

		return c.Status(fiber.StatusCreated).JSON(StoreAccountResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      string(user.Role),
			StoreID:   user.StoreID,
			CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func ListStoreAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Params("id")

		var users []models.User
		if err := database.DB.Where("store_id = ?", storeID).Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list store accounts")
		}

		res := make([]StoreAccountResponse, 0, len(users))
		for _, u := range users {
			res = append(res, StoreAccountResponse{
				ID:        u.ID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      string(u.Role),
				StoreID:   u.StoreID,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
