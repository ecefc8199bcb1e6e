package main

import (
	"log"
	"strings"

	"boutique-backend/internal/admin"
	"boutique-backend/internal/audit"
	"boutique-backend/internal/auth"
	"boutique-backend/internal/catalog"
	"boutique-backend/internal/checkout"
	"boutique-backend/internal/config"
	"boutique-backend/internal/customer"
	"boutique-backend/internal/database"
	"boutique-backend/internal/inventory"
	"boutique-backend/internal/models"
	"boutique-backend/internal/reporting"
	"boutique-backend/internal/returns"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Store management
	adminRoutes.Post("/stores", admin.CreateStoreHandler())
	adminRoutes.Get("/stores", admin.ListStoresHandler())
	adminRoutes.Get("/stores/:id", admin.GetStoreHandler())
	adminRoutes.Put("/stores/:id", admin.UpdateStoreHandler())
	adminRoutes.Post("/stores/:id/accounts", admin.CreateStoreAccountHandler())
	adminRoutes.Get("/stores/:id/accounts", admin.ListStoreAccountsHandler())
	adminRoutes.Get("/stores/:id/gst-settings", admin.GetGSTSettingHandler())
	adminRoutes.Put("/stores/:id/gst-settings", admin.UpsertGSTSettingHandler())

	// Catalog management
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler())
	adminRoutes.Put("/categories/:id", catalog.UpdateCategoryHandler())
	adminRoutes.Delete("/categories/:id", catalog.DeleteCategoryHandler())
	adminRoutes.Post("/variants", catalog.CreateVariantHandler())
	adminRoutes.Delete("/variants/:id", catalog.DeleteVariantHandler())
	adminRoutes.Post("/variants/:id/colors", catalog.CreateColorHandler())
	adminRoutes.Post("/size-stocks", catalog.CreateSizeStockHandler())
	adminRoutes.Put("/size-stocks/:id", catalog.UpdateSizeStockHandler())
	adminRoutes.Get("/size-stocks", catalog.ListSizeStocksHandler())
	adminRoutes.Put("/size-stocks/:id/warehouse-stock", inventory.AdjustWarehouseStockHandler())

	// Shared (authenticated) routes

	// Catalog read model
	protected.Get("/catalog", catalog.CatalogTreeHandler())
	protected.Get("/sizes", catalog.ListSizesHandler())
	protected.Get("/available-stock", inventory.AvailableStockHandler())

	// Inventory ledger
	protected.Post("/distributions", inventory.DistributeHandler())
	protected.Get("/store-inventory", inventory.ListStoreInventoryHandler())
	protected.Post("/sales/scan", inventory.QuickSaleHandler())

	// Checkout
	protected.Get("/checkout/resolve", checkout.ResolveHandler())
	protected.Post("/checkout", checkout.SettleHandler())

	// Customers
	protected.Get("/customers", customer.ListHandler())
	protected.Get("/customers/lookup", customer.LookupHandler())

	// Returns & exchange
	protected.Get("/returns/search", returns.SearchHandler())
	protected.Post("/returns", returns.ProcessHandler())

	// Reporting
	protected.Get("/reports/sales-summary", reporting.SalesSummaryHandler())
	protected.Get("/reports/store-dashboard", reporting.StoreDashboardHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
