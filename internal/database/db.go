package database

import (
	"log"

	"boutique-backend/internal/config"
	"boutique-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Category{},
		&models.Variant{},
		&models.Color{},
		&models.Size{},
		&models.SizeStock{},
		&models.BarcodeGroup{}, // legacy, resolve-only
		&models.StoreInventory{},
		&models.StoreGSTSetting{},
		&models.Customer{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.SalesTransaction{},
		&models.ReturnRecord{},
		&models.ReturnItem{},
		&models.ExchangeItem{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	seedSizes()

	log.Println("Database connected. Migration complete.")
}

// seedSizes inserts the global size list on first boot. Sizes are shared
// across all variants and colors, so the list is fixed and ordered.
func seedSizes() {
	var count int64
	DB.Model(&models.Size{}).Count(&count)
	if count > 0 {
		return
	}

	sizes := []models.Size{
		{Code: "XS", Name: "Extra Small", SortOrder: 1},
		{Code: "S", Name: "Small", SortOrder: 2},
		{Code: "M", Name: "Medium", SortOrder: 3},
		{Code: "L", Name: "Large", SortOrder: 4},
		{Code: "XL", Name: "Extra Large", SortOrder: 5},
		{Code: "XXL", Name: "Double Extra Large", SortOrder: 6},
	}
	if err := DB.Create(&sizes).Error; err != nil {
		log.Printf("Size seed failed: %v", err)
		return
	}
	log.Printf("Seeded %d sizes", len(sizes))
}
