package customer

import (
	"errors"
	"fmt"
	"strings"

	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"

	"gorm.io/gorm"
)

// FindByPhone is the single point-lookup shared by checkout and returns.
func FindByPhone(db *gorm.DB, phone string) (*models.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: empty phone", ledger.ErrNotFound)
	}

	var cust models.Customer
	err := db.Where("phone = ?", phone).First(&cust).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer with phone %s", ledger.ErrNotFound, phone)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrTransient, err)
	}
	return &cust, nil
}

// UpsertByPhone attaches identity to an invoice at settlement: reuse the
// existing customer for that phone (refreshing name/email) or create one
// inline.
func UpsertByPhone(db *gorm.DB, phone, name, email string) (*models.Customer, error) {
	phone = strings.TrimSpace(phone)
	name = strings.TrimSpace(name)
	if phone == "" || name == "" {
		return nil, fmt.Errorf("%w: customer phone and name are required", ledger.ErrInvalidQuantity)
	}

	var cust models.Customer
	err := db.Where("phone = ?", phone).First(&cust).Error
	switch {
	case err == nil:
		cust.Name = name
		if email != "" {
			cust.Email = email
		}
		if err := db.Save(&cust).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ledger.ErrTransient, err)
		}
		return &cust, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		cust = models.Customer{Phone: phone, Name: name, Email: email}
		if err := db.Create(&cust).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ledger.ErrTransient, err)
		}
		return &cust, nil
	default:
		return nil, fmt.Errorf("%w: %v", ledger.ErrTransient, err)
	}
}
