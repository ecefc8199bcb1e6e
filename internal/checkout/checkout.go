package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"boutique-backend/internal/customer"
	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"
	"boutique-backend/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartLine struct {
	Barcode  string
	Quantity int
}

type SettleInput struct {
	StoreID       uint
	Lines         []CartLine
	DiscountType  models.DiscountType
	DiscountValue float64
	PaymentMethod models.PaymentMethod

	// Optional customer attach; both empty means anonymous sale.
	CustomerPhone string
	CustomerName  string
	CustomerEmail string
}

type SettleResult struct {
	Invoice  *models.Invoice
	Quote    *pricing.Quote
	Customer *models.Customer
}

// MergeLines collapses repeated scans of the same barcode into one line with
// an incremented quantity, preserving first-scan order.
func MergeLines(lines []CartLine) []CartLine {
	merged := make([]CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		barcode := strings.TrimSpace(l.Barcode)
		if i, ok := index[barcode]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[barcode] = len(merged)
		merged = append(merged, CartLine{Barcode: barcode, Quantity: l.Quantity})
	}
	return merged
}

// NewInvoiceNumber: "KF-<unix millis>-<4 uppercase hex>", unique per invoice.
func NewInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("KF-%d-%s", time.Now().UnixMilli(), suffix)
}

// Settle turns a cart into an Invoice, its InvoiceItems, one SalesTransaction
// per line and the matching shelf decrements, all inside one database
// transaction, so a failure anywhere leaves the cart unsettled and the ledger
// untouched.
func Settle(db *gorm.DB, in SettleInput) (*SettleResult, error) {
	lines := MergeLines(in.Lines)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ledger.ErrInvalidQuantity)
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", ledger.ErrInvalidQuantity)
		}
	}

	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}
	if in.DiscountType == "" {
		in.DiscountType = models.DiscountNone
	}

	var result SettleResult

	err := db.Transaction(func(tx *gorm.DB) error {
		gstRate, gstEnabled, err := gstFor(tx, in.StoreID)
		if err != nil {
			return err
		}

		// Resolve every barcode once, up front, so pricing sees final
		// unit prices and a bad scan fails before any write.
		refs := make([]*ledger.SkuRef, len(lines))
		priceLines := make([]pricing.Line, len(lines))
		for i, l := range lines {
			ref, err := ledger.ResolveBarcode(tx, in.StoreID, l.Barcode)
			if err != nil {
				return err
			}
			refs[i] = ref
			priceLines[i] = pricing.Line{
				SizeStockID: ref.SizeStock.ID,
				UnitPrice:   ref.UnitPrice,
				Quantity:    l.Quantity,
			}
		}

		quote, err := pricing.Compute(priceLines, in.DiscountType, in.DiscountValue, gstEnabled, gstRate)
		if err != nil {
			return err
		}

		var cust *models.Customer
		if in.CustomerPhone != "" {
			cust, err = customer.UpsertByPhone(tx, in.CustomerPhone, in.CustomerName, in.CustomerEmail)
			if err != nil {
				return err
			}
		}

		invoice := models.Invoice{
			InvoiceNumber:  NewInvoiceNumber(),
			StoreID:        in.StoreID,
			Subtotal:       quote.Subtotal,
			DiscountType:   in.DiscountType,
			DiscountValue:  in.DiscountValue,
			DiscountAmount: quote.DiscountAmount,
			GSTAmount:      quote.GSTAmount,
			TotalAmount:    quote.Total,
			PaymentMethod:  in.PaymentMethod,
		}
		if gstEnabled {
			invoice.GSTRate = gstRate
		}
		if cust != nil {
			invoice.CustomerID = &cust.ID
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
		}

		for i, l := range lines {
			ref := refs[i]
			share := quote.Lines[i]

			name, err := ledger.DisplayName(tx, ref.SizeStock.ID)
			if err != nil {
				return err
			}

			item := models.InvoiceItem{
				InvoiceID:   invoice.ID,
				SizeStockID: ref.SizeStock.ID,
				ProductName: name,
				Barcode:     ref.Barcode,
				Quantity:    l.Quantity,
				UnitPrice:   ref.UnitPrice,
				LineTotal:   share.LineTotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
			}

			fact := models.SalesTransaction{
				StoreID:     in.StoreID,
				InvoiceID:   &invoice.ID,
				ProductName: name,
				Barcode:     ref.Barcode,
				Quantity:    l.Quantity,
				Price:       ref.UnitPrice,
				TotalAmount: share.LineTotal,
				Discount:    share.Discount,
				GSTAmount:   share.GST,
				FinalAmount: share.Final,
			}
			if ref.Kind == ledger.SkuPerSize {
				id := ref.SizeStock.ID
				fact.SizeStockID = &id
			}
			if err := tx.Create(&fact).Error; err != nil {
				return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
			}

			if err := ledger.DecrementStoreStock(tx, in.StoreID, ref.SizeStock.ID, l.Quantity); err != nil {
				return err
			}

			invoice.Items = append(invoice.Items, item)
		}

		result = SettleResult{Invoice: &invoice, Quote: quote, Customer: cust}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// gstFor reads the store's GST configuration, defaulting to 18% enabled when
// the store has no settings row yet.
func gstFor(tx *gorm.DB, storeID uint) (float64, bool, error) {
	var setting models.StoreGSTSetting
	err := tx.Where("store_id = ?", storeID).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 18, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ledger.ErrTransient, err)
	}
	return setting.GSTRate, setting.IsGSTEnabled, nil
}
