package returns

import (
	"errors"
	"fmt"
	"time"

	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"

	"gorm.io/gorm"
)

// EligibilityWindow: returns and exchanges are accepted for 14 days from the
// original invoice's creation, at the same store.
const EligibilityWindow = 14 * 24 * time.Hour

func IsEligible(invoiceCreatedAt, now time.Time) bool {
	return now.Sub(invoiceCreatedAt) <= EligibilityWindow
}

// FindEligibleInvoices lists a customer's invoices at this store that are
// still inside the return window, newest first.
func FindEligibleInvoices(db *gorm.DB, storeID, customerID uint, now time.Time) ([]models.Invoice, error) {
	cutoff := now.Add(-EligibilityWindow)

	var invoices []models.Invoice
	err := db.
		Preload("Items").
		Where("store_id = ? AND customer_id = ? AND created_at >= ?", storeID, customerID, cutoff).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrTransient, err)
	}
	return invoices, nil
}

// FindInvoiceByNumber resolves a direct invoice-number search. The invoice
// must belong to this store and still be inside the window, otherwise the
// whole flow is rejected before any line selection.
func FindInvoiceByNumber(db *gorm.DB, storeID uint, invoiceNumber string, now time.Time) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.
		Preload("Items").
		Preload("Customer").
		Where("store_id = ? AND invoice_number = ?", storeID, invoiceNumber).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invoice %s", ledger.ErrNotFound, invoiceNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrTransient, err)
	}

	if !IsEligible(invoice.CreatedAt, now) {
		return nil, fmt.Errorf("%w: invoice %s is older than 14 days", ledger.ErrExpired, invoiceNumber)
	}

	return &invoice, nil
}

type ReturnLine struct {
	InvoiceItemID uint
	Quantity      int
}

type ExchangeLine struct {
	Barcode  string
	Quantity int
}

type SettleInput struct {
	StoreID       uint
	InvoiceID     uint
	ReturnType    models.ReturnType
	ReturnLines   []ReturnLine
	ExchangeLines []ExchangeLine
}

type SettleResult struct {
	Record             *models.ReturnRecord
	TotalRefund        float64
	TotalExchangeValue float64
	// Positive: customer pays the difference; negative: customer is refunded.
	NetDue float64
}

// Settle reverses part of a settled invoice. Returned units go back to the
// store shelf (never the warehouse); exchanged-in units come off the shelf.
// All writes commit together or not at all.
func Settle(db *gorm.DB, in SettleInput, now time.Time) (*SettleResult, error) {
	if len(in.ReturnLines) == 0 {
		return nil, fmt.Errorf("%w: no return lines selected", ledger.ErrInvalidQuantity)
	}
	if in.ReturnType != models.ReturnTypeReturn && in.ReturnType != models.ReturnTypeExchange {
		return nil, fmt.Errorf("%w: unknown return type %q", ledger.ErrInvalidQuantity, in.ReturnType)
	}
	if in.ReturnType == models.ReturnTypeExchange && len(in.ExchangeLines) == 0 {
		return nil, fmt.Errorf("%w: exchange needs at least one replacement item", ledger.ErrInvalidQuantity)
	}

	var result SettleResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		err := tx.Preload("Items").First(&invoice, in.InvoiceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invoice %d", ledger.ErrNotFound, in.InvoiceID)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
		}

		if invoice.StoreID != in.StoreID {
			return fmt.Errorf("%w: invoice %s belongs to another store", ledger.ErrNotFound, invoice.InvoiceNumber)
		}
		if !IsEligible(invoice.CreatedAt, now) {
			return fmt.Errorf("%w: invoice %s is older than 14 days", ledger.ErrExpired, invoice.InvoiceNumber)
		}
		if invoice.CustomerID == nil {
			return fmt.Errorf("%w: invoice %s has no customer attached", ledger.ErrNotFound, invoice.InvoiceNumber)
		}

		itemsByID := make(map[uint]*models.InvoiceItem, len(invoice.Items))
		for i := range invoice.Items {
			itemsByID[invoice.Items[i].ID] = &invoice.Items[i]
		}

		// Validate every line before writing anything. Requested quantities
		// are summed per invoice item, so repeated lines naming the same item
		// cannot slip past the per-line bound and refund more than was sold.
		totalRefund := 0.0
		requested := make(map[uint]int, len(in.ReturnLines))
		for _, rl := range in.ReturnLines {
			item, ok := itemsByID[rl.InvoiceItemID]
			if !ok {
				return fmt.Errorf("%w: invoice item %d", ledger.ErrNotFound, rl.InvoiceItemID)
			}
			if rl.Quantity <= 0 {
				return fmt.Errorf("%w: return quantity must be positive", ledger.ErrInvalidQuantity)
			}
			requested[rl.InvoiceItemID] += rl.Quantity
			if requested[rl.InvoiceItemID] > item.Quantity {
				return fmt.Errorf("%w: return quantity %d for a line of %d", ledger.ErrInvalidQuantity, requested[rl.InvoiceItemID], item.Quantity)
			}
			totalRefund += item.UnitPrice * float64(rl.Quantity)
		}

		record := models.ReturnRecord{
			StoreID:           in.StoreID,
			CustomerID:        *invoice.CustomerID,
			OriginalInvoiceID: invoice.ID,
			ReturnType:        in.ReturnType,
			Status:            "completed",
		}
		// Exchanges settle against the replacement value; the stored refund
		// stays zero and the net due lives in the response only.
		if in.ReturnType == models.ReturnTypeReturn {
			record.TotalRefundAmount = totalRefund
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
		}

		for _, rl := range in.ReturnLines {
			item := itemsByID[rl.InvoiceItemID]

			ri := models.ReturnItem{
				ReturnID:      record.ID,
				SizeStockID:   item.SizeStockID,
				ProductName:   item.ProductName,
				Barcode:       item.Barcode,
				Quantity:      rl.Quantity,
				OriginalPrice: item.UnitPrice,
				RefundAmount:  item.UnitPrice * float64(rl.Quantity),
			}
			if err := tx.Create(&ri).Error; err != nil {
				return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
			}

			// Units physically come back to this store's shelf.
			if err := ledger.IncrementStoreStock(tx, in.StoreID, item.SizeStockID, rl.Quantity); err != nil {
				return err
			}
		}

		totalExchangeValue := 0.0
		for _, el := range in.ExchangeLines {
			if el.Quantity <= 0 {
				return fmt.Errorf("%w: exchange quantity must be positive", ledger.ErrInvalidQuantity)
			}

			ref, err := ledger.ResolveBarcode(tx, in.StoreID, el.Barcode)
			if err != nil {
				return err
			}

			name := ref.Barcode
			if full, nerr := ledger.DisplayName(tx, ref.SizeStock.ID); nerr == nil {
				name = full
			}

			ei := models.ExchangeItem{
				ReturnID:    record.ID,
				SizeStockID: ref.SizeStock.ID,
				ProductName: name,
				Barcode:     ref.Barcode,
				Quantity:    el.Quantity,
				UnitPrice:   ref.UnitPrice,
			}
			if err := tx.Create(&ei).Error; err != nil {
				return fmt.Errorf("%w: %v", ledger.ErrTransient, err)
			}

			if err := ledger.DecrementStoreStock(tx, in.StoreID, ref.SizeStock.ID, el.Quantity); err != nil {
				return err
			}

			totalExchangeValue += ref.UnitPrice * float64(el.Quantity)
		}

		result = SettleResult{
			Record:             &record,
			TotalRefund:        totalRefund,
			TotalExchangeValue: totalExchangeValue,
			NetDue:             totalExchangeValue - totalRefund,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
