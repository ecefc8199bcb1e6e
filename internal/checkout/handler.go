package checkout

import (
	"fmt"
	"log"

	"boutique-backend/internal/audit"
	"boutique-backend/internal/database"
	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type CheckoutItemRequest struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

type CheckoutCustomerRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckoutRequest struct {
	StoreID       *uint                    `json:"store_id"` // required for super_admin
	Items         []CheckoutItemRequest    `json:"items"`
	DiscountType  models.DiscountType      `json:"discount_type"`
	DiscountValue float64                  `json:"discount_value"`
	PaymentMethod models.PaymentMethod     `json:"payment_method"`
	Customer      *CheckoutCustomerRequest `json:"customer"`
}

type CheckoutItemResponse struct {
	ProductName string  `json:"product_name"`
	Barcode     string  `json:"barcode"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type CheckoutResponse struct {
	InvoiceID      uint                   `json:"invoice_id"`
	InvoiceNumber  string                 `json:"invoice_number"`
	StoreID        uint                   `json:"store_id"`
	Subtotal       float64                `json:"subtotal"`
	DiscountAmount float64                `json:"discount_amount"`
	GSTRate        float64                `json:"gst_rate"`
	GSTAmount      float64                `json:"gst_amount"`
	TotalAmount    float64                `json:"total_amount"`
	PaymentMethod  models.PaymentMethod   `json:"payment_method"`
	CustomerID     *uint                  `json:"customer_id"`
	Items          []CheckoutItemResponse `json:"items"`
	CreatedAt      string                 `json:"created_at"`
}

// POST /api/checkout
func SettleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Cart is empty")
		}

		storeID, err := web.ResolveStoreIDFromBodyOrRole(c, body.StoreID)
		if err != nil {
			return err
		}

		in := SettleInput{
			StoreID:       storeID,
			DiscountType:  body.DiscountType,
			DiscountValue: body.DiscountValue,
			PaymentMethod: body.PaymentMethod,
		}
		for _, it := range body.Items {
			in.Lines = append(in.Lines, CartLine{Barcode: it.Barcode, Quantity: it.Quantity})
		}
		if body.Customer != nil {
			in.CustomerPhone = body.Customer.Phone
			in.CustomerName = body.Customer.Name
			in.CustomerEmail = body.Customer.Email
		}

		result, err := Settle(database.DB, in)
		if err != nil {
			return web.LedgerError(err)
		}

		invoice := result.Invoice

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				StoreID:     &storeID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "invoice",
				EntityID:    invoice.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Checkout %s, %d lines, total %.2f", invoice.InvoiceNumber, len(invoice.Items), invoice.TotalAmount),
				After:       invoice,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		res := CheckoutResponse{
			InvoiceID:      invoice.ID,
			InvoiceNumber:  invoice.InvoiceNumber,
			StoreID:        invoice.StoreID,
			Subtotal:       invoice.Subtotal,
			DiscountAmount: invoice.DiscountAmount,
			GSTRate:        invoice.GSTRate,
			GSTAmount:      invoice.GSTAmount,
			TotalAmount:    invoice.TotalAmount,
			PaymentMethod:  invoice.PaymentMethod,
			CustomerID:     invoice.CustomerID,
			CreatedAt:      invoice.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for _, it := range invoice.Items {
			res.Items = append(res.Items, CheckoutItemResponse{
				ProductName: it.ProductName,
				Barcode:     it.Barcode,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				LineTotal:   it.LineTotal,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

type ResolveResponse struct {
	SizeStockID uint    `json:"size_stock_id"`
	Barcode     string  `json:"barcode"`
	UnitPrice   float64 `json:"unit_price"`
	Available   int     `json:"available"` // shelf quantity at this store
	Legacy      bool    `json:"legacy"`    // resolved via a barcode group
}

// GET /api/checkout/resolve?barcode=...&store_id=... is scan support for the
// till: resolves a barcode against this store's shelf and reports how many
// units the cart may hold. Purely a read; the settle transaction re-checks.
func ResolveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		barcode := c.Query("barcode")
		if barcode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "barcode is required")
		}

		storeID, err := web.ResolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		ref, err := ledger.ResolveBarcode(database.DB, storeID, barcode)
		if err != nil {
			return web.LedgerError(err)
		}

		available, err := ledger.StoreQuantity(database.DB, storeID, ref.SizeStock.ID)
		if err != nil {
			return web.LedgerError(err)
		}
		if available <= 0 {
			return fiber.NewError(fiber.StatusConflict, "Product out of stock in this store")
		}

		return c.JSON(ResolveResponse{
			SizeStockID: ref.SizeStock.ID,
			Barcode:     ref.Barcode,
			UnitPrice:   ref.UnitPrice,
			Available:   available,
			Legacy:      ref.Kind == ledger.SkuGroupedLegacy,
		})
	}
}
