package returns

import (
	"fmt"
	"log"
	"time"

	"boutique-backend/internal/audit"
	"boutique-backend/internal/customer"
	"boutique-backend/internal/database"
	"boutique-backend/internal/models"
	"boutique-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type InvoiceItemResponse struct {
	ID          uint    `json:"id"`
	SizeStockID uint    `json:"size_stock_id"`
	ProductName string  `json:"product_name"`
	Barcode     string  `json:"barcode"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type EligibleInvoiceResponse struct {
	ID            uint                  `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	TotalAmount   float64               `json:"total_amount"`
	CreatedAt     string                `json:"created_at"`
	Items         []InvoiceItemResponse `json:"items"`
}

func toInvoiceResponse(inv *models.Invoice) EligibleInvoiceResponse {
	res := EligibleInvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		TotalAmount:   inv.TotalAmount,
		CreatedAt:     inv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, it := range inv.Items {
		res.Items = append(res.Items, InvoiceItemResponse{
			ID:          it.ID,
			SizeStockID: it.SizeStockID,
			ProductName: it.ProductName,
			Barcode:     it.Barcode,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return res
}

// GET /api/returns/search?phone=...  or  ?invoice_number=...
// Phone search lists every eligible invoice at this store; number search
// returns the one invoice or rejects with Expired before any line selection.
func SearchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := web.ResolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		now := time.Now()

		if phone := c.Query("phone"); phone != "" {
			cust, err := customer.FindByPhone(database.DB, phone)
			if err != nil {
				return web.LedgerError(err)
			}

			invoices, err := FindEligibleInvoices(database.DB, storeID, cust.ID, now)
			if err != nil {
				return web.LedgerError(err)
			}

			res := make([]EligibleInvoiceResponse, 0, len(invoices))
			for i := range invoices {
				res = append(res, toInvoiceResponse(&invoices[i]))
			}
			return c.JSON(fiber.Map{
				"customer": fiber.Map{
					"id":    cust.ID,
					"name":  cust.Name,
					"phone": cust.Phone,
				},
				"invoices": res,
			})
		}

		if number := c.Query("invoice_number"); number != "" {
			invoice, err := FindInvoiceByNumber(database.DB, storeID, number, now)
			if err != nil {
				return web.LedgerError(err)
			}

			response := fiber.Map{"invoices": []EligibleInvoiceResponse{toInvoiceResponse(invoice)}}
			if invoice.Customer != nil {
				response["customer"] = fiber.Map{
					"id":    invoice.Customer.ID,
					"name":  invoice.Customer.Name,
					"phone": invoice.Customer.Phone,
				}
			}
			return c.JSON(response)
		}

		return fiber.NewError(fiber.StatusBadRequest, "phone or invoice_number is required")
	}
}

type ReturnLineRequest struct {
	InvoiceItemID uint `json:"invoice_item_id"`
	Quantity      int  `json:"quantity"`
}

type ExchangeLineRequest struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

type ProcessReturnRequest struct {
	StoreID       *uint                 `json:"store_id"` // required for super_admin
	InvoiceID     uint                  `json:"invoice_id"`
	ReturnType    models.ReturnType     `json:"return_type"`
	Items         []ReturnLineRequest   `json:"items"`
	ExchangeItems []ExchangeLineRequest `json:"exchange_items"`
}

type ProcessReturnResponse struct {
	ReturnID           uint              `json:"return_id"`
	ReturnType         models.ReturnType `json:"return_type"`
	TotalRefund        float64           `json:"total_refund"`
	TotalExchangeValue float64           `json:"total_exchange_value"`
	NetDue             float64           `json:"net_due"`
	Status             string            `json:"status"`
}

// POST /api/returns
func ProcessHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProcessReturnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.InvoiceID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invoice_id is required")
		}

		storeID, err := web.ResolveStoreIDFromBodyOrRole(c, body.StoreID)
		if err != nil {
			return err
		}

		in := SettleInput{
			StoreID:    storeID,
			InvoiceID:  body.InvoiceID,
			ReturnType: body.ReturnType,
		}
		for _, it := range body.Items {
			in.ReturnLines = append(in.ReturnLines, ReturnLine{InvoiceItemID: it.InvoiceItemID, Quantity: it.Quantity})
		}
		for _, it := range body.ExchangeItems {
			in.ExchangeLines = append(in.ExchangeLines, ExchangeLine{Barcode: it.Barcode, Quantity: it.Quantity})
		}

		result, err := Settle(database.DB, in, time.Now())
		if err != nil {
			return web.LedgerError(err)
		}

		if userID, userName, uerr := web.CurrentUser(c); uerr == nil {
			if aerr := audit.WriteLog(audit.LogOptions{
				StoreID:     &storeID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "return",
				EntityID:    result.Record.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%s against invoice %d, refund %.2f", body.ReturnType, body.InvoiceID, result.TotalRefund),
				After:       result.Record,
			}); aerr != nil {
				log.Println("audit:", aerr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(ProcessReturnResponse{
			ReturnID:           result.Record.ID,
			ReturnType:         result.Record.ReturnType,
			TotalRefund:        result.TotalRefund,
			TotalExchangeValue: result.TotalExchangeValue,
			NetDue:             result.NetDue,
			Status:             result.Record.Status,
		})
	}
}
