// Package pricing holds the cart arithmetic for checkout: one discount
// (percentage or fixed, capped at subtotal) and one tax rate applied to the
// whole cart, then apportioned back across lines pro-rata by line value for
// the reporting facts. All math runs on decimals and is rounded to 2 places
// only at the edges, so the same cart always prices to the same paisa.
package pricing

import (
	"fmt"

	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Line struct {
	SizeStockID uint
	UnitPrice   float64
	Quantity    int
}

type LineShare struct {
	SizeStockID uint
	LineTotal   float64
	Discount    float64
	GST         float64
	Final       float64 // LineTotal - Discount + GST
}

type Quote struct {
	Subtotal       float64
	DiscountAmount float64
	TaxableBase    float64
	GSTAmount      float64
	Total          float64
	Lines          []LineShare
}

func Compute(lines []Line, discountType models.DiscountType, discountValue float64, gstEnabled bool, gstRate float64) (*Quote, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ledger.ErrInvalidQuantity)
	}

	hundred := decimal.NewFromInt(100)

	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", ledger.ErrInvalidQuantity)
		}
		lt := decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
		lineTotals[i] = lt
		subtotal = subtotal.Add(lt)
	}

	var discount decimal.Decimal
	switch discountType {
	case models.DiscountPercentage:
		if discountValue < 0 || discountValue > 100 {
			return nil, fmt.Errorf("%w: discount percentage must be between 0 and 100", ledger.ErrInvalidQuantity)
		}
		discount = subtotal.Mul(decimal.NewFromFloat(discountValue)).Div(hundred)
	case models.DiscountFixed:
		if discountValue < 0 {
			return nil, fmt.Errorf("%w: fixed discount cannot be negative", ledger.ErrInvalidQuantity)
		}
		discount = decimal.NewFromFloat(discountValue)
		if discount.GreaterThan(subtotal) {
			discount = subtotal // fixed discount never exceeds subtotal
		}
	default:
		discount = decimal.Zero
	}

	taxableBase := subtotal.Sub(discount)

	gst := decimal.Zero
	if gstEnabled {
		gst = taxableBase.Mul(decimal.NewFromFloat(gstRate)).Div(hundred)
	}

	total := taxableBase.Add(gst)

	q := &Quote{
		Subtotal:       round2(subtotal),
		DiscountAmount: round2(discount),
		TaxableBase:    round2(taxableBase),
		GSTAmount:      round2(gst),
		Total:          round2(total),
		Lines:          make([]LineShare, len(lines)),
	}

	// Pro-rata apportionment: each line's share of discount and GST is
	// proportional to its share of the subtotal. Subtotal is non-zero here
	// unless every unit price is zero, in which case the shares are zero too.
	for i, l := range lines {
		lt := lineTotals[i]
		var lineDiscount, lineGST decimal.Decimal
		if subtotal.IsPositive() {
			lineDiscount = discount.Mul(lt).Div(subtotal)
			lineGST = gst.Mul(lt).Div(subtotal)
		}
		q.Lines[i] = LineShare{
			SizeStockID: l.SizeStockID,
			LineTotal:   round2(lt),
			Discount:    round2(lineDiscount),
			GST:         round2(lineGST),
			Final:       round2(lt.Sub(lineDiscount).Add(lineGST)),
		}
	}

	return q, nil
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
