package pricing

import (
	"testing"

	"boutique-backend/internal/ledger"
	"boutique-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePercentageDiscountWithGST(t *testing.T) {
	lines := []Line{
		{SizeStockID: 1, UnitPrice: 25.00, Quantity: 2}, // 50.00
		{SizeStockID: 2, UnitPrice: 50.00, Quantity: 1}, // 50.00
	}

	q, err := Compute(lines, models.DiscountPercentage, 10, true, 18)
	require.NoError(t, err)

	assert.Equal(t, 100.00, q.Subtotal)
	assert.Equal(t, 10.00, q.DiscountAmount)
	assert.Equal(t, 90.00, q.TaxableBase)
	assert.Equal(t, 16.20, q.GSTAmount)
	assert.Equal(t, 106.20, q.Total)
}

func TestComputeFixedDiscountCappedAtSubtotal(t *testing.T) {
	lines := []Line{{SizeStockID: 1, UnitPrice: 50.00, Quantity: 1}}

	q, err := Compute(lines, models.DiscountFixed, 75, true, 18)
	require.NoError(t, err)

	assert.Equal(t, 50.00, q.Subtotal)
	assert.Equal(t, 50.00, q.DiscountAmount, "fixed discount never exceeds subtotal")
	assert.Equal(t, 0.00, q.TaxableBase)
	assert.Equal(t, 0.00, q.GSTAmount)
	assert.Equal(t, 0.00, q.Total)
}

func TestComputeNoDiscountNoGST(t *testing.T) {
	lines := []Line{{SizeStockID: 1, UnitPrice: 20.00, Quantity: 3}}

	q, err := Compute(lines, models.DiscountNone, 0, false, 18)
	require.NoError(t, err)

	assert.Equal(t, 60.00, q.Subtotal)
	assert.Equal(t, 0.00, q.DiscountAmount)
	assert.Equal(t, 0.00, q.GSTAmount)
	assert.Equal(t, 60.00, q.Total)
}

func TestComputeProRataApportionment(t *testing.T) {
	lines := []Line{
		{SizeStockID: 1, UnitPrice: 30.00, Quantity: 1}, // 30% of subtotal
		{SizeStockID: 2, UnitPrice: 70.00, Quantity: 1}, // 70% of subtotal
	}

	q, err := Compute(lines, models.DiscountPercentage, 10, true, 18)
	require.NoError(t, err)
	require.Len(t, q.Lines, 2)

	// Each line's discount/GST share is proportional to its share of the
	// subtotal: 10.00 and 16.20 split 30/70.
	assert.Equal(t, 3.00, q.Lines[0].Discount)
	assert.Equal(t, 7.00, q.Lines[1].Discount)
	assert.Equal(t, 4.86, q.Lines[0].GST)
	assert.Equal(t, 11.34, q.Lines[1].GST)

	assert.Equal(t, 31.86, q.Lines[0].Final)
	assert.Equal(t, 74.34, q.Lines[1].Final)

	// The per-line finals reassemble the cart total.
	assert.InDelta(t, q.Total, q.Lines[0].Final+q.Lines[1].Final, 0.01)
}

func TestComputeEmptyCartRejected(t *testing.T) {
	_, err := Compute(nil, models.DiscountNone, 0, true, 18)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestComputeNonPositiveQuantityRejected(t *testing.T) {
	_, err := Compute([]Line{{SizeStockID: 1, UnitPrice: 10, Quantity: 0}}, models.DiscountNone, 0, true, 18)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	_, err = Compute([]Line{{SizeStockID: 1, UnitPrice: 10, Quantity: -2}}, models.DiscountNone, 0, true, 18)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestComputeRejectsOutOfRangeDiscount(t *testing.T) {
	lines := []Line{{SizeStockID: 1, UnitPrice: 50.00, Quantity: 1}}

	// Above 100% would drive the taxable base negative.
	_, err := Compute(lines, models.DiscountPercentage, 120, true, 18)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	_, err = Compute(lines, models.DiscountPercentage, -5, true, 18)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	// A negative fixed discount would inflate the total.
	_, err = Compute(lines, models.DiscountFixed, -10, true, 18)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestComputeZeroSubtotalNoDivisionByZero(t *testing.T) {
	// Free items: subtotal 0 must not panic on apportionment.
	lines := []Line{{SizeStockID: 1, UnitPrice: 0, Quantity: 1}}

	q, err := Compute(lines, models.DiscountPercentage, 10, true, 18)
	require.NoError(t, err)

	assert.Equal(t, 0.00, q.Subtotal)
	assert.Equal(t, 0.00, q.Total)
	assert.Equal(t, 0.00, q.Lines[0].Discount)
	assert.Equal(t, 0.00, q.Lines[0].GST)
}

func TestComputeRoundsToTwoPlaces(t *testing.T) {
	// 3 x 33.33 = 99.99; 7% discount = 6.9993 -> 7.00
	lines := []Line{{SizeStockID: 1, UnitPrice: 33.33, Quantity: 3}}

	q, err := Compute(lines, models.DiscountPercentage, 7, false, 0)
	require.NoError(t, err)

	assert.Equal(t, 99.99, q.Subtotal)
	assert.Equal(t, 7.00, q.DiscountAmount)
	assert.Equal(t, 92.99, q.Total)
}
