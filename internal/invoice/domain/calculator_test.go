package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() InvoiceData {
	d := DefaultInvoice(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	d.Items = []InvoiceItem{
		{ID: "a", Description: "Design", Quantity: 2, Rate: 50},
		{ID: "b", Description: "Hosting", Quantity: 1, Rate: 25},
	}
	d.Discount = 10
	d.TaxType = TaxTypeVAT
	d.TaxRate = 8
	return d
}

func TestCalculate_EndToEndScenario(t *testing.T) {
	totals := Calculate(sampleInvoice())

	assert.Equal(t, 125.0, totals.Subtotal)
	assert.Equal(t, 12.5, totals.DiscountAmount)
	assert.Equal(t, 112.5, totals.AfterDiscount)
	assert.Equal(t, 9.0, totals.TaxAmount)
	assert.Equal(t, 121.5, totals.Total)
}

func TestCalculate_EmptyItems(t *testing.T) {
	d := sampleInvoice()
	d.Items = nil

	assert.Equal(t, Totals{}, Calculate(d))
}

func TestCalculate_ZeroDiscountAndRateAreExactlyZero(t *testing.T) {
	d := sampleInvoice()
	d.Items = []InvoiceItem{{ID: "x", Quantity: 3, Rate: 0.1}}
	d.Discount = 0
	d.TaxRate = 0

	totals := Calculate(d)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, totals.Subtotal, totals.Total)
}

func TestCalculate_FullDiscountLeavesNothing(t *testing.T) {
	d := sampleInvoice()
	d.Discount = 100

	totals := Calculate(d)
	assert.Equal(t, 0.0, totals.AfterDiscount)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 0.0, totals.Total)
}

func TestCalculate_NoneTaxTypeIgnoresRate(t *testing.T) {
	d := sampleInvoice()
	d.TaxType = TaxTypeNone
	d.TaxRate = 100

	totals := Calculate(d)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, totals.AfterDiscount, totals.Total)
	assert.Equal(t, 100.0, d.TaxRate, "rate stays in the model")
}

func TestCalculate_TaxTypesComputeIdentically(t *testing.T) {
	base := sampleInvoice()
	var totals []Totals
	for _, tt := range []TaxType{TaxTypeVAT, TaxTypeGST, TaxTypeSales} {
		d := base
		d.TaxType = tt
		totals = append(totals, Calculate(d))
	}
	assert.Equal(t, totals[0], totals[1])
	assert.Equal(t, totals[0], totals[2])
}

func TestCalculate_TotalIdentityAndIdempotence(t *testing.T) {
	d := sampleInvoice()
	d.Items = append(d.Items, InvoiceItem{ID: "c", Quantity: 0.333, Rate: 19.99})
	d.Discount = 7.5
	d.TaxRate = 13.25

	first := Calculate(d)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Calculate(d))
	}
	assert.Equal(t, first.Subtotal-first.DiscountAmount+first.TaxAmount, first.Total)
}

func TestCalculate_SubtotalIndependentOfOrder(t *testing.T) {
	d := sampleInvoice()
	d.Items = []InvoiceItem{
		{ID: "a", Quantity: 2, Rate: 50},
		{ID: "b", Quantity: 1, Rate: 25},
		{ID: "c", Quantity: 4, Rate: 12.5},
	}
	reordered, err := d.WithItemIDsOrdered([]string{"c", "a", "b"})
	require.NoError(t, err)

	assert.Equal(t, 225.0, Calculate(d).Subtotal)
	assert.Equal(t, Calculate(d), Calculate(reordered))
}

func TestCalculate_IgnoresPartyFields(t *testing.T) {
	d := sampleInvoice()
	other := d.Clone()
	other.FromName = "Acme"
	other.ToEmail = "billing@example.com"
	other.Notes = "thanks"
	other.Currency = "EUR"

	assert.Equal(t, Calculate(d), Calculate(other))
}

func TestItemAmount(t *testing.T) {
	assert.Equal(t, 7.5, InvoiceItem{Quantity: 1.5, Rate: 5}.Amount())
}
