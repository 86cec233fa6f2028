package domain

// Calculate derives the invoice totals from items, discount, taxRate and
// taxType only. Nothing is rounded here; rounding belongs to formatting.
func Calculate(d InvoiceData) Totals {
	var subtotal float64
	for _, item := range d.Items {
		subtotal += item.Quantity * item.Rate
	}

	discountAmount := subtotal * (d.Discount / 100)
	afterDiscount := subtotal - discountAmount

	var taxAmount float64
	if d.TaxType != TaxTypeNone {
		taxAmount = afterDiscount * (d.TaxRate / 100)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		AfterDiscount:  afterDiscount,
		TaxAmount:      taxAmount,
		Total:          afterDiscount + taxAmount,
	}
}
