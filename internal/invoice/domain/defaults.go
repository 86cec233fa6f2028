package domain

import "time"

// DefaultItemID is the id of the single line of the default template.
const DefaultItemID = "item-1"

// DefaultInvoice returns the starting template dated today (UTC ISO date).
func DefaultInvoice(today time.Time) InvoiceData {
	return InvoiceData{
		Date: today.UTC().Format(time.DateOnly),
		Items: []InvoiceItem{
			{ID: DefaultItemID, Description: "", Quantity: 1, Rate: 0},
		},
		TaxType:  TaxTypeNone,
		Currency: FallbackCurrency,
		Language: FallbackLanguage,
	}
}

// DefaultInvoiceForLocale seeds the default template with a currency and
// language, keeping the fallbacks for empty values.
func DefaultInvoiceForLocale(today time.Time, currency, language string) InvoiceData {
	d := DefaultInvoice(today)
	if currency != "" {
		d.Currency = currency
	}
	if language != "" {
		d.Language = language
	}
	return d
}
