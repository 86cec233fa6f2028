// Package domain contains the invoice draft model and its totals calculation.
package domain

// TaxType labels the tax applied on top of the discounted subtotal.
// All non-none values compute identically; the type only changes wording.
type TaxType string

const (
	TaxTypeNone  TaxType = "none"
	TaxTypeVAT   TaxType = "vat"
	TaxTypeGST   TaxType = "gst"
	TaxTypeSales TaxType = "sales"
)

// FallbackCurrency is used when no locale currency is known.
const FallbackCurrency = "USD"

// FallbackLanguage is used when no locale signal is available.
const FallbackLanguage = "en-US"

// InvoiceItem is one billable line.
type InvoiceItem struct {
	ID          string  `json:"id" validate:"required"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

// Amount returns quantity * rate.
func (i InvoiceItem) Amount() float64 {
	return i.Quantity * i.Rate
}

// InvoiceData is the whole invoice draft. Values are replaced, never mutated
// in place; use the With* helpers to derive an edited copy.
type InvoiceData struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`

	FromName    string `json:"fromName"`
	FromEmail   string `json:"fromEmail" validate:"omitempty,email"`
	FromAddress string `json:"fromAddress"`
	ToName      string `json:"toName"`
	ToEmail     string `json:"toEmail" validate:"omitempty,email"`
	ToAddress   string `json:"toAddress"`

	Items []InvoiceItem `json:"items" validate:"dive"`
	Notes string        `json:"notes"`

	Discount float64 `json:"discount" validate:"gte=0,lte=100"`
	TaxRate  float64 `json:"taxRate" validate:"gte=0,lte=100"`
	TaxType  TaxType `json:"taxType" validate:"oneof=none vat gst sales"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Language string  `json:"language" validate:"required"`
}

// Clone returns a deep copy that shares no mutable state with d.
func (d InvoiceData) Clone() InvoiceData {
	out := d
	if d.Items != nil {
		out.Items = make([]InvoiceItem, len(d.Items))
		copy(out.Items, d.Items)
	}
	return out
}

// ItemByID returns the item with the given id.
func (d InvoiceData) ItemByID(id string) (InvoiceItem, bool) {
	for _, item := range d.Items {
		if item.ID == id {
			return item, true
		}
	}
	return InvoiceItem{}, false
}

// ItemIDs returns the item ids in display order.
func (d InvoiceData) ItemIDs() []string {
	ids := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// ItemPatch carries the sub-fields to replace on an item. Nil fields are kept.
type ItemPatch struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Description == nil && p.Quantity == nil && p.Rate == nil
}

// Totals are the derived amounts of an invoice. They are never stored.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	AfterDiscount  float64 `json:"afterDiscount"`
	TaxAmount      float64 `json:"taxAmount"`
	Total          float64 `json:"total"`
}
