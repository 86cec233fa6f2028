package render

import "github.com/smallbiznis/invoicemaker/internal/invoice/domain"

// RenderInput is the deterministic input used for invoice rendering.
type RenderInput struct {
	Invoice domain.InvoiceData
	// Footer is printed below the totals when set.
	Footer string
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}

// Placeholders shown for fields the user has not filled in yet.
const (
	PlaceholderNumber = "INV-001"
	PlaceholderFrom   = "Your Company"
	PlaceholderTo     = "Client Name"

	PlaceholderNoItems = "No items added yet"
)

type partyView struct {
	Name    string
	Email   string
	Address []string
}

type lineView struct {
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

type invoiceView struct {
	Lang    string
	Number  string
	Date    string
	DueDate string
	From    partyView
	To      partyView
	Items   []lineView
	// EmptyItems is the table row text when there are no items.
	EmptyItems string

	Subtotal       string
	ShowDiscount   bool
	DiscountLabel  string
	DiscountAmount string
	ShowTax        bool
	TaxLabel       string
	TaxAmount      string
	Total          string

	Notes  []string
	Footer string
}
