package render

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/invoice/format"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="{{.Lang}}">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Number}}</title>
  <style>
    :root {
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #ffffff;
      -webkit-font-smoothing: antialiased;
    }
    .invoice-card { max-width: 760px; margin: 0 auto; }
    .header { display: flex; justify-content: space-between; margin-bottom: 40px; }
    .header h1 { margin: 0; font-size: 28px; font-weight: 700; }
    .header-right { text-align: right; font-size: 14px; }
    .meta-grid { display: flex; justify-content: space-between; margin-bottom: 40px; }
    .col { flex: 1; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value { font-size: 14px; line-height: 1.5; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
    }
    td { padding: 12px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; vertical-align: top; }
    .td-right { text-align: right; }
    .empty-items { text-align: center; color: #9ca3af; font-style: italic; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; }
    .total-row { display: flex; justify-content: space-between; width: 260px; padding: 6px 0; font-size: 14px; }
    .total-label { color: #697386; }
    .total-value { text-align: right; font-weight: 500; }
    .total-final { border-top: 1px solid #e3e8ee; margin-top: 10px; padding-top: 10px; font-weight: 700; font-size: 16px; }
    .notes { margin-top: 40px; font-size: 13px; color: #4f566b; }
    .footer { margin-top: 60px; font-size: 12px; color: #8792a2; border-top: 1px solid #e3e8ee; padding-top: 20px; }
  </style>
</head>
<body>
  <div class="invoice-card">
    <div class="header">
      <div>
        <h1>Invoice</h1>
        <div class="label" style="margin-top: 12px;">Invoice number</div>
        <div class="value">{{.Number}}</div>
      </div>
      <div class="header-right">
        <div class="label">Date</div>
        <div class="value">{{.Date}}</div>
        {{if .DueDate}}
        <div class="label" style="margin-top: 12px;">Due date</div>
        <div class="value">{{.DueDate}}</div>
        {{end}}
      </div>
    </div>

    <div class="meta-grid">
      <div class="col">
        <div class="label">From</div>
        <div class="value">
          <strong>{{.From.Name}}</strong>
          {{if .From.Email}}<br>{{.From.Email}}{{end}}
          {{range .From.Address}}<br>{{.}}{{end}}
        </div>
      </div>
      <div class="col">
        <div class="label">Bill to</div>
        <div class="value">
          <strong>{{.To.Name}}</strong>
          {{if .To.Email}}<br>{{.To.Email}}{{end}}
          {{range .To.Address}}<br>{{.}}{{end}}
        </div>
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Description</th>
          <th class="td-right">Qty</th>
          <th class="td-right">Rate</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="td-right">{{.Quantity}}</td>
          <td class="td-right">{{.Rate}}</td>
          <td class="td-right" style="font-weight: 500;">{{.Amount}}</td>
        </tr>
        {{else}}
        <tr>
          <td colspan="4" class="empty-items">{{$.EmptyItems}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Subtotal</span>
        <span class="total-value">{{.Subtotal}}</span>
      </div>
      {{if .ShowDiscount}}
      <div class="total-row">
        <span class="total-label">{{.DiscountLabel}}</span>
        <span class="total-value">-{{.DiscountAmount}}</span>
      </div>
      {{end}}
      {{if .ShowTax}}
      <div class="total-row">
        <span class="total-label">{{.TaxLabel}}</span>
        <span class="total-value">{{.TaxAmount}}</span>
      </div>
      {{end}}
      <div class="total-row total-final">
        <span class="total-label" style="color: #1a1f36;">Total</span>
        <span class="total-value">{{.Total}}</span>
      </div>
    </div>

    {{if .Notes}}
    <div class="notes">
      <div class="label">Notes</div>
      {{range .Notes}}<div>{{.}}</div>{{end}}
    </div>
    {{end}}

    {{if .Footer}}
    <div class="footer">{{.Footer}}</div>
    {{end}}
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, buildView(input)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildView(input RenderInput) invoiceView {
	inv := input.Invoice
	totals := domain.Calculate(inv)
	money := func(v float64) string {
		return format.FormatCurrency(v, inv.Currency, inv.Language)
	}

	view := invoiceView{
		Lang:    inv.Language,
		Number:  orPlaceholder(inv.InvoiceNumber, PlaceholderNumber),
		Date:    format.FormatDate(inv.Date, inv.Language),
		DueDate: format.FormatDate(inv.DueDate, inv.Language),
		From: partyView{
			Name:    orPlaceholder(inv.FromName, PlaceholderFrom),
			Email:   strings.TrimSpace(inv.FromEmail),
			Address: lines(inv.FromAddress),
		},
		To: partyView{
			Name:    orPlaceholder(inv.ToName, PlaceholderTo),
			Email:   strings.TrimSpace(inv.ToEmail),
			Address: lines(inv.ToAddress),
		},
		Subtotal: money(totals.Subtotal),
		Total:    money(totals.Total),
		Notes:    lines(inv.Notes),
		Footer:   strings.TrimSpace(input.Footer),
	}

	view.EmptyItems = PlaceholderNoItems
	for i, item := range inv.Items {
		view.Items = append(view.Items, lineView{
			Description: orPlaceholder(item.Description, "Item "+strconv.Itoa(i+1)),
			Quantity:    format.FormatQuantity(item.Quantity),
			Rate:        money(item.Rate),
			Amount:      money(item.Amount()),
		})
	}

	if inv.Discount > 0 {
		view.ShowDiscount = true
		view.DiscountLabel = "Discount (" + format.FormatPercent(inv.Discount) + ")"
		view.DiscountAmount = money(totals.DiscountAmount)
	}
	if ShowsTax(inv) {
		view.ShowTax = true
		view.TaxLabel = TaxLabel(inv)
		view.TaxAmount = money(totals.TaxAmount)
	}
	return view
}

// ShowsTax reports whether the tax row is part of the document.
func ShowsTax(inv domain.InvoiceData) bool {
	return inv.TaxType != domain.TaxTypeNone && inv.TaxType.Valid() && inv.TaxRate > 0
}

// TaxLabel renders e.g. "VAT (8%)".
func TaxLabel(inv domain.InvoiceData) string {
	return inv.TaxType.Label() + " (" + format.FormatPercent(inv.TaxRate) + ")"
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func lines(value string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
