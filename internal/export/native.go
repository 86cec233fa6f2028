package export

import (
	"context"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	mconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/invoice/format"
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
)

const lineHeight = 5.0

// NativeGenerator lays the invoice out directly with maroto.
type NativeGenerator struct{}

func NewNativeGenerator() *NativeGenerator {
	return &NativeGenerator{}
}

func (g *NativeGenerator) Generate(ctx context.Context, job Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inv := job.Invoice
	margin := job.Settings.MarginMM
	totals := domain.Calculate(inv)
	money := func(v float64) string {
		return format.FormatCurrency(v, inv.Currency, inv.Language)
	}

	cfg := mconfig.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(margin).
		WithTopMargin(margin).
		WithRightMargin(margin).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(6, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(6, placeholder(inv.InvoiceNumber, render.PlaceholderNumber), props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   4,
		}),
	)

	meta := []string{"Date: " + format.FormatDate(inv.Date, inv.Language)}
	if inv.DueDate != "" {
		meta = append(meta, "Due date: "+format.FormatDate(inv.DueDate, inv.Language))
	}
	m.AddRow(rowHeight(len(meta)), col.New(6), stack(6, meta, props.Text{Size: 9, Align: align.Right}))

	from := party("From", placeholder(inv.FromName, render.PlaceholderFrom), inv.FromEmail, inv.FromAddress)
	to := party("Bill to", placeholder(inv.ToName, render.PlaceholderTo), inv.ToEmail, inv.ToAddress)
	m.AddRow(rowHeight(max(len(from), len(to)))+4,
		stack(6, from, props.Text{Size: 9}),
		stack(6, to, props.Text{Size: 9}),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := header
	headerRight.Align = align.Right
	m.AddRow(8,
		text.NewCol(6, "Description", header),
		text.NewCol(2, "Qty", headerRight),
		text.NewCol(2, "Rate", headerRight),
		text.NewCol(2, "Amount", headerRight),
	)

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	if len(inv.Items) == 0 {
		m.AddRow(8, text.NewCol(12, render.PlaceholderNoItems, props.Text{Size: 9, Align: align.Center, Style: fontstyle.Italic}))
	}
	for i, item := range inv.Items {
		m.AddRow(8,
			text.NewCol(6, placeholder(item.Description, "Item "+strconv.Itoa(i+1)), cell),
			text.NewCol(2, format.FormatQuantity(item.Quantity), cellRight),
			text.NewCol(2, money(item.Rate), cellRight),
			text.NewCol(2, money(item.Amount()), cellRight),
		)
	}

	m.AddRow(8, totalRow("Subtotal", money(totals.Subtotal), false)...)
	if inv.Discount > 0 {
		m.AddRow(8, totalRow("Discount ("+format.FormatPercent(inv.Discount)+")", "-"+money(totals.DiscountAmount), false)...)
	}
	if render.ShowsTax(inv) {
		m.AddRow(8, totalRow(render.TaxLabel(inv), money(totals.TaxAmount), false)...)
	}
	m.AddRow(10, totalRow("Total", money(totals.Total), true)...)

	if notes := nonEmptyLines(inv.Notes); len(notes) > 0 {
		m.AddRow(8, text.NewCol(12, "Notes", props.Text{Size: 9, Style: fontstyle.Bold, Top: 3}))
		m.AddRow(rowHeight(len(notes)), stack(12, notes, props.Text{Size: 9}))
	}

	if footer := strings.TrimSpace(job.Settings.FooterText); footer != "" {
		m.AddRow(12, text.NewCol(12, footer, props.Text{Size: 8, Align: align.Center, Top: 6}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func totalRow(label, value string, bold bool) []core.Col {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return []core.Col{
		col.New(6),
		text.NewCol(3, label, props.Text{Size: 9, Style: style}),
		text.NewCol(3, value, props.Text{Size: 9, Style: style, Align: align.Right}),
	}
}

// stack places one text line below the other inside a single column.
func stack(size int, lines []string, base props.Text) core.Col {
	c := col.New(size)
	for i, line := range lines {
		p := base
		p.Top = float64(i) * lineHeight
		c.Add(text.New(line, p))
	}
	return c
}

func party(title, name, email, address string) []string {
	lines := []string{title, name}
	if e := strings.TrimSpace(email); e != "" {
		lines = append(lines, e)
	}
	return append(lines, nonEmptyLines(address)...)
}

func rowHeight(lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	return float64(lines)*lineHeight + 2
}

func placeholder(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func nonEmptyLines(value string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
