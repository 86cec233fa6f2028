package domain

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// CoerceAmount turns edit input into a canonical non-negative number.
// Unparseable, NaN, infinite and negative input become 0.
func CoerceAmount(v any) float64 {
	switch t := v.(type) {
	case nil, bool:
		return 0
	case string:
		v = strings.TrimSpace(t)
	case *float64:
		if t == nil {
			return 0
		}
		v = *t
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// CoercePercent is CoerceAmount clamped to 100.
func CoercePercent(v any) float64 {
	f := CoerceAmount(v)
	if f > 100 {
		return 100
	}
	return f
}

// Normalize returns a copy that satisfies the model invariants: numeric
// fields are canonical, the tax type is known, every item has a unique id.
// newID is used for items with a missing or duplicate id; it may be nil when
// ids are known to be present.
func (d InvoiceData) Normalize(newID func() string) InvoiceData {
	out := d.Clone()
	out.Discount = CoercePercent(out.Discount)
	out.TaxRate = CoercePercent(out.TaxRate)
	if !out.TaxType.Valid() {
		out.TaxType = TaxTypeNone
	}
	if strings.TrimSpace(out.Currency) == "" {
		out.Currency = FallbackCurrency
	}
	if strings.TrimSpace(out.Language) == "" {
		out.Language = FallbackLanguage
	}
	if out.Items == nil {
		out.Items = []InvoiceItem{}
	}

	seen := make(map[string]struct{}, len(out.Items))
	for i := range out.Items {
		item := &out.Items[i]
		item.Quantity = CoerceAmount(item.Quantity)
		item.Rate = CoerceAmount(item.Rate)
		if _, dup := seen[item.ID]; (item.ID == "" || dup) && newID != nil {
			item.ID = newID()
		}
		seen[item.ID] = struct{}{}
	}
	return out
}
