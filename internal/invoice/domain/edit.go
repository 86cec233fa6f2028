package domain

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Field names a top-level, directly editable InvoiceData field. Names match
// the JSON keys of the draft.
type Field string

const (
	FieldInvoiceNumber Field = "invoiceNumber"
	FieldDate          Field = "date"
	FieldDueDate       Field = "dueDate"
	FieldFromName      Field = "fromName"
	FieldFromEmail     Field = "fromEmail"
	FieldFromAddress   Field = "fromAddress"
	FieldToName        Field = "toName"
	FieldToEmail       Field = "toEmail"
	FieldToAddress     Field = "toAddress"
	FieldNotes         Field = "notes"
	FieldDiscount      Field = "discount"
	FieldTaxRate       Field = "taxRate"
	FieldTaxType       Field = "taxType"
	FieldCurrency      Field = "currency"
	FieldLanguage      Field = "language"
)

// WithField returns a copy with one top-level field replaced. Numeric fields
// are coerced; taxType and currency must belong to their closed sets.
func (d InvoiceData) WithField(field Field, value any) (InvoiceData, error) {
	out := d.Clone()

	switch field {
	case FieldDiscount:
		out.Discount = CoercePercent(value)
		return out, nil
	case FieldTaxRate:
		out.TaxRate = CoercePercent(value)
		return out, nil
	}

	s, ok := stringValue(value)
	if !ok {
		return d, fmt.Errorf("%w: %s", ErrInvalidFieldValue, field)
	}

	switch field {
	case FieldInvoiceNumber:
		out.InvoiceNumber = s
	case FieldDate:
		out.Date = s
	case FieldDueDate:
		out.DueDate = s
	case FieldFromName:
		out.FromName = s
	case FieldFromEmail:
		out.FromEmail = s
	case FieldFromAddress:
		out.FromAddress = s
	case FieldToName:
		out.ToName = s
	case FieldToEmail:
		out.ToEmail = s
	case FieldToAddress:
		out.ToAddress = s
	case FieldNotes:
		out.Notes = s
	case FieldTaxType:
		t := TaxType(strings.ToLower(strings.TrimSpace(s)))
		if !t.Valid() {
			return d, ErrInvalidTaxType
		}
		out.TaxType = t
	case FieldCurrency:
		c, ok := LookupCurrency(s)
		if !ok {
			return d, ErrUnsupportedCurrency
		}
		out.Currency = c.Code
	case FieldLanguage:
		s = strings.TrimSpace(s)
		if s == "" {
			return d, ErrInvalidLanguage
		}
		out.Language = s
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return out, nil
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case nil:
		return "", true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}

// NewItem returns a fresh line with quantity 1 and rate 0.
func NewItem(id string) InvoiceItem {
	return InvoiceItem{ID: id, Description: "", Quantity: 1, Rate: 0}
}

// ItemPatchFromValues builds a patch from loosely typed edit input keyed by
// the item JSON names. Present quantity and rate values are coerced like any
// other numeric edit; unknown keys are ignored.
func ItemPatchFromValues(values map[string]any) ItemPatch {
	var patch ItemPatch
	if v, ok := values["description"]; ok {
		description := cast.ToString(v)
		patch.Description = &description
	}
	if v, ok := values["quantity"]; ok {
		quantity := CoerceAmount(v)
		patch.Quantity = &quantity
	}
	if v, ok := values["rate"]; ok {
		rate := CoerceAmount(v)
		patch.Rate = &rate
	}
	return patch
}

// WithItemAdded appends item to the end of the items.
func (d InvoiceData) WithItemAdded(item InvoiceItem) InvoiceData {
	out := d.Clone()
	out.Items = append(out.Items, item)
	return out
}

// WithItemUpdated applies patch to the item with the given id. It reports
// false and returns d untouched when the id is unknown.
func (d InvoiceData) WithItemUpdated(id string, patch ItemPatch) (InvoiceData, bool) {
	idx := d.indexOf(id)
	if idx < 0 {
		return d, false
	}
	out := d.Clone()
	item := &out.Items[idx]
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = CoerceAmount(*patch.Quantity)
	}
	if patch.Rate != nil {
		item.Rate = CoerceAmount(*patch.Rate)
	}
	return out, true
}

// WithItemRemoved drops the item with the given id. It reports false and
// returns d untouched when the id is unknown.
func (d InvoiceData) WithItemRemoved(id string) (InvoiceData, bool) {
	idx := d.indexOf(id)
	if idx < 0 {
		return d, false
	}
	out := d.Clone()
	out.Items = append(out.Items[:idx:idx], out.Items[idx+1:]...)
	return out, true
}

// WithItemsReordered replaces the items with seq, which must be a
// permutation of the current items: same ids, each exactly once, unchanged
// content.
func (d InvoiceData) WithItemsReordered(seq []InvoiceItem) (InvoiceData, error) {
	if len(seq) != len(d.Items) {
		return d, fmt.Errorf("%w: expected %d items, got %d", ErrInvalidReorder, len(d.Items), len(seq))
	}

	current := make(map[string]InvoiceItem, len(d.Items))
	for _, item := range d.Items {
		current[item.ID] = item
	}
	seen := make(map[string]struct{}, len(seq))
	for _, item := range seq {
		existing, ok := current[item.ID]
		if !ok {
			return d, fmt.Errorf("%w: unknown item %q", ErrInvalidReorder, item.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return d, fmt.Errorf("%w: duplicate item %q", ErrInvalidReorder, item.ID)
		}
		if existing != item {
			return d, fmt.Errorf("%w: item %q content changed", ErrInvalidReorder, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	out := d.Clone()
	out.Items = make([]InvoiceItem, len(seq))
	copy(out.Items, seq)
	return out, nil
}

// WithItemIDsOrdered reorders the items to follow ids.
func (d InvoiceData) WithItemIDsOrdered(ids []string) (InvoiceData, error) {
	seq := make([]InvoiceItem, 0, len(ids))
	for _, id := range ids {
		item, ok := d.ItemByID(id)
		if !ok {
			return d, fmt.Errorf("%w: unknown item %q", ErrInvalidReorder, id)
		}
		seq = append(seq, item)
	}
	return d.WithItemsReordered(seq)
}

func (d InvoiceData) indexOf(id string) int {
	for i, item := range d.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
