package domain

import "errors"

var (
	ErrUnknownField        = errors.New("unknown_field")
	ErrInvalidFieldValue   = errors.New("invalid_field_value")
	ErrInvalidTaxType      = errors.New("invalid_tax_type")
	ErrUnsupportedCurrency = errors.New("unsupported_currency")
	ErrInvalidLanguage     = errors.New("invalid_language")
	ErrInvalidReorder      = errors.New("invalid_reorder")
	ErrItemNotFound        = errors.New("item_not_found")
	ErrInvalidInvoice      = errors.New("invalid_invoice")
)
