package domain

import "strings"

// Currency is one entry of the supported currency set.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Currencies is the supported currency set in selector order.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CHF", Symbol: "Fr", Name: "Swiss Franc"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
	{Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar"},
	{Code: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar"},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
	{Code: "MXN", Symbol: "Mex$", Name: "Mexican Peso"},
}

// LookupCurrency finds a supported currency by code (case-insensitive).
func LookupCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// TaxTypeOption pairs a tax type with its display label.
type TaxTypeOption struct {
	Value TaxType `json:"value"`
	Label string  `json:"label"`
}

var TaxTypes = []TaxTypeOption{
	{Value: TaxTypeNone, Label: "No Tax"},
	{Value: TaxTypeVAT, Label: "VAT"},
	{Value: TaxTypeGST, Label: "GST"},
	{Value: TaxTypeSales, Label: "Sales Tax"},
}

// Valid reports whether t is one of the closed set of tax types.
func (t TaxType) Valid() bool {
	for _, opt := range TaxTypes {
		if opt.Value == t {
			return true
		}
	}
	return false
}

// Label returns the display label, "Tax" for unknown values.
func (t TaxType) Label() string {
	for _, opt := range TaxTypes {
		if opt.Value == t {
			return opt.Label
		}
	}
	return "Tax"
}

// Language is a selectable formatting locale.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var Languages = []Language{
	{Code: "en-US", Name: "English (US)"},
	{Code: "en-GB", Name: "English (UK)"},
	{Code: "de-DE", Name: "Deutsch"},
	{Code: "fr-FR", Name: "Français"},
	{Code: "es-ES", Name: "Español"},
	{Code: "it-IT", Name: "Italiano"},
	{Code: "pt-BR", Name: "Português (BR)"},
	{Code: "ja-JP", Name: "日本語"},
	{Code: "zh-CN", Name: "中文"},
	{Code: "ko-KR", Name: "한국어"},
	{Code: "hi-IN", Name: "हिन्दी"},
	{Code: "ar-SA", Name: "العربية"},
}
