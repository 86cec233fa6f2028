package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FallbackSymbol prefixes amounts whose currency has no catalog symbol.
const FallbackSymbol = "$"

// FormatCurrency renders amount with two fraction digits, the separators of
// languageTag and the currency symbol placed the way that language places it.
//
// Unknown currency codes and unparseable language tags fall back to the
// catalog symbol (or "$") followed by the amount fixed to two decimals.
func FormatCurrency(amount float64, currencyCode string, languageTag string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fallbackCurrency(amount, code)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fallbackCurrency(amount, code)
	}
	tag, err := parseTag(languageTag)
	if err != nil {
		return fallbackCurrency(amount, code)
	}

	rounded := math.Round(math.Abs(amount)*100) / 100
	digits := message.NewPrinter(tag).Sprint(number.Decimal(rounded, number.Scale(2)))

	rule := moneyRuleFor(tag)
	symbol := symbolFor(unit.String(), tag)

	var b strings.Builder
	if amount < 0 && rounded != 0 {
		b.WriteString("-")
	}
	if rule.suffix {
		b.WriteString(digits)
		b.WriteString(rule.space)
		b.WriteString(symbol)
	} else {
		b.WriteString(symbol)
		b.WriteString(rule.space)
		b.WriteString(digits)
	}
	return b.String()
}

func fallbackCurrency(amount float64, code string) string {
	symbol := FallbackSymbol
	if c, ok := domain.LookupCurrency(code); ok {
		symbol = c.Symbol
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return symbol + strconv.FormatFloat(amount, 'f', 2, 64)
}

func parseTag(languageTag string) (language.Tag, error) {
	languageTag = strings.TrimSpace(languageTag)
	if languageTag == "" {
		return language.AmericanEnglish, nil
	}
	return language.Parse(strings.ReplaceAll(languageTag, "_", "-"))
}

func symbolFor(code string, tag language.Tag) string {
	if local, ok := localSymbols[code]; ok {
		if s, ok := local[regionKey(tag)]; ok {
			return s
		}
	}
	if c, ok := domain.LookupCurrency(code); ok {
		return c.Symbol
	}
	return code
}

func moneyRuleFor(tag language.Tag) moneyRule {
	if r, ok := moneyRules[regionKey(tag)]; ok {
		return r
	}
	base, _ := tag.Base()
	if r, ok := moneyRules[base.String()]; ok {
		return r
	}
	return moneyRule{}
}

// regionKey reduces a tag to "lang-REGION", or "lang" when no region is known.
func regionKey(tag language.Tag) string {
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf != language.Exact {
		return base.String()
	}
	return base.String() + "-" + region.String()
}

// FormatQuantity trims trailing zeros: 2 -> "2", 1.50 -> "1.5".
func FormatQuantity(q float64) string {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return "0"
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// FormatPercent renders a rate for labels such as "VAT (8%)".
func FormatPercent(p float64) string {
	return FormatQuantity(p) + "%"
}
