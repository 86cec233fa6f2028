// Package locale derives the default currency and formatting language from
// the process locale.
package locale

import (
	"os"
	"strings"

	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"golang.org/x/text/language"
)

// DateStyle is the preferred month rendering for dates.
type DateStyle string

const (
	DateStyleShort DateStyle = "short"
	DateStyleLong  DateStyle = "long"
)

// Locale is the detection result. It is computed once at startup.
type Locale struct {
	Tag       string    `json:"tag"`
	Currency  string    `json:"currency"`
	Symbol    string    `json:"currencySymbol"`
	DateStyle DateStyle `json:"dateFormat"`
}

// Default is the result when no usable locale signal exists.
var Default = Locale{
	Tag:       domain.FallbackLanguage,
	Currency:  domain.FallbackCurrency,
	Symbol:    "$",
	DateStyle: DateStyleShort,
}

// Variables consulted in order; the first usable value wins.
var envKeys = []string{"APP_LOCALE", "LC_ALL", "LC_MESSAGES", "LANG"}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// FromEnv detects the locale of the current process.
func FromEnv() Locale {
	return Detect(os.LookupEnv)
}

// Detect reads the first usable tag through lookup and resolves its
// currency. Unknown tags, and tags mapped to a currency outside the
// supported set, get USD.
func Detect(lookup LookupFunc) Locale {
	tag := ""
	for _, key := range envKeys {
		raw, ok := lookup(key)
		if !ok {
			continue
		}
		if t, ok := Normalize(raw); ok {
			tag = t
			break
		}
	}
	if tag == "" {
		return Default
	}
	return Resolve(tag)
}

// Resolve maps an already normalized tag to its defaults.
func Resolve(tag string) Locale {
	code, ok := currencyByTag[tag]
	if !ok {
		code = domain.FallbackCurrency
	}
	c, ok := domain.LookupCurrency(code)
	if !ok {
		c = domain.Currencies[0]
	}

	style := DateStyleLong
	if strings.HasPrefix(tag, "en-US") {
		style = DateStyleShort
	}

	return Locale{
		Tag:       tag,
		Currency:  c.Code,
		Symbol:    c.Symbol,
		DateStyle: style,
	}
}

// Normalize turns a POSIX locale ("fr_FR.UTF-8@euro") or BCP 47 tag into
// "fr-FR" form. "C", "POSIX" and malformed values are rejected.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || strings.EqualFold(s, "C") || strings.EqualFold(s, "POSIX") {
		return "", false
	}
	if _, err := language.Parse(s); err != nil {
		return "", false
	}

	parts := strings.Split(s, "-")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		switch len(parts[i]) {
		case 2:
			parts[i] = strings.ToUpper(parts[i])
		case 4:
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		default:
			parts[i] = strings.ToLower(parts[i])
		}
	}
	return strings.Join(parts, "-"), true
}
