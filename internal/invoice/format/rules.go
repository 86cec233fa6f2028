package format

// moneyRule places the currency symbol relative to the digits.
type moneyRule struct {
	suffix bool
	space  string
}

const nbsp = "\u00a0"

var (
	prefixTight = moneyRule{}
	prefixSpace = moneyRule{space: nbsp}
	suffixSpace = moneyRule{suffix: true, space: nbsp}
)

// Keyed by "lang-REGION" first, then by "lang".
var moneyRules = map[string]moneyRule{
	"en": prefixTight,
	"ja": prefixTight,
	"zh": prefixTight,
	"ko": prefixTight,
	"hi": prefixTight,
	"th": prefixTight,
	"he": prefixSpace,
	"ms": prefixTight,
	"tl": prefixTight,
	"ga": prefixTight,
	"cy": prefixTight,

	"nl":    prefixSpace,
	"pt-BR": prefixSpace,
	"de-CH": prefixSpace,
	"it-CH": prefixSpace,
	"es-MX": prefixTight,
	"es-US": prefixTight,

	"de": suffixSpace,
	"fr": suffixSpace,
	"es": suffixSpace,
	"it": suffixSpace,
	"pt": suffixSpace,
	"sv": suffixSpace,
	"no": suffixSpace,
	"nb": suffixSpace,
	"da": suffixSpace,
	"fi": suffixSpace,
	"pl": suffixSpace,
	"cs": suffixSpace,
	"sk": suffixSpace,
	"sl": suffixSpace,
	"hu": suffixSpace,
	"ro": suffixSpace,
	"bg": suffixSpace,
	"hr": suffixSpace,
	"lt": suffixSpace,
	"lv": suffixSpace,
	"et": suffixSpace,
	"ru": suffixSpace,
	"uk": suffixSpace,
	"sr": suffixSpace,
	"mk": suffixSpace,
	"sq": suffixSpace,
	"is": suffixSpace,
	"tr": prefixTight,
	"ar": suffixSpace,
	"vi": suffixSpace,
	"id": prefixTight,
}

// Region-specific symbols that differ from the catalog, keyed by currency
// then "lang-REGION". A currency shown in its home locale drops the
// disambiguating prefix.
var localSymbols = map[string]map[string]string{
	"CAD": {"en-CA": "$", "fr-CA": "$"},
	"AUD": {"en-AU": "$"},
	"NZD": {"en-NZ": "$"},
	"SGD": {"en-SG": "$"},
	"MXN": {"es-MX": "$"},
	"CHF": {"de-CH": "CHF", "fr-CH": "CHF", "it-CH": "CHF"},
	"JPY": {"ja-JP": "￥"},
	"CNY": {"zh-CN": "¥"},
	"KRW": {"ko-KR": "₩"},
}

// dateRule renders a calendar date. Pattern tokens: {day}, {month} (short
// name), {monthNum}, {year}.
type dateRule struct {
	pattern string
	months  [12]string
}

var (
	englishMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

	usDate      = dateRule{pattern: "{month} {day}, {year}", months: englishMonths}
	britishDate = dateRule{pattern: "{day} {month} {year}", months: englishMonths}
)

var dateRules = map[string]dateRule{
	"en":    usDate,
	"en-GB": britishDate,
	"en-IE": britishDate,
	"en-AU": britishDate,
	"en-NZ": britishDate,
	"en-IN": britishDate,
	"en-ZA": britishDate,
	"en-SG": britishDate,
	"en-HK": britishDate,
	"en-NG": britishDate,
	"en-KE": britishDate,
	"en-GH": britishDate,
	"de": {
		pattern: "{day}. {month} {year}",
		months:  [12]string{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
	},
	"fr": {
		pattern: "{day} {month} {year}",
		months:  [12]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
	},
	"es": {
		pattern: "{day} {month} {year}",
		months:  [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	},
	"it": {
		pattern: "{day} {month} {year}",
		months:  [12]string{"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	},
	"pt": {
		pattern: "{day} de {month} de {year}",
		months:  [12]string{"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez."},
	},
	"nl": {
		pattern: "{day} {month} {year}",
		months:  [12]string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"},
	},
	"ja": {pattern: "{year}年{monthNum}月{day}日"},
	"zh": {pattern: "{year}年{monthNum}月{day}日"},
	"ko": {pattern: "{year}년 {monthNum}월 {day}일"},
	"hi": {
		pattern: "{day} {month} {year}",
		months:  [12]string{"जन॰", "फ़र॰", "मार्च", "अप्रैल", "मई", "जून", "जुल॰", "अग॰", "सित॰", "अक्तू॰", "नव॰", "दिस॰"},
	},
	// Gregorian months; Western digits.
	"ar": {
		pattern: "{day} {month} {year}",
		months:  [12]string{"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"},
	},
}
