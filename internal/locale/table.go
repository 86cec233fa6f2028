package locale

// currencyByTag maps a full language-region tag to its local currency.
// Lookup is by the whole tag; "fr" alone does not match "fr-FR".
var currencyByTag = map[string]string{
	"en-US": "USD",
	"en-GB": "GBP",
	"en-CA": "CAD",
	"en-AU": "AUD",
	"en-NZ": "NZD",
	"en-SG": "SGD",
	"en-HK": "HKD",
	"en-IN": "INR",
	"en-ZA": "ZAR",
	"en-NG": "NGN",
	"en-KE": "KES",
	"en-GH": "GHS",

	"de-DE": "EUR",
	"de-AT": "EUR",
	"de-CH": "CHF",
	"fr-FR": "EUR",
	"fr-CA": "CAD",
	"fr-CH": "CHF",
	"es-ES": "EUR",
	"es-MX": "MXN",
	"es-AR": "USD",
	"it-IT": "EUR",
	"pt-BR": "BRL",
	"pt-PT": "EUR",
	"nl-NL": "EUR",
	"nl-BE": "EUR",

	"ja-JP": "JPY",
	"zh-CN": "CNY",
	"zh-HK": "HKD",
	"zh-TW": "TWD",
	"ko-KR": "KRW",
	"hi-IN": "INR",

	"sv-SE": "SEK",
	"no-NO": "NOK",
	"da-DK": "DKK",
	"fi-FI": "EUR",
	"pl-PL": "PLN",
	"cs-CZ": "CZK",
	"hu-HU": "HUF",
	"ro-RO": "RON",
	"bg-BG": "BGN",
	"hr-HR": "EUR",
	"sk-SK": "EUR",
	"sl-SI": "EUR",
	"lt-LT": "EUR",
	"lv-LV": "EUR",
	"et-EE": "EUR",
	"mt-MT": "EUR",
	"cy-GB": "GBP",
	"ga-IE": "EUR",
	"is-IS": "ISK",
	"mk-MK": "MKD",
	"sq-AL": "ALL",
	"sr-RS": "RSD",
	"uk-UA": "UAH",
	"ru-RU": "RUB",
	"tr-TR": "TRY",

	"ar-SA": "SAR",
	"he-IL": "ILS",
	"th-TH": "THB",
	"vi-VN": "VND",
	"id-ID": "IDR",
	"ms-MY": "MYR",
	"tl-PH": "PHP",
}
