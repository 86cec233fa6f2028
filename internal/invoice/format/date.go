package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// FormatDate renders an ISO date as a localized short date, e.g.
// "2024-01-15" in en-US is "Jan 15, 2024".
//
// Empty input yields "". Input that does not parse, or a language tag that
// does not parse, yields the input unchanged.
func FormatDate(dateString string, languageTag string) string {
	if dateString == "" {
		return ""
	}
	t, ok := parseDate(dateString)
	if !ok {
		return dateString
	}
	tag, err := parseTag(languageTag)
	if err != nil {
		return dateString
	}
	return renderDate(t, dateRuleFor(tag))
}

// parseDate keeps the calendar day as written; a date-only value is never
// shifted by a time zone.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateRuleFor(tag language.Tag) dateRule {
	if r, ok := dateRules[regionKey(tag)]; ok {
		return r
	}
	base, _ := tag.Base()
	if r, ok := dateRules[base.String()]; ok {
		return r
	}
	return usDate
}

func renderDate(t time.Time, rule dateRule) string {
	month := rule.months[t.Month()-1]
	if month == "" {
		month = strconv.Itoa(int(t.Month()))
	}
	r := strings.NewReplacer(
		"{day}", strconv.Itoa(t.Day()),
		"{monthNum}", strconv.Itoa(int(t.Month())),
		"{month}", month,
		"{year}", strconv.Itoa(t.Year()),
	)
	return r.Replace(rule.pattern)
}
