package weather

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the weekday and summary tables.
type Locale string

const (
	LocaleUK Locale = "uk"
	LocaleEN Locale = "en"
)

const (
	hourLayout    = "2006-01-02T15:04"
	dateLayout    = "2006-01-02"
	hourPrefixLen = len("2006-01-02T15")
)

// Indexed by time.Weekday (Sunday first).
var weekdayNames = map[Locale][7]string{
	LocaleUK: {"неділя", "понеділок", "вівторок", "середа", "четвер", "п'ятниця", "субота"},
	LocaleEN: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

var shortWeekdayNames = map[Locale][7]string{
	LocaleUK: {"НД", "ПН", "ВТ", "СР", "ЧТ", "ПТ", "СБ"},
	LocaleEN: {"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
}

// ParseLocale validates a locale tag. An empty tag selects LocaleUK.
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LocaleUK, nil
	case LocaleUK, LocaleEN:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported locale %q", s)
	}
}

// FormatHourMinute returns the "HH:MM" part of an ISO timestamp,
// or "" when the timestamp has no date/time separator.
func FormatHourMinute(iso string) string {
	i := strings.IndexByte(iso, 'T')
	if i < 0 {
		return ""
	}
	rest := iso[i+1:]
	if len(rest) > 5 {
		rest = rest[:5]
	}
	return rest
}

// WeekdayName returns the full localized weekday name, or "" for an out-of-range day.
func WeekdayName(day time.Weekday, locale Locale) string {
	if day < time.Sunday || day > time.Saturday {
		return ""
	}
	return tableFor(weekdayNames, locale)[day]
}

// ShortWeekdayName returns the two-letter weekday of an ISO date ("2006-01-02..."),
// or "" when the date cannot be parsed.
func ShortWeekdayName(isoDate string, locale Locale) string {
	d, ok := parseDate(isoDate)
	if !ok {
		return ""
	}
	return tableFor(shortWeekdayNames, locale)[d.Weekday()]
}

// FindClosestHourIndex returns the index of the first hourly timestamp that falls in
// the same hour as current. It returns 0 when no entry matches, so callers must not
// assume index 0 is the current hour.
func FindClosestHourIndex(hourly []string, current string) int {
	key := hourPrefix(current)
	for i, ts := range hourly {
		if hourPrefix(ts) == key {
			return i
		}
	}
	return 0
}

func hourPrefix(ts string) string {
	if len(ts) > hourPrefixLen {
		return ts[:hourPrefixLen]
	}
	return ts
}

func parseDate(iso string) (time.Time, bool) {
	if len(iso) < len(dateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, iso[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func tableFor(tables map[Locale][7]string, locale Locale) [7]string {
	if t, ok := tables[locale]; ok {
		return t
	}
	return tables[LocaleUK]
}
