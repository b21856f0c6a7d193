package weather

// ConditionFromWMO maps a WMO weather interpretation code (as used by Open-Meteo)
// to a Condition.
func ConditionFromWMO(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 48:
		return ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionSnow
	case code >= 95:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}

// IconGlyph returns the day-strip glyph for a WMO code.
func IconGlyph(code int) string {
	switch code {
	case 1:
		return "🌤️"
	case 2:
		return "🌥️"
	}
	switch ConditionFromWMO(code) {
	case ConditionClear:
		return "☀️"
	case ConditionCloudy:
		return "☁️"
	case ConditionMist:
		return "🌫️"
	case ConditionRain:
		return "🌧️"
	case ConditionSnow:
		return "🌨️"
	case ConditionStorm:
		return "⛈️"
	default:
		return "🌥️"
	}
}

var summaries = map[Locale]map[Condition]string{
	LocaleUK: {
		ConditionUnknown: "Мінлива погода",
		ConditionClear:   "Ясно",
		ConditionCloudy:  "Хмарно",
		ConditionRain:    "Дощ",
		ConditionSnow:    "Сніг",
		ConditionStorm:   "Гроза",
		ConditionMist:    "Туман",
	},
	LocaleEN: {
		ConditionUnknown: "Changeable",
		ConditionClear:   "Clear",
		ConditionCloudy:  "Cloudy",
		ConditionRain:    "Rain",
		ConditionSnow:    "Snow",
		ConditionStorm:   "Thunderstorm",
		ConditionMist:    "Fog",
	},
}

// Summary returns the localized one-word description of a condition.
func Summary(cond Condition, locale Locale) string {
	table, ok := summaries[locale]
	if !ok {
		table = summaries[LocaleUK]
	}
	if s, ok := table[cond]; ok {
		return s
	}
	return table[ConditionUnknown]
}
