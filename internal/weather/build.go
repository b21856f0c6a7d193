package weather

import (
	"context"
	"fmt"
)

// MaxDays is the length of the day strip.
const MaxDays = 8

// BuildDataset locates the current hour in src, runs the strategy over it and
// derives the readouts and the day strip. The returned dataset has no ID and no
// timestamps; the service stamps those when it commits.
func BuildDataset(ctx context.Context, src Source, strategy ForecastStrategy, locale Locale) (Dataset, error) {
	warnings := append([]string(nil), src.Warnings...)

	idxNow := FindClosestHourIndex(src.Hourly.Time, src.Current.Time)
	if src.Hourly.Len() > 0 && hourPrefix(src.Hourly.Time[idxNow]) != hourPrefix(src.Current.Time) {
		warnings = append(warnings, fmt.Sprintf("current hour %q not found in hourly series; using first hour", src.Current.Time))
	}

	hf, err := strategy.Forecast(ctx, src, idxNow)
	if err != nil {
		return Dataset{}, err
	}
	warnings = append(warnings, hf.Warnings...)

	return Dataset{
		Location: src.Location,
		Strategy: hf.Strategy,
		Now:      buildNow(src, idxNow, locale),
		Hours:    hf.Hours,
		Days:     buildDays(src, locale),
		Warnings: warnings,
	}, nil
}

func buildNow(src Source, idxNow int, locale Locale) NowSnapshot {
	now := NowSnapshot{
		TemperatureC:  src.Current.TemperatureC,
		WindSpeedKmh:  src.Current.WindSpeedKmh,
		Summary:       Summary(ConditionFromWMO(src.Current.WeatherCode), locale),
		LocationLabel: src.Location.Name,
	}
	if idxNow < src.Hourly.Len() {
		now.HumidityPct = src.Hourly.HumidityPct[idxNow]
		now.PrecipitationProbabilityPct = src.Hourly.PrecipitationProbabilityPct[idxNow]
	}
	if d, ok := parseDate(src.Current.Time); ok {
		now.WeekdayLabel = WeekdayName(d.Weekday(), locale)
	}
	return now
}

// buildDays returns up to MaxDays entries starting at today's date. Past days
// requested for model history are skipped; when today is absent the strip starts
// at the first entry.
func buildDays(src Source, locale Locale) []DayPoint {
	d := src.Daily
	start := 0
	if len(src.Current.Time) >= len(dateLayout) {
		today := src.Current.Time[:len(dateLayout)]
		for i, date := range d.Time {
			if date == today {
				start = i
				break
			}
		}
	}

	end := min(len(d.Time), start+MaxDays)
	days := make([]DayPoint, 0, end-start)
	for i := start; i < end; i++ {
		days = append(days, DayPoint{
			WeekdayLabel: ShortWeekdayName(d.Time[i], locale),
			IconGlyph:    IconGlyph(d.WeatherCode[i]),
			HighC:        d.MaxC[i],
			LowC:         d.MinC[i],
			IsToday:      i == start,
		})
	}
	return days
}
