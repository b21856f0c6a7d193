package weather

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnknownFeature is returned when a model expects a feature we cannot extract.
var ErrUnknownFeature = errors.New("unknown model feature")

// featureFunc extracts one raw model feature for hour i of a series.
type featureFunc func(h HourlySeries, i int) float64

// Feature names match the columns of the training dataset.
var featureExtractors = map[string]featureFunc{
	"temp_c":      func(h HourlySeries, i int) float64 { return h.TemperatureC[i] },
	"humidity":    func(h HourlySeries, i int) float64 { return h.HumidityPct[i] },
	"wind_kmh":    func(h HourlySeries, i int) float64 { return h.WindSpeedKmh[i] },
	"precip_prob": func(h HourlySeries, i int) float64 { return h.PrecipitationProbabilityPct[i] },
	"hour_sin":    func(h HourlySeries, i int) float64 { return math.Sin(2 * math.Pi * float64(hourOf(h.Time[i])) / 24) },
	"hour_cos":    func(h HourlySeries, i int) float64 { return math.Cos(2 * math.Pi * float64(hourOf(h.Time[i])) / 24) },
	"dow_sin":     func(h HourlySeries, i int) float64 { return math.Sin(2 * math.Pi * float64(mondayDOW(h.Time[i])) / 7) },
	"dow_cos":     func(h HourlySeries, i int) float64 { return math.Cos(2 * math.Pi * float64(mondayDOW(h.Time[i])) / 7) },
}

// resolveFeatures returns the extractors for names, in order.
func resolveFeatures(names []string) ([]featureFunc, error) {
	out := make([]featureFunc, 0, len(names))
	for _, name := range names {
		fn, ok := featureExtractors[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
		}
		out = append(out, fn)
	}
	return out, nil
}

// Window timestamps are parsed by ModelAssistedStrategy.predict before extraction.
func hourOf(ts string) int {
	t, _ := time.Parse(hourLayout, ts)
	return t.Hour()
}

// mondayDOW returns the day of week with Monday = 0 ... Sunday = 6.
func mondayDOW(ts string) int {
	t, _ := time.Parse(hourLayout, ts)
	return (int(t.Weekday()) + 6) % 7
}
