package chart

import "github.com/i474232898/weather-dashboard/internal/weather"

// ActiveSeries returns one value per forecast hour for the selected tab,
// in the selected unit. An empty dataset yields an empty series.
func ActiveSeries(ds weather.Dataset, st DisplayState) []float64 {
	out := make([]float64, 0, len(ds.Hours))
	for _, h := range ds.Hours {
		switch st.Tab {
		case TabPrecipitation:
			out = append(out, h.PrecipitationProbabilityPct)
		case TabWind:
			out = append(out, h.WindSpeedKmh)
		default:
			out = append(out, temperature(h.TemperatureC, st.Unit))
		}
	}
	return out
}

func temperature(c float64, u Unit) float64 {
	if u == Fahrenheit {
		return float64(weather.CToF(c))
	}
	return c
}
