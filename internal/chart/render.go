package chart

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// NowView is the current-hour readout in the selected unit.
type NowView struct {
	Temperature      int    `json:"temperature"`
	PrecipitationPct int    `json:"precipitationPct"`
	HumidityPct      int    `json:"humidityPct"`
	WindKmh          int    `json:"windKmh"`
	Summary          string `json:"summary"`
	Weekday          string `json:"weekday"`
	Location         string `json:"location"`
}

// DayView is one day strip cell in the selected unit.
type DayView struct {
	Weekday string `json:"weekday"`
	Icon    string `json:"icon"`
	High    int    `json:"high"`
	Low     int    `json:"low"`
	IsToday bool   `json:"isToday"`
}

// View is everything the dashboard draws for one dataset and display state.
type View struct {
	DatasetID  string       `json:"datasetId"`
	Location   string       `json:"location"`
	Strategy   string       `json:"strategy"`
	FetchedAt  time.Time    `json:"fetchedAt"`
	State      DisplayState `json:"state"`
	Now        NowView      `json:"now"`
	Days       []DayView    `json:"days"`
	XLabels    []string     `json:"xLabels"`
	Series     []float64    `json:"series"`
	Geometry   Geometry     `json:"geometry"`
	Ticks      []int        `json:"ticks"`
	TickLabels []string     `json:"tickLabels"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// Render derives the view of ds under st. It has no side effects.
func Render(ds weather.Dataset, st DisplayState) View {
	series := ActiveSeries(ds, st)
	ticks := AxisTicks(series)

	labels := make([]string, len(ds.Hours))
	for i, h := range ds.Hours {
		labels[i] = h.Time
	}

	days := make([]DayView, len(ds.Days))
	for i, d := range ds.Days {
		days[i] = DayView{
			Weekday: d.WeekdayLabel,
			Icon:    d.IconGlyph,
			High:    displayTemp(d.HighC, st.Unit),
			Low:     displayTemp(d.LowC, st.Unit),
			IsToday: d.IsToday,
		}
	}

	return View{
		DatasetID: ds.ID,
		Location:  ds.Location.Name,
		Strategy:  ds.Strategy,
		FetchedAt: ds.FetchedAt,
		State:     st,
		Now: NowView{
			Temperature:      displayTemp(ds.Now.TemperatureC, st.Unit),
			PrecipitationPct: round(ds.Now.PrecipitationProbabilityPct),
			HumidityPct:      round(ds.Now.HumidityPct),
			WindKmh:          round(ds.Now.WindSpeedKmh),
			Summary:          ds.Now.Summary,
			Weekday:          ds.Now.WeekdayLabel,
			Location:         ds.Now.LocationLabel,
		},
		Days:       days,
		XLabels:    labels,
		Series:     series,
		Geometry:   Sparkline(series, DefaultDims),
		Ticks:      ticks,
		TickLabels: TickLabels(ticks, st.Tab),
		Warnings:   ds.Warnings,
	}
}

func displayTemp(c float64, u Unit) int {
	if u == Fahrenheit {
		return weather.CToF(c)
	}
	return round(c)
}
