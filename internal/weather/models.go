package weather

import (
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location represents a logical place for which we build a dashboard.
// Name must be provided; coordinates may be resolved later by a geocoder.
type Location struct {
	Name    string  `json:"name" validate:"required"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Name))
}

// HasCoordinates reports whether the location carries a usable lat/lon pair.
func (l Location) HasCoordinates() bool {
	return l.Lat != 0 || l.Lon != 0
}

// Current is the current-conditions record of a forecast payload.
type Current struct {
	Time         string // local ISO timestamp, "2006-01-02T15:04"
	TemperatureC float64
	WindSpeedKmh float64
	WeatherCode  int
}

// HourlySeries is a time-ordered hourly series. All slices share the length of Time.
type HourlySeries struct {
	Time                        []string
	TemperatureC                []float64
	HumidityPct                 []float64
	WindSpeedKmh                []float64
	PrecipitationProbabilityPct []float64
}

// Len returns the number of hours in the series.
func (h HourlySeries) Len() int { return len(h.Time) }

// DailySeries is a date-ordered daily series. All slices share the length of Time.
type DailySeries struct {
	Time        []string // "2006-01-02"
	MaxC        []float64
	MinC        []float64
	WeatherCode []int
}

// Source is a validated forecast payload as returned by a Provider.
// Warnings lists every field that was missing upstream and replaced by its default.
type Source struct {
	Location Location
	Timezone string
	Current  Current
	Hourly   HourlySeries
	Daily    DailySeries
	Warnings []string
}

// HourlyPoint is one hour of the displayed forecast horizon.
type HourlyPoint struct {
	Time                        string  `json:"time"` // "HH:MM"
	TemperatureC                float64 `json:"temperatureC"`
	PrecipitationProbabilityPct float64 `json:"precipitationPct"`
	WindSpeedKmh                float64 `json:"windKmh"`
}

// DayPoint is one cell of the day strip.
type DayPoint struct {
	WeekdayLabel string  `json:"weekday"`
	IconGlyph    string  `json:"icon"`
	HighC        float64 `json:"highC"`
	LowC         float64 `json:"lowC"`
	IsToday      bool    `json:"isToday"`
}

// NowSnapshot holds the numeric readouts for the current hour.
type NowSnapshot struct {
	TemperatureC                float64 `json:"temperatureC"`
	PrecipitationProbabilityPct float64 `json:"precipitationPct"`
	HumidityPct                 float64 `json:"humidityPct"`
	WindSpeedKmh                float64 `json:"windKmh"`
	Summary                     string  `json:"summary"`
	LocationLabel               string  `json:"location"`
	WeekdayLabel                string  `json:"weekday"`
}

// Dataset is the unit of atomic replacement: everything a render needs,
// built completely before it is committed.
type Dataset struct {
	ID        string        `json:"id"`
	Location  Location      `json:"location"`
	Strategy  string        `json:"strategy"`
	StartedAt time.Time     `json:"startedAt"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Now       NowSnapshot   `json:"now"`
	Hours     []HourlyPoint `json:"hours"`
	Days      []DayPoint    `json:"days"`
	Warnings  []string      `json:"warnings,omitempty"`
}
