package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoOptions configures the Open-Meteo provider.
type OpenMeteoOptions struct {
	BaseURL string
	// PastDays of hourly history to request; the model input window needs them.
	PastDays     int
	ForecastDays int
	// RequestsPerSecond limits outbound calls; 0 disables limiting.
	RequestsPerSecond float64
}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	pastDays     int
	forecastDays int
	httpCfg      common.HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, opts OpenMeteoOptions) *OpenMeteoProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOpenMeteoURL
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = weather.MaxDays
	}

	return &OpenMeteoProvider{
		name:         "openmeteo",
		baseURL:      opts.BaseURL,
		pastDays:     opts.PastDays,
		forecastDays: opts.ForecastDays,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Limiter: common.NewLimiter(opts.RequestsPerSecond),
		},
		circuit: common.NewCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time        string   `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time        []string   `json:"time"`
		Temperature []*float64 `json:"temperature_2m"`
		Humidity    []*float64 `json:"relative_humidity_2m"`
		WindSpeed   []*float64 `json:"wind_speed_10m"`
		PrecipProb  []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
	Daily struct {
		Time        []string   `json:"time"`
		MaxTemp     []*float64 `json:"temperature_2m_max"`
		MinTemp     []*float64 `json:"temperature_2m_min"`
		WeatherCode []*int     `json:"weather_code"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.Source, error) {
	if !loc.HasCoordinates() {
		return weather.Source{}, fmt.Errorf("%w: openmeteo requires latitude and longitude for %q", weather.ErrSourceUnavailable, loc.Name)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', 4, 64))
		values.Set("current", "temperature_2m,wind_speed_10m,weather_code")
		values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,precipitation_probability")
		values.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code")
		values.Set("wind_speed_unit", "kmh")
		values.Set("timezone", "auto")
		values.Set("forecast_days", strconv.Itoa(p.forecastDays))
		if p.pastDays > 0 {
			values.Set("past_days", strconv.Itoa(p.pastDays))
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Source{}, fmt.Errorf("%w: openmeteo: %v", weather.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Source{}, fmt.Errorf("%w: openmeteo: %v", weather.ErrMalformedResponse, err)
	}

	return normalizeOpenMeteo(loc, payload)
}

func normalizeOpenMeteo(loc weather.Location, payload openMeteoResponse) (weather.Source, error) {
	var d defaults

	if payload.Current.Time == "" {
		return weather.Source{}, fmt.Errorf("%w: current.time is missing", weather.ErrMalformedResponse)
	}
	if err := checkTimes("hourly.time", hourLayout, payload.Hourly.Time); err != nil {
		return weather.Source{}, err
	}
	if err := checkTimes("daily.time", dateLayout, payload.Daily.Time); err != nil {
		return weather.Source{}, err
	}

	src := weather.Source{
		Location: loc,
		Timezone: payload.Timezone,
		Current: weather.Current{
			Time:         payload.Current.Time,
			TemperatureC: d.scalar("current.temperature_2m", payload.Current.Temperature),
			WindSpeedKmh: d.scalar("current.wind_speed_10m", payload.Current.WindSpeed),
		},
	}
	if payload.Current.WeatherCode != nil {
		src.Current.WeatherCode = *payload.Current.WeatherCode
	} else {
		src.Current.WeatherCode = unknownCode
		d.warnings = append(d.warnings, "current.weather_code missing; condition unknown")
	}

	n := len(payload.Hourly.Time)
	h := weather.HourlySeries{Time: payload.Hourly.Time}
	var err error
	if h.TemperatureC, err = d.series("hourly.temperature_2m", n, payload.Hourly.Temperature); err != nil {
		return weather.Source{}, err
	}
	if h.HumidityPct, err = d.series("hourly.relative_humidity_2m", n, payload.Hourly.Humidity); err != nil {
		return weather.Source{}, err
	}
	if h.WindSpeedKmh, err = d.series("hourly.wind_speed_10m", n, payload.Hourly.WindSpeed); err != nil {
		return weather.Source{}, err
	}
	if h.PrecipitationProbabilityPct, err = d.series("hourly.precipitation_probability", n, payload.Hourly.PrecipProb); err != nil {
		return weather.Source{}, err
	}
	src.Hourly = h

	m := len(payload.Daily.Time)
	day := weather.DailySeries{Time: payload.Daily.Time}
	if day.MaxC, err = d.series("daily.temperature_2m_max", m, payload.Daily.MaxTemp); err != nil {
		return weather.Source{}, err
	}
	if day.MinC, err = d.series("daily.temperature_2m_min", m, payload.Daily.MinTemp); err != nil {
		return weather.Source{}, err
	}
	if day.WeatherCode, err = d.codes("daily.weather_code", m, payload.Daily.WeatherCode); err != nil {
		return weather.Source{}, err
	}
	src.Daily = day

	src.Warnings = d.warnings
	return src, nil
}

var _ weather.Provider = (*OpenMeteoProvider)(nil)
