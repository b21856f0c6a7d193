package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// The free plan serves three forecast days and no history, so it only suits the
// direct strategy.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	days    int
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, days int, rps float64) *WeatherAPIProvider {
	if days <= 0 {
		days = 3
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		days:    days,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Limiter: common.NewLimiter(rps),
		},
		circuit: common.NewCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIResponse struct {
	Current struct {
		LastUpdated string   `json:"last_updated"`
		TempC       *float64 `json:"temp_c"`
		WindKph     *float64 `json:"wind_kph"`
		Condition   struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC  *float64 `json:"maxtemp_c"`
				MinTempC  *float64 `json:"mintemp_c"`
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
			Hour []struct {
				Time         string   `json:"time"`
				TempC        *float64 `json:"temp_c"`
				Humidity     *float64 `json:"humidity"`
				WindKph      *float64 `json:"wind_kph"`
				ChanceOfRain *float64 `json:"chance_of_rain"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.Source, error) {
	if p.apiKey == "" {
		return weather.Source{}, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrSourceUnavailable)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("days", strconv.Itoa(p.days))
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		if loc.HasCoordinates() {
			values.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))
		} else {
			q := loc.Name
			if loc.Country != "" {
				q = fmt.Sprintf("%s,%s", loc.Name, loc.Country)
			}
			values.Set("q", q)
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Source{}, fmt.Errorf("%w: weatherapi: %v", weather.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	var payload weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Source{}, fmt.Errorf("%w: weatherapi: %v", weather.ErrMalformedResponse, err)
	}

	return normalizeWeatherAPI(loc, payload)
}

func normalizeWeatherAPI(loc weather.Location, payload weatherAPIResponse) (weather.Source, error) {
	var d defaults

	if payload.Current.LastUpdated == "" {
		return weather.Source{}, fmt.Errorf("%w: current.last_updated is missing", weather.ErrMalformedResponse)
	}

	src := weather.Source{
		Location: loc,
		Current: weather.Current{
			Time:         isoTime(payload.Current.LastUpdated),
			TemperatureC: d.scalar("current.temp_c", payload.Current.TempC),
			WindSpeedKmh: d.scalar("current.wind_kph", payload.Current.WindKph),
			WeatherCode:  wmoCode(mapWeatherAPICondition(payload.Current.Condition.Text)),
		},
	}

	var (
		hourly                      weather.HourlySeries
		temps, hums, winds, precips []*float64
		maxes, mins                 []*float64
	)
	for _, fd := range payload.Forecast.ForecastDay {
		src.Daily.Time = append(src.Daily.Time, fd.Date)
		src.Daily.WeatherCode = append(src.Daily.WeatherCode, wmoCode(mapWeatherAPICondition(fd.Day.Condition.Text)))
		maxes = append(maxes, fd.Day.MaxTempC)
		mins = append(mins, fd.Day.MinTempC)

		for _, h := range fd.Hour {
			hourly.Time = append(hourly.Time, isoTime(h.Time))
			temps = append(temps, h.TempC)
			hums = append(hums, h.Humidity)
			winds = append(winds, h.WindKph)
			precips = append(precips, h.ChanceOfRain)
		}
	}

	if err := checkTimes("hour.time", hourLayout, hourly.Time); err != nil {
		return weather.Source{}, err
	}
	if err := checkTimes("forecastday.date", dateLayout, src.Daily.Time); err != nil {
		return weather.Source{}, err
	}

	n := len(hourly.Time)
	var err error
	if hourly.TemperatureC, err = d.series("hour.temp_c", n, temps); err != nil {
		return weather.Source{}, err
	}
	if hourly.HumidityPct, err = d.series("hour.humidity", n, hums); err != nil {
		return weather.Source{}, err
	}
	if hourly.WindSpeedKmh, err = d.series("hour.wind_kph", n, winds); err != nil {
		return weather.Source{}, err
	}
	if hourly.PrecipitationProbabilityPct, err = d.series("hour.chance_of_rain", n, precips); err != nil {
		return weather.Source{}, err
	}
	src.Hourly = hourly

	m := len(src.Daily.Time)
	if src.Daily.MaxC, err = d.series("day.maxtemp_c", m, maxes); err != nil {
		return weather.Source{}, err
	}
	if src.Daily.MinC, err = d.series("day.mintemp_c", m, mins); err != nil {
		return weather.Source{}, err
	}

	src.Warnings = d.warnings
	return src, nil
}

// isoTime turns WeatherAPI's "2006-01-02 15:04" into "2006-01-02T15:04".
func isoTime(s string) string {
	return strings.Replace(strings.TrimSpace(s), " ", "T", 1)
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case contains(text, "thunder") || contains(text, "storm"):
		return weather.ConditionStorm
	case contains(text, "snow") || contains(text, "sleet") || contains(text, "blizzard"):
		return weather.ConditionSnow
	case contains(text, "rain") || contains(text, "shower") || contains(text, "drizzle"):
		return weather.ConditionRain
	case contains(text, "fog") || contains(text, "mist"):
		return weather.ConditionMist
	case contains(text, "cloud") || contains(text, "overcast"):
		return weather.ConditionCloudy
	case contains(text, "sunny") || contains(text, "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}

// wmoCode returns a representative WMO code for a condition, so WeatherAPI
// days share the Open-Meteo glyph table.
func wmoCode(cond weather.Condition) int {
	switch cond {
	case weather.ConditionClear:
		return 0
	case weather.ConditionCloudy:
		return 3
	case weather.ConditionMist:
		return 45
	case weather.ConditionRain:
		return 61
	case weather.ConditionSnow:
		return 71
	case weather.ConditionStorm:
		return 95
	default:
		return unknownCode
	}
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

var _ weather.Provider = (*WeatherAPIProvider)(nil)
