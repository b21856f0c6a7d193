package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const weatherAPIBody = `{
  "current": {"last_updated": "2025-01-06 12:15", "temp_c": 3.0, "wind_kph": 7.2, "condition": {"text": "Overcast"}},
  "forecast": {"forecastday": [
    {"date": "2025-01-06",
     "day": {"maxtemp_c": 3.4, "mintemp_c": -1.0, "condition": {"text": "Patchy rain possible"}},
     "hour": [
       {"time": "2025-01-06 11:00", "temp_c": 2.5, "humidity": 88, "wind_kph": 7, "chance_of_rain": 20},
       {"time": "2025-01-06 12:00", "temp_c": 3.0, "humidity": null, "wind_kph": 8, "chance_of_rain": 25}
     ]}
  ]}
}`

func TestWeatherAPIFetchForecast(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(weatherAPIBody))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "test-key", 3, 0)
	p.baseURL = srv.URL

	src, err := p.FetchForecast(context.Background(), weather.Location{Name: "Paris", Country: "FR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "Paris,FR" {
		t.Fatalf("expected q=Paris,FR, got %q", gotQuery)
	}

	if src.Current.Time != "2025-01-06T12:15" || src.Current.WeatherCode != 3 {
		t.Fatalf("unexpected current block: %+v", src.Current)
	}
	if src.Hourly.Len() != 2 || src.Hourly.Time[1] != "2025-01-06T12:00" {
		t.Fatalf("unexpected hourly series: %+v", src.Hourly)
	}
	if src.Daily.WeatherCode[0] != 61 {
		t.Fatalf("expected rain code for the day, got %d", src.Daily.WeatherCode[0])
	}
	if len(src.Warnings) != 1 {
		t.Fatalf("expected one defaulted-field warning, got %v", src.Warnings)
	}
}

func TestWeatherAPIRequiresKey(t *testing.T) {
	p := NewWeatherAPIProvider(http.DefaultClient, "", 3, 0)
	if _, err := p.FetchForecast(context.Background(), kryvyiRih); !errors.Is(err, weather.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestMapWeatherAPICondition(t *testing.T) {
	cases := map[string]weather.Condition{
		"Sunny":                     weather.ConditionClear,
		"Partly cloudy":             weather.ConditionCloudy,
		"Light drizzle":             weather.ConditionRain,
		"Moderate snow":             weather.ConditionSnow,
		"Thundery outbreaks nearby": weather.ConditionStorm,
		"Freezing fog":              weather.ConditionMist,
		"":                          weather.ConditionUnknown,
	}
	for text, want := range cases {
		if got := mapWeatherAPICondition(text); got != want {
			t.Errorf("mapWeatherAPICondition(%q) = %s, want %s", text, got, want)
		}
	}
}
