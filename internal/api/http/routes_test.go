package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var kryvyiRih = weather.Location{Name: "Kryvyi Rih", Lat: 47.9105, Lon: 33.3918}

type stubProvider struct {
	err error
}

func (stubProvider) Name() string { return "stub" }

func (p stubProvider) FetchForecast(_ context.Context, loc weather.Location) (weather.Source, error) {
	if p.err != nil {
		return weather.Source{}, p.err
	}
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	src := weather.Source{
		Location: loc,
		Current:  weather.Current{Time: "2025-01-06T12:00", TemperatureC: 3, WindSpeedKmh: 8, WeatherCode: 3},
	}
	for i := 0; i < 48; i++ {
		src.Hourly.Time = append(src.Hourly.Time, start.Add(time.Duration(i)*time.Hour).Format("2006-01-02T15:04"))
		src.Hourly.TemperatureC = append(src.Hourly.TemperatureC, float64(i%12))
		src.Hourly.HumidityPct = append(src.Hourly.HumidityPct, 80)
		src.Hourly.WindSpeedKmh = append(src.Hourly.WindSpeedKmh, 7)
		src.Hourly.PrecipitationProbabilityPct = append(src.Hourly.PrecipitationProbabilityPct, 20)
	}
	for i := 0; i < 8; i++ {
		src.Daily.Time = append(src.Daily.Time, start.AddDate(0, 0, i).Format("2006-01-02"))
		src.Daily.MaxC = append(src.Daily.MaxC, 4)
		src.Daily.MinC = append(src.Daily.MinC, -1)
		src.Daily.WeatherCode = append(src.Daily.WeatherCode, 2)
	}
	return src, nil
}

func newTestApp(t *testing.T, p weather.Provider) (*fiber.App, *weather.Service) {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})
	svc := weather.NewService(store.NewMemoryStore(10, time.Hour), p, weather.NewDirectStrategy(24), weather.LocaleUK)
	RegisterRoutes(app, svc, Options{Locations: []weather.Location{kryvyiRih}, RefreshTimeout: time.Second})
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestDashboardBeforeRefresh(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	resp := do(t, app, http.MethodGet, "/api/v1/dashboard")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestDashboardQueryValidation(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	for _, target := range []string{
		"/api/v1/dashboard?unit=K",
		"/api/v1/dashboard?tab=pressure",
		"/api/v1/chart.svg?tab=humidity",
	} {
		resp := do(t, app, http.MethodGet, target)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}

	resp := do(t, app, http.MethodGet, "/api/v1/dashboard?location=Atlantis")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown location, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestRefreshAndRender(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	resp := do(t, app, http.MethodPost, "/api/v1/refresh?location=kryvyi%20rih")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var status weather.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.State != weather.StateOK || status.DatasetID == "" {
		t.Fatalf("unexpected status: %+v", status)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/dashboard?unit=f&tab=wind")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var view chart.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.DatasetID != status.DatasetID || view.State.Unit != chart.Fahrenheit || view.State.Tab != chart.TabWind {
		t.Fatalf("unexpected view header: %+v", view)
	}
	if len(view.Series) != 24 || view.Series[0] != 7 {
		t.Fatalf("expected 24 wind values, got %v", view.Series)
	}
	if view.Now.Temperature != 37 || len(view.Days) != 8 || !view.Days[0].IsToday {
		t.Fatalf("unexpected readouts: now=%+v days=%d", view.Now, len(view.Days))
	}

	resp = do(t, app, http.MethodGet, "/api/v1/chart.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("expected svg content type, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Count(string(body), `class="dot"`) != 24 {
		t.Fatalf("expected 24 markers in %s", body)
	}
}

func TestRefreshFailure(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{err: fmt.Errorf("%w: timeout", weather.ErrSourceUnavailable)})

	resp := do(t, app, http.MethodPost, "/api/v1/refresh")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, resp.StatusCode)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/status")
	var body struct {
		Location string         `json:"location"`
		Strategy string         `json:"strategy"`
		Status   weather.Status `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if body.Status.State != weather.StateError || body.Status.Kind != "source_unavailable" || body.Strategy != "direct" {
		t.Fatalf("unexpected status: %+v", body)
	}
}

// TestRevisionsValidation verifies that the revisions endpoint requires an
// ordered from/to range.
func TestRevisionsValidation(t *testing.T) {
	app, _ := newTestApp(t, stubProvider{})

	// Missing range should return 400.
	resp := do(t, app, http.MethodGet, "/api/v1/revisions")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// to before from should also return 400.
	resp = do(t, app, http.MethodGet, "/api/v1/revisions?from=1736164800&to=1736161200")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestRevisions(t *testing.T) {
	app, svc := newTestApp(t, stubProvider{})

	for i := 0; i < 2; i++ {
		if _, err := svc.Refresh(context.Background(), kryvyiRih); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	q := url.Values{}
	q.Set("from", time.Now().Add(-time.Hour).UTC().Format(time.RFC3339))
	q.Set("to", time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
	resp := do(t, app, http.MethodGet, "/api/v1/revisions?"+q.Encode())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Revisions []revision `json:"revisions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode revisions: %v", err)
	}
	if len(body.Revisions) != 2 || body.Revisions[0].ID == body.Revisions[1].ID {
		t.Fatalf("expected two distinct revisions, got %+v", body.Revisions)
	}
}
