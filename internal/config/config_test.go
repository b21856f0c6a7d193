package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// isolate points CONFIG_FILE at a fresh directory and clears the variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		"PORT", "HTTP_TIMEOUT", "REFRESH_INTERVAL", "REFRESH_TIMEOUT", "LOCALE",
		"WEATHER_PROVIDER", "WEATHERAPI_API_KEY", "OPEN_METEO_URL", "PAST_DAYS", "PROVIDER_RPS",
		"SCALER_PATH", "MODEL_URL", "MODEL_NAME",
		"LOCATION_NAMES", "LOCATION_COUNTRIES", "LOCATION_LATS", "LOCATION_LONS", "GEOCODER_API_KEY",
		"STORE_MAX_HISTORY", "STORE_MAX_AGE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "dashboard.yaml"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.RefreshInterval != 15*time.Minute || cfg.Locale != weather.LocaleUK {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Provider != "openmeteo" || cfg.PastDays != 2 || cfg.ScalerPath != "web/scaler.json" {
		t.Fatalf("unexpected data source defaults: %+v", cfg)
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0].Lat != 47.9105 || cfg.Locations[0].Lon != 33.3918 {
		t.Fatalf("unexpected default location: %+v", cfg.Locations)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)

	yaml := `
port: "9090"
refresh_interval: 5m
locale: en
past_days: 3
locations:
  - name: Kyiv
    lat: 50.45
    lon: 30.52
  - name: Lviv
    lat: 49.84
    lon: 24.03
`
	if err := os.WriteFile(filepath.Join(dir, "dashboard.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("STORE_MAX_AGE", "6h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected environment to override the file, got port %s", cfg.Port)
	}
	if cfg.RefreshInterval != 5*time.Minute || cfg.Locale != weather.LocaleEN || cfg.PastDays != 3 {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.StoreMaxAge != 6*time.Hour {
		t.Fatalf("expected STORE_MAX_AGE=6h, got %v", cfg.StoreMaxAge)
	}
	if len(cfg.Locations) != 2 || cfg.Locations[1].Name != "Lviv" {
		t.Fatalf("unexpected locations: %+v", cfg.Locations)
	}
}

func TestLoadLocationsFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("LOCATION_NAMES", "Kyiv, Odesa")
	t.Setenv("LOCATION_LATS", "50.45,46.48")
	t.Setenv("LOCATION_LONS", "30.52,30.72")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Locations) != 2 || cfg.Locations[1].Name != "Odesa" || cfg.Locations[1].Lat != 46.48 {
		t.Fatalf("unexpected locations: %+v", cfg.Locations)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad interval":           {"REFRESH_INTERVAL": "soon"},
		"unknown locale":         {"LOCALE": "fr"},
		"unknown provider":       {"WEATHER_PROVIDER": "metoffice"},
		"weatherapi without key": {"WEATHER_PROVIDER": "weatherapi"},
		"mismatched coordinates": {"LOCATION_NAMES": "Kyiv,Odesa", "LOCATION_LATS": "50.45", "LOCATION_LONS": "30.52"},
		"latitude out of range":  {"LOCATION_NAMES": "Nowhere", "LOCATION_LATS": "123", "LOCATION_LONS": "0"},
		"invalid model url":      {"MODEL_URL": "not a url"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
