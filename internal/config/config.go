package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Defaults for the single dashboard location.
var defaultLocation = weather.Location{Name: "Кривий Ріг", Country: "UA", Lat: 47.9105, Lon: 33.3918}

type AppConfig struct {
	Port        string        `validate:"required"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// RefreshInterval controls how often each location dataset is rebuilt.
	RefreshInterval time.Duration `validate:"gt=0"`
	RefreshTimeout  time.Duration `validate:"gt=0"`

	Locale weather.Locale `validate:"oneof=uk en"`

	// Data source.
	Provider      string  `validate:"oneof=openmeteo weatherapi"`
	OpenMeteoURL  string  `validate:"required,url"`
	PastDays      int     `validate:"gte=0,lte=92"`
	ProviderRPS   float64 `validate:"gte=0"`
	WeatherAPIKey string  `validate:"required_if=Provider weatherapi"`

	// Model-assisted forecasting; empty ModelURL selects the direct strategy.
	ScalerPath string
	ModelURL   string `validate:"omitempty,url"`
	ModelName  string `validate:"required_with=ModelURL"`

	// Locations to track.
	Locations      []weather.Location `validate:"min=1,dive"`
	GeocoderAPIKey string

	// In-memory store retention.
	StoreMaxHistory int           `validate:"gte=0"` // max number of datasets per location (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"gte=0"` // max age of datasets (0 = unlimited)
}

// fileConfig is the optional YAML layer. Durations are Go duration strings.
type fileConfig struct {
	Port            string             `yaml:"port"`
	HTTPTimeout     string             `yaml:"http_timeout"`
	RefreshInterval string             `yaml:"refresh_interval"`
	RefreshTimeout  string             `yaml:"refresh_timeout"`
	Locale          string             `yaml:"locale"`
	Provider        string             `yaml:"provider"`
	OpenMeteoURL    string             `yaml:"open_meteo_url"`
	PastDays        *int               `yaml:"past_days"`
	ProviderRPS     *float64           `yaml:"provider_rps"`
	ScalerPath      string             `yaml:"scaler_path"`
	ModelURL        string             `yaml:"model_url"`
	ModelName       string             `yaml:"model_name"`
	Locations       []weather.Location `yaml:"locations"`
	StoreMaxHistory *int               `yaml:"store_max_history"`
	StoreMaxAge     string             `yaml:"store_max_age"`
}

// Load reads configuration from the optional YAML file and the environment,
// environment winning, with defaults for everything left unset.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := defaults()

	path := getenvDefault("CONFIG_FILE", "dashboard.yaml")
	if err := applyFile(cfg, path); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		Port:            "8080",
		HTTPTimeout:     10 * time.Second,
		RefreshInterval: 15 * time.Minute,
		RefreshTimeout:  30 * time.Second,
		Locale:          weather.LocaleUK,
		Provider:        "openmeteo",
		OpenMeteoURL:    "https://api.open-meteo.com/v1/forecast",
		PastDays:        2,
		ProviderRPS:     1,
		ScalerPath:      "web/scaler.json",
		ModelName:       "weather",
		Locations:       []weather.Location{defaultLocation},
		StoreMaxHistory: 96, // roughly 24h at 15-minute intervals
		StoreMaxAge:     24 * time.Hour,
	}
}

func applyFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("INFO: config file %s not found, using environment only", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&cfg.Port, fc.Port)
	setString(&cfg.Provider, fc.Provider)
	setString(&cfg.OpenMeteoURL, fc.OpenMeteoURL)
	setString(&cfg.ScalerPath, fc.ScalerPath)
	setString(&cfg.ModelURL, fc.ModelURL)
	setString(&cfg.ModelName, fc.ModelName)
	if fc.Locale != "" {
		cfg.Locale = weather.Locale(fc.Locale)
	}
	if fc.PastDays != nil {
		cfg.PastDays = *fc.PastDays
	}
	if fc.ProviderRPS != nil {
		cfg.ProviderRPS = *fc.ProviderRPS
	}
	if fc.StoreMaxHistory != nil {
		cfg.StoreMaxHistory = *fc.StoreMaxHistory
	}
	if len(fc.Locations) > 0 {
		cfg.Locations = fc.Locations
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"http_timeout", fc.HTTPTimeout, &cfg.HTTPTimeout},
		{"refresh_interval", fc.RefreshInterval, &cfg.RefreshInterval},
		{"refresh_timeout", fc.RefreshTimeout, &cfg.RefreshTimeout},
		{"store_max_age", fc.StoreMaxAge, &cfg.StoreMaxAge},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s in %s: %w", d.name, path, err)
		}
		*d.dst = v
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.Port, os.Getenv("PORT"))
	setString(&cfg.Provider, os.Getenv("WEATHER_PROVIDER"))
	setString(&cfg.OpenMeteoURL, os.Getenv("OPEN_METEO_URL"))
	setString(&cfg.WeatherAPIKey, os.Getenv("WEATHERAPI_API_KEY"))
	setString(&cfg.ScalerPath, os.Getenv("SCALER_PATH"))
	setString(&cfg.ModelURL, os.Getenv("MODEL_URL"))
	setString(&cfg.ModelName, os.Getenv("MODEL_NAME"))
	setString(&cfg.GeocoderAPIKey, os.Getenv("GEOCODER_API_KEY"))
	if v := os.Getenv("LOCALE"); v != "" {
		cfg.Locale = weather.Locale(v)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", cfg.RefreshInterval); err != nil {
		return err
	}
	if cfg.RefreshTimeout, err = getenvDuration("REFRESH_TIMEOUT", cfg.RefreshTimeout); err != nil {
		return err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", cfg.StoreMaxAge); err != nil {
		return err
	}

	cfg.PastDays = getenvInt("PAST_DAYS", cfg.PastDays)
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", cfg.StoreMaxHistory)
	if v := os.Getenv("PROVIDER_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid PROVIDER_RPS: %w", err)
		}
		cfg.ProviderRPS = rps
	}

	locs, err := loadLocations()
	if err != nil {
		return err
	}
	if locs != nil {
		cfg.Locations = locs
	}
	return nil
}

// loadLocations parses LOCATION_NAMES with optional parallel LOCATION_COUNTRIES,
// LOCATION_LATS and LOCATION_LONS lists. Locations without coordinates are left
// for the geocoder. It returns nil when LOCATION_NAMES is unset.
func loadLocations() ([]weather.Location, error) {
	names := splitList(os.Getenv("LOCATION_NAMES"))
	if len(names) == 0 {
		return nil, nil
	}
	countries := splitList(os.Getenv("LOCATION_COUNTRIES"))
	lats := splitList(os.Getenv("LOCATION_LATS"))
	lons := splitList(os.Getenv("LOCATION_LONS"))

	if len(countries) > 0 && len(countries) != len(names) {
		return nil, fmt.Errorf("number of location names and countries must be the same")
	}
	if len(lats) != len(lons) {
		return nil, fmt.Errorf("number of location latitudes and longitudes must be the same")
	}
	if len(lats) > 0 && len(lats) != len(names) {
		return nil, fmt.Errorf("number of location names and coordinates must be the same")
	}

	locs := make([]weather.Location, len(names))
	for i, name := range names {
		locs[i].Name = name
		if len(countries) > 0 {
			locs[i].Country = countries[i]
		}
		if len(lats) == 0 {
			continue
		}
		lat, err := strconv.ParseFloat(lats[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude for %s: %w", name, err)
		}
		lon, err := strconv.ParseFloat(lons[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude for %s: %w", name, err)
		}
		locs[i].Lat, locs[i].Lon = lat, lon
	}
	return locs, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
