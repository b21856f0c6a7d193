package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/model"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider and model calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Locations configured by name only are geocoded once at startup.
	locations, err := providers.NewGeocoder(cfg.GeocoderAPIKey).ResolveAll(cfg.Locations)
	if err != nil {
		log.Fatalf("failed to resolve locations: %v", err)
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	provider := newProvider(cfg, httpClient)
	strategy := selectStrategy(cfg, httpClient)
	log.Printf("INFO: using %s provider with %s forecast strategy", provider.Name(), strategy.Name())

	// Core service orchestrating provider, strategy and store.
	service := weather.NewService(memStore, provider, strategy, cfg.Locale)

	// Scheduler that periodically rebuilds the dashboard datasets.
	sched := scheduler.New(locations, cfg.RefreshInterval, cfg.RefreshTimeout, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := newApp(service, httpapi.Options{Locations: locations, RefreshTimeout: cfg.RefreshTimeout})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func newApp(service *weather.Service, opts httpapi.Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-dashboard",
			"strategy": service.StrategyName(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpapi.RegisterRoutes(app, service, opts)
	return app
}

func newProvider(cfg *config.AppConfig, client *http.Client) weather.Provider {
	if cfg.Provider == "weatherapi" {
		return providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey, weather.MaxDays, cfg.ProviderRPS)
	}
	return providers.NewOpenMeteoProvider(client, providers.OpenMeteoOptions{
		BaseURL:           cfg.OpenMeteoURL,
		PastDays:          cfg.PastDays,
		ForecastDays:      weather.MaxDays,
		RequestsPerSecond: cfg.ProviderRPS,
	})
}

// selectStrategy picks the forecast strategy once for the process lifetime.
// Model assistance needs a scaler file and a reachable model; anything missing
// selects the direct strategy. A scaler naming unknown features is a config error.
func selectStrategy(cfg *config.AppConfig, client *http.Client) weather.ForecastStrategy {
	direct := weather.NewDirectStrategy(weather.DefaultHorizonHours)

	if cfg.ModelURL == "" {
		log.Printf("INFO: MODEL_URL not set, using direct forecast")
		return direct
	}

	scaler, err := model.LoadScalerConfig(cfg.ScalerPath)
	if err != nil {
		log.Printf("WARN: %v, using direct forecast", err)
		return direct
	}
	// Direct refreshes keep the model's horizon so the chart length does not change on fallback.
	direct = weather.NewDirectStrategy(scaler.Horizon)

	predictor := model.NewTFServingClient(client, cfg.ModelURL, cfg.ModelName)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	if err := predictor.Probe(ctx); err != nil {
		log.Printf("WARN: model probe failed: %v, using direct forecast", err)
		return direct
	}

	strategy, err := weather.NewModelAssistedStrategy(scaler, predictor, direct)
	if errors.Is(err, weather.ErrUnknownFeature) {
		log.Fatalf("invalid scaler config %s: %v", cfg.ScalerPath, err)
	}
	if err != nil {
		log.Printf("WARN: model strategy unavailable: %v, using direct forecast", err)
		return direct
	}
	return strategy
}
