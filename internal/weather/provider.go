package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSourceUnavailable is returned when the weather data source cannot be reached
	// or answers with a non-success status.
	ErrSourceUnavailable = errors.New("weather data source unavailable")

	// ErrMalformedResponse is returned when a payload is missing expected series
	// or its series disagree in length.
	ErrMalformedResponse = errors.New("malformed weather response")
)

// Provider abstracts a forecast data source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location) (Source, error)
}

// Store is the contract the in-memory dataset store must satisfy.
type Store interface {
	SaveDataset(loc Location, ds Dataset) error
	GetLatest(loc Location) (Dataset, error)
	GetRange(loc Location, from, to time.Time) ([]Dataset, error)
}
