package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/model"
)

// ErrInsufficientHistory is returned when the source does not hold a full input
// window before the current hour.
var ErrInsufficientHistory = errors.New("insufficient history for model input window")

// HorizonForecast is what a strategy produces for the forward horizon.
type HorizonForecast struct {
	Hours    []HourlyPoint
	Strategy string
	Warnings []string
}

// ForecastStrategy builds the horizon forecast for a source and the index of its
// current hour. It is selected once at startup.
type ForecastStrategy interface {
	Name() string
	Forecast(ctx context.Context, src Source, idxNow int) (HorizonForecast, error)
}

// DirectStrategy takes the horizon verbatim from the source.
type DirectStrategy struct {
	horizon int
}

// NewDirectStrategy returns a DirectStrategy for horizon hours (DefaultHorizonHours if <= 0).
func NewDirectStrategy(horizon int) DirectStrategy {
	if horizon <= 0 {
		horizon = DefaultHorizonHours
	}
	return DirectStrategy{horizon: horizon}
}

func (DirectStrategy) Name() string { return "direct" }

// Horizon is the number of hours the strategy takes from the source.
func (s DirectStrategy) Horizon() int { return s.horizon }

func (s DirectStrategy) Forecast(_ context.Context, src Source, idxNow int) (HorizonForecast, error) {
	h := src.Hourly
	start, end := HorizonBounds(h.Len(), idxNow, s.horizon)

	hours := make([]HourlyPoint, 0, end-start)
	for i := start; i < end; i++ {
		hours = append(hours, HourlyPoint{
			Time:                        FormatHourMinute(h.Time[i]),
			TemperatureC:                h.TemperatureC[i],
			PrecipitationProbabilityPct: h.PrecipitationProbabilityPct[i],
			WindSpeedKmh:                h.WindSpeedKmh[i],
		})
	}
	return HorizonForecast{Hours: hours, Strategy: s.Name()}, nil
}

// ModelAssistedStrategy predicts temperature with a model over the scaled input
// window; precipitation and wind still come from the source horizon.
type ModelAssistedStrategy struct {
	scaler     model.ScalerConfig
	predictor  model.Predictor
	fallback   ForecastStrategy
	extractors []featureFunc
	buffers    sync.Pool
}

// NewModelAssistedStrategy validates the scaler against the known features.
// fallback serves refreshes the model cannot (missing history, model unreachable).
func NewModelAssistedStrategy(scaler model.ScalerConfig, predictor model.Predictor, fallback ForecastStrategy) (*ModelAssistedStrategy, error) {
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler: %w", err)
	}
	extractors, err := resolveFeatures(scaler.Features)
	if err != nil {
		return nil, err
	}
	if fallback == nil {
		fallback = NewDirectStrategy(scaler.Horizon)
	}

	size := scaler.InputHours * len(scaler.Features)
	s := &ModelAssistedStrategy{
		scaler:     scaler,
		predictor:  predictor,
		fallback:   fallback,
		extractors: extractors,
	}
	s.buffers.New = func() any {
		buf := make([]float64, size)
		return &buf
	}
	return s, nil
}

func (s *ModelAssistedStrategy) Name() string { return "model" }

func (s *ModelAssistedStrategy) Forecast(ctx context.Context, src Source, idxNow int) (HorizonForecast, error) {
	hf, err := s.predict(ctx, src, idxNow)
	if err == nil {
		return hf, nil
	}

	var reason string
	switch {
	case errors.Is(err, ErrInsufficientHistory):
		reason = "insufficient_history"
	case errors.Is(err, model.ErrUnavailable):
		reason = "model_unavailable"
	default:
		return HorizonForecast{}, err
	}

	log.Printf("WARN: model forecast for %s skipped, using %s: %v", src.Location.Key(), s.fallback.Name(), err)
	metrics.StrategyFallbacks.WithLabelValues(reason).Inc()

	hf, ferr := s.fallback.Forecast(ctx, src, idxNow)
	if ferr != nil {
		return HorizonForecast{}, ferr
	}
	hf.Warnings = append(hf.Warnings, fmt.Sprintf("model forecast skipped: %v", err))
	return hf, nil
}

func (s *ModelAssistedStrategy) predict(ctx context.Context, src Source, idxNow int) (HorizonForecast, error) {
	h := src.Hourly
	n := h.Len()

	start, end := InputWindowBounds(n, idxNow, s.scaler.InputHours)
	if end-start < s.scaler.InputHours {
		return HorizonForecast{}, fmt.Errorf("%w: have %d of %d hours", ErrInsufficientHistory, end-start, s.scaler.InputHours)
	}
	for i := start; i < end; i++ {
		if _, err := time.Parse(hourLayout, h.Time[i]); err != nil {
			return HorizonForecast{}, fmt.Errorf("%w: hourly time %q: %v", ErrMalformedResponse, h.Time[i], err)
		}
	}

	preds, err := s.infer(ctx, h, start, end)
	if err != nil {
		return HorizonForecast{}, err
	}
	if len(preds) != s.scaler.Horizon {
		return HorizonForecast{}, fmt.Errorf("%w: model returned %d values, want %d", model.ErrShapeMismatch, len(preds), s.scaler.Horizon)
	}

	hs, he := HorizonBounds(n, idxNow, s.scaler.Horizon)
	hours := make([]HourlyPoint, 0, he-hs)
	for k, i := 0, hs; i < he; k, i = k+1, i+1 {
		hours = append(hours, HourlyPoint{
			Time:                        FormatHourMinute(h.Time[i]),
			TemperatureC:                math.Round(preds[k]*10) / 10,
			PrecipitationProbabilityPct: h.PrecipitationProbabilityPct[i],
			WindSpeedKmh:                h.WindSpeedKmh[i],
		})
	}
	return HorizonForecast{Hours: hours, Strategy: s.Name()}, nil
}

// infer scales hours [start, end) into a pooled buffer and runs the predictor.
// The buffer goes back to the pool as soon as Predict returns.
func (s *ModelAssistedStrategy) infer(ctx context.Context, h HourlySeries, start, end int) ([]float64, error) {
	width := len(s.extractors)

	bufp := s.buffers.Get().(*[]float64)
	defer func() {
		clear(*bufp)
		s.buffers.Put(bufp)
	}()
	buf := *bufp

	raw := make([]float64, width)
	window := make([][]float64, 0, end-start)
	for i := start; i < end; i++ {
		for f, extract := range s.extractors {
			raw[f] = extract(h, i)
		}
		off := (i - start) * width
		window = append(window, model.ScaleRowInto(buf[off:off+width], raw, s.scaler))
	}

	began := time.Now()
	preds, err := s.predictor.Predict(ctx, window)
	metrics.InferenceDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return preds, nil
}

var (
	_ ForecastStrategy = DirectStrategy{}
	_ ForecastStrategy = (*ModelAssistedStrategy)(nil)
)
