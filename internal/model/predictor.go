package model

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the model could not be reached. Callers fall back
	// to forecasting directly from the source.
	ErrUnavailable = errors.New("model unavailable")

	// ErrShapeMismatch means the model rejected the input tensor or answered
	// with one of the wrong shape.
	// It is a configuration error and is never recovered from silently.
	ErrShapeMismatch = errors.New("model output shape mismatch")
)

// Predictor runs the temperature model over a single scaled input window
// (timesteps x features) and returns one value per horizon hour.
//
// Implementations must not retain window after Predict returns; the caller
// reuses its backing memory.
type Predictor interface {
	Predict(ctx context.Context, window [][]float64) ([]float64, error)
}
