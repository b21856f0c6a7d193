package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrScalerUnavailable is returned when no usable scaler configuration exists.
var ErrScalerUnavailable = errors.New("scaler configuration unavailable")

var validate = validator.New()

// ScalerConfig holds the standardization parameters exported next to the trained
// model, together with the window shape the model was trained on.
type ScalerConfig struct {
	Mean       []float64 `json:"mean" validate:"required,min=1"`
	Scale      []float64 `json:"scale" validate:"required,min=1,dive,ne=0"`
	Features   []string  `json:"features" validate:"required,min=1,dive,required"`
	InputHours int       `json:"input_hours" validate:"required,gt=0"`
	Horizon    int       `json:"horizon" validate:"required,gt=0"`
}

// Validate checks field constraints and that the per-feature slices line up.
func (c ScalerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if len(c.Mean) != len(c.Scale) || len(c.Mean) != len(c.Features) {
		return fmt.Errorf("scaler has %d means, %d scales and %d features", len(c.Mean), len(c.Scale), len(c.Features))
	}
	return nil
}

// LoadScalerConfig reads and validates a scaler JSON file.
func LoadScalerConfig(path string) (ScalerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScalerConfig{}, fmt.Errorf("%w: %v", ErrScalerUnavailable, err)
	}

	var cfg ScalerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ScalerConfig{}, fmt.Errorf("%w: parse %s: %v", ErrScalerUnavailable, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return ScalerConfig{}, fmt.Errorf("%w: %s: %v", ErrScalerUnavailable, path, err)
	}
	return cfg, nil
}

// ScaleRow standardizes one feature vector: (raw[i] - mean[i]) / scale[i].
// raw must have exactly one value per feature; anything else is a caller bug and panics.
func ScaleRow(raw []float64, cfg ScalerConfig) []float64 {
	return ScaleRowInto(make([]float64, len(raw)), raw, cfg)
}

// ScaleRowInto is ScaleRow writing into dst, which must be as long as raw.
func ScaleRowInto(dst, raw []float64, cfg ScalerConfig) []float64 {
	if len(raw) != len(cfg.Mean) || len(dst) != len(raw) {
		panic(fmt.Sprintf("model: feature vector has %d values, scaler expects %d", len(raw), len(cfg.Mean)))
	}
	for i, v := range raw {
		dst[i] = (v - cfg.Mean[i]) / cfg.Scale[i]
	}
	return dst
}

// UnscaleRow inverts ScaleRow.
func UnscaleRow(scaled []float64, cfg ScalerConfig) []float64 {
	if len(scaled) != len(cfg.Mean) {
		panic(fmt.Sprintf("model: scaled vector has %d values, scaler expects %d", len(scaled), len(cfg.Mean)))
	}
	raw := make([]float64, len(scaled))
	for i, v := range scaled {
		raw[i] = v*cfg.Scale[i] + cfg.Mean[i]
	}
	return raw
}
