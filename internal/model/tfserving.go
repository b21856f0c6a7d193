package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// TFServingClient is a Predictor backed by the TensorFlow Serving REST API.
type TFServingClient struct {
	baseURL   string
	modelName string
	httpCfg   common.HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

// NewTFServingClient creates a client for the named model served at baseURL.
func NewTFServingClient(client *http.Client, baseURL, modelName string) *TFServingClient {
	return &TFServingClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		modelName: modelName,
		httpCfg:   common.HTTPClientConfig{Client: client},
		circuit:   common.NewCircuitBreaker("tfserving"),
	}
}

func (c *TFServingClient) modelURL() string {
	return fmt.Sprintf("%s/v1/models/%s", c.baseURL, url.PathEscape(c.modelName))
}

// Probe checks that the model is loaded and has at least one available version.
func (c *TFServingClient) Probe(ctx context.Context) error {
	resp, err := common.DoRequest(ctx, c.httpCfg, c.circuit, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(), nil)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		ModelVersionStatus []struct {
			Version string `json:"version"`
			State   string `json:"state"`
		} `json:"model_version_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: decode model status: %v", ErrUnavailable, err)
	}
	for _, v := range payload.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return fmt.Errorf("%w: model %q has no available version", ErrUnavailable, c.modelName)
}

// Predict sends the window as a batch of one and returns the single prediction row.
func (c *TFServingClient) Predict(ctx context.Context, window [][]float64) ([]float64, error) {
	body, err := json.Marshal(struct {
		Instances [][][]float64 `json:"instances"`
	}{Instances: [][][]float64{window}})
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	resp, err := common.DoRequest(ctx, c.httpCfg, c.circuit, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL()+":predict", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		// 4xx means the server is up but rejected the input tensor.
		if errors.Is(err, common.ErrUnexpectedStatus) {
			return nil, fmt.Errorf("%w: predict rejected: %v", ErrShapeMismatch, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Predictions [][]float64 `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode predictions: %v", ErrShapeMismatch, err)
	}
	if len(payload.Predictions) != 1 {
		return nil, fmt.Errorf("%w: got %d prediction rows for a batch of 1", ErrShapeMismatch, len(payload.Predictions))
	}
	return payload.Predictions[0], nil
}

var _ Predictor = (*TFServingClient)(nil)
