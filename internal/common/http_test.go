package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func getter(url string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func TestDoRequestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusOK, nil},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusServiceUnavailable, ErrServerError},
		{http.StatusNotFound, ErrUnexpectedStatus},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		resp, err := DoRequest(context.Background(), HTTPClientConfig{Client: srv.Client()}, NewCircuitBreaker("test"), getter(srv.URL))
		srv.Close()

		if tc.want == nil {
			if err != nil {
				t.Fatalf("status %d: unexpected error: %v", tc.status, err)
			}
			resp.Body.Close()
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestDoRequestOpensCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client()}
	cb := NewCircuitBreaker("flaky")
	var err error
	for i := 0; i < 10 && !errors.Is(err, ErrCircuitOpen); i++ {
		_, err = DoRequest(context.Background(), cfg, cb, getter(srv.URL))
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit to open, last error %v", err)
	}
}

func TestDoRequestWithoutClient(t *testing.T) {
	_, err := DoRequest(context.Background(), HTTPClientConfig{}, NewCircuitBreaker("none"), getter("http://example.invalid"))
	if !errors.Is(err, ErrNoHTTPClient) {
		t.Fatalf("expected ErrNoHTTPClient, got %v", err)
	}
}

func TestLimiter(t *testing.T) {
	if NewLimiter(0) != nil {
		t.Fatalf("expected no limiter for zero rps")
	}
	l := NewLimiter(0.5)
	if l == nil || l.Burst() != 1 {
		t.Fatalf("expected burst 1 for fractional rps")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DoRequest(ctx, HTTPClientConfig{Client: http.DefaultClient, Limiter: l}, NewCircuitBreaker("limited"), getter("http://example.invalid"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled wait, got %v", err)
	}
}
